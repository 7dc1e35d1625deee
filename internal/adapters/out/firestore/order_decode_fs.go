package firestore

import (
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"storefront/internal/domain/catalog"
	orderdom "storefront/internal/domain/order"
)

// orderToDoc は domain → Firestore doc。
// 金額は number (float64) で保存する。
func orderToDoc(o orderdom.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, it := range o.Items {
		m := map[string]any{
			"productId":     it.ProductID,
			"name":          it.Name,
			"unitType":      string(it.UnitType),
			"unitLabel":     it.UnitLabel,
			"price":         money(it.UnitPrice),
			"piecesPerUnit": it.PiecesPerUnit,
			"quantity":      it.Quantity,
		}
		if it.Color != "" {
			m["color"] = it.Color
		}
		items = append(items, m)
	}

	doc := map[string]any{
		"customerName":              o.Customer.Name,
		"status":                    string(o.Status),
		"total":                     money(o.Total),
		"items":                     items,
		"createdAt":                 o.CreatedAt.UTC(),
		orderdom.FieldOrderSequence: o.Sequence,
		orderdom.FieldOrderMonth:    o.Month,
		orderdom.FieldOrderNumber:   o.Number,
	}
	putOptional(doc, "customerEmail", o.Customer.Email)
	putOptional(doc, "customerPhone", o.Customer.Phone)
	putOptional(doc, "restaurantName", o.Customer.RestaurantName)
	putOptional(doc, "shippingAddress", o.Customer.ShippingAddress)
	putOptional(doc, "notes", o.Notes)
	if o.UpdatedAt != nil {
		doc["updatedAt"] = o.UpdatedAt.UTC()
	}
	return doc
}

func putOptional(doc map[string]any, key, v string) {
	if v = strings.TrimSpace(v); v != "" {
		doc[key] = v
	}
}

func docToOrder(snap *firestore.DocumentSnapshot) (orderdom.Order, error) {
	data := snap.Data()
	if data == nil {
		return orderdom.Order{}, orderdom.ErrNotFound
	}

	o := orderdom.Order{
		ID: snap.Ref.ID,
		Customer: orderdom.Customer{
			Name:            asString(data["customerName"]),
			Email:           asString(data["customerEmail"]),
			Phone:           asString(data["customerPhone"]),
			RestaurantName:  asString(data["restaurantName"]),
			ShippingAddress: asString(data["shippingAddress"]),
		},
		Notes:    asString(data["notes"]),
		Status:   orderdom.Status(asString(data["status"])),
		Total:    asDecimal(data["total"]),
		Sequence: asInt(data[orderdom.FieldOrderSequence]),
		Month:    asString(data[orderdom.FieldOrderMonth]),
		Number:   asString(data[orderdom.FieldOrderNumber]),
	}
	if !o.Status.Valid() {
		o.Status = orderdom.StatusPending
	}
	if o.Number == "" {
		o.Number = o.ID
	}
	if t, ok := asTime(data["createdAt"]); ok {
		o.CreatedAt = t
	}
	if t, ok := asTime(data["updatedAt"]); ok {
		tt := t
		o.UpdatedAt = &tt
	}

	for _, m := range asMapSlice(data["items"]) {
		it := orderdom.Item{
			ProductID:     asString(m["productId"]),
			Name:          asString(m["name"]),
			UnitType:      catalog.UnitType(asString(m["unitType"])),
			UnitLabel:     asString(m["unitLabel"]),
			UnitPrice:     asDecimal(m["price"]),
			PiecesPerUnit: asInt(m["piecesPerUnit"]),
			Color:         asString(m["color"]),
			Quantity:      asInt(m["quantity"]),
		}
		// 単位情報のない旧データは piece として扱う
		if !it.UnitType.Valid() {
			it.UnitType = catalog.UnitPiece
			it.PiecesPerUnit = 1
		}
		o.Items = append(o.Items, it)
	}
	if o.Total.IsZero() && len(o.Items) > 0 {
		o.Total = orderdom.SumItems(o.Items)
	}

	return o, nil
}

// patchUpdates converts an updated order into Firestore field updates.
func patchUpdates(o orderdom.Order, now time.Time) []firestore.Update {
	opt := func(v string) any {
		if v == "" {
			return firestore.Delete
		}
		return v
	}
	return []firestore.Update{
		{Path: "customerName", Value: o.Customer.Name},
		{Path: "customerEmail", Value: opt(o.Customer.Email)},
		{Path: "customerPhone", Value: opt(o.Customer.Phone)},
		{Path: "restaurantName", Value: opt(o.Customer.RestaurantName)},
		{Path: "shippingAddress", Value: opt(o.Customer.ShippingAddress)},
		{Path: "notes", Value: opt(o.Notes)},
		{Path: "status", Value: string(o.Status)},
		{Path: "updatedAt", Value: now.UTC()},
	}
}
