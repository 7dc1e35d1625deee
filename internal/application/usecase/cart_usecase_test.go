package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"
)

func TestCartUsecase_AddMergesSameKey(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.carts.Add(ctx, "s1", AddToCartInput{ProductID: "P1", Color: "red"})
	require.NoError(t, err)
	v, err := f.carts.Add(ctx, "s1", AddToCartInput{ProductID: "P1", Color: "red", UnitType: "piece"})
	require.NoError(t, err)

	require.Len(t, v.Lines, 1)
	assert.Equal(t, 2, v.Lines[0].Quantity)
	assert.Equal(t, "20.00", v.Total)

	v, err = f.carts.Add(ctx, "s1", AddToCartInput{ProductID: "P1", Color: "red", UnitType: "bundle"})
	require.NoError(t, err)
	require.Len(t, v.Lines, 2)
	assert.Equal(t, "Bundle (5 pcs)", v.Lines[1].UnitLabel)
	assert.Equal(t, "65.00", v.Total)
}

func TestCartUsecase_ColorCaseSharesOneLine(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.carts.Add(ctx, "s1", AddToCartInput{ProductID: "P1", Color: "red"})
	require.NoError(t, err)
	v, err := f.carts.Add(ctx, "s1", AddToCartInput{ProductID: "P1", Color: " RED "})
	require.NoError(t, err)

	require.Len(t, v.Lines, 1)
	assert.Equal(t, "red", v.Lines[0].Color, "stored with the product's spelling")
	assert.Equal(t, 2, v.Lines[0].Quantity)

	v, err = f.carts.Decrement(ctx, "s1", cartdom.NewLineKey("P1", catalog.UnitPiece, "Red"))
	require.NoError(t, err)
	require.Len(t, v.Lines, 1)
	assert.Equal(t, 1, v.Lines[0].Quantity)

	v, err = f.carts.SetQuantity(ctx, "s1", cartdom.NewLineKey("P1", catalog.UnitPiece, "RED"), 0)
	require.NoError(t, err)
	assert.Empty(t, v.Lines)
}

func TestCartUsecase_TotalOfTwoProducts(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.carts.Add(ctx, "s1", AddToCartInput{ProductID: "P1"})
	require.NoError(t, err)
	v, err := f.carts.Add(ctx, "s1", AddToCartInput{ProductID: "P2"})
	require.NoError(t, err)

	assert.Equal(t, "35.00", v.Total)
	assert.Equal(t, 2, v.TotalQuantity)
	assert.Equal(t, 2, v.LineCount)
}

func TestCartUsecase_AddRejectsUnknownOptions(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.carts.Add(ctx, "s1", AddToCartInput{ProductID: "P1", UnitType: "carton"})
	assert.ErrorIs(t, err, ErrCartUnknownUnit)

	_, err = f.carts.Add(ctx, "s1", AddToCartInput{ProductID: "P1", UnitType: "crate"})
	assert.ErrorIs(t, err, catalog.ErrInvalidUnitType)

	_, err = f.carts.Add(ctx, "s1", AddToCartInput{ProductID: "P1", Color: "green"})
	assert.ErrorIs(t, err, ErrCartUnknownColor)

	_, err = f.carts.Add(ctx, "s1", AddToCartInput{ProductID: "missing"})
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = f.carts.Add(ctx, " ", AddToCartInput{ProductID: "P1"})
	assert.ErrorIs(t, err, ErrCartSessionRequired)

	v, err := f.carts.View(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, v.Lines)
}

func TestCartUsecase_SessionsAreIsolated(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.carts.Add(ctx, "alice", AddToCartInput{ProductID: "P2"})
	require.NoError(t, err)

	v, err := f.carts.View(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, v.Lines)

	v, err = f.carts.View(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, v.Lines, 1)
}

func TestCartUsecase_QuantityOperations(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	key := cartdom.NewLineKey("P2", catalog.UnitPiece, "")

	_, err := f.carts.Add(ctx, "s1", AddToCartInput{ProductID: "P2"})
	require.NoError(t, err)

	v, err := f.carts.Increment(ctx, "s1", key)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Lines[0].Quantity)

	v, err = f.carts.SetQuantity(ctx, "s1", key, 4.7)
	require.NoError(t, err)
	assert.Equal(t, 4, v.Lines[0].Quantity)

	v, err = f.carts.SetQuantity(ctx, "s1", key, -3)
	require.NoError(t, err)
	assert.Equal(t, 4, v.Lines[0].Quantity)

	v, err = f.carts.SetQuantity(ctx, "s1", key, 1)
	require.NoError(t, err)
	v, err = f.carts.Decrement(ctx, "s1", key)
	require.NoError(t, err)
	assert.Empty(t, v.Lines)

	_, err = f.carts.Remove(ctx, "s1", key)
	assert.ErrorIs(t, err, ErrCartLineNotFound)
}

func TestCartUsecase_ClearRemovesStoredState(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.carts.Add(ctx, "s1", AddToCartInput{ProductID: "P1"})
	require.NoError(t, err)
	_, ok, _ := f.store.Get(ctx, "session/s1/"+cartdom.StorageKey)
	assert.True(t, ok)

	_, err = f.carts.Clear(ctx, "s1")
	require.NoError(t, err)
	_, ok, _ = f.store.Get(ctx, "session/s1/"+cartdom.StorageKey)
	assert.False(t, ok)
}

func TestCartUsecase_Snapshot(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.carts.Add(ctx, "s1", AddToCartInput{ProductID: "P2"})
	require.NoError(t, err)

	s, err := f.carts.Snapshot(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, fixedNow, s.TakenAt)
	assert.Equal(t, "25", s.Total.String())
}
