package memory

import (
	common "storefront/internal/domain/common"
	orderdom "storefront/internal/domain/order"
	"storefront/internal/domain/sequence"
)

func paginateOrders(all []orderdom.Order, page orderdom.Page) orderdom.PageResult {
	return common.Paginate(all, page)
}

// issuedMarks は scope ごとに払い出した最大の sequence を覚える。
// Delete では下げないので、削除済みの番号は二度と払い出されない。
// 呼び出し側 repo の mutex の下で使うこと。
type issuedMarks map[string]int

// next returns the sequence after max(issued, surviving).
func (m issuedMarks) next(scope sequence.Scope, surviving int) (int, error) {
	return sequence.Next(sequence.Max(m[scope.Key], surviving))
}

func (m issuedMarks) commit(scope sequence.Scope, seq int) {
	if seq > m[scope.Key] {
		m[scope.Key] = seq
	}
}
