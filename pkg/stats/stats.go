// Package stats reduces a user's transactions into totals and a per-category
// breakdown.
package stats

import (
	"context"

	"moneytracker/models"
)

// UnknownCategory labels transactions whose category name was never stored.
const UnknownCategory = "Unknown"

type Breakdown struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type Stats struct {
	TotalIncome       float64              `json:"total_income"`
	TotalExpense      float64              `json:"total_expense"`
	Balance           float64              `json:"balance"`
	TransactionCount  int                  `json:"transaction_count"`
	CategoryBreakdown map[string]Breakdown `json:"category_breakdown"`
}

// Compute sums txs in a single pass. Amounts are added in input order with
// no rounding.
func Compute(txs []models.Transaction) Stats {
	s := Stats{CategoryBreakdown: map[string]Breakdown{}}
	for _, t := range txs {
		name := t.CategoryName
		if name == "" {
			name = UnknownCategory
		}
		b := s.CategoryBreakdown[name]
		switch t.Type {
		case models.Income:
			s.TotalIncome += t.Amount
			b.Income += t.Amount
		case models.Expense:
			s.TotalExpense += t.Amount
			b.Expense += t.Amount
		}
		s.CategoryBreakdown[name] = b
	}
	s.Balance = s.TotalIncome - s.TotalExpense
	s.TransactionCount = len(txs)
	return s
}

// Source loads every stored transaction of a user.
type Source interface {
	All(ctx context.Context, userID string) ([]models.Transaction, error)
}

type Service struct {
	src Source
}

func NewService(src Source) *Service {
	return &Service{src: src}
}

func (s *Service) Summarize(ctx context.Context, userID string) (Stats, error) {
	txs, err := s.src.All(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	return Compute(txs), nil
}
