package stats

import (
	"context"
	"errors"
	"testing"

	"moneytracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil)
	assert.Zero(t, s.TotalIncome)
	assert.Zero(t, s.TotalExpense)
	assert.Zero(t, s.Balance)
	assert.Zero(t, s.TransactionCount)
	assert.NotNil(t, s.CategoryBreakdown)
	assert.Empty(t, s.CategoryBreakdown)
}

func TestCompute(t *testing.T) {
	txs := []models.Transaction{
		{Type: models.Income, CategoryName: "Gaji", Amount: 5000000},
		{Type: models.Expense, CategoryName: "Makanan", Amount: 25000},
		{Type: models.Expense, CategoryName: "Makanan", Amount: 15000},
		{Type: models.Income, CategoryName: "Makanan", Amount: 1000},
		{Type: models.Expense, Amount: 700},
	}
	s := Compute(txs)

	assert.Equal(t, 5001000.0, s.TotalIncome)
	assert.Equal(t, 40700.0, s.TotalExpense)
	assert.Equal(t, s.TotalIncome-s.TotalExpense, s.Balance)
	assert.Equal(t, 5, s.TransactionCount)
	assert.Equal(t, map[string]Breakdown{
		"Gaji":          {Income: 5000000},
		"Makanan":       {Income: 1000, Expense: 40000},
		UnknownCategory: {Expense: 700},
	}, s.CategoryBreakdown)
}

func TestComputeBalanceCanBeNegative(t *testing.T) {
	s := Compute([]models.Transaction{
		{Type: models.Income, CategoryName: "Bonus", Amount: 10},
		{Type: models.Expense, CategoryName: "Tagihan", Amount: 30.5},
	})
	assert.Equal(t, -20.5, s.Balance)
}

type fakeSource struct {
	txs map[string][]models.Transaction
	err error
}

func (f fakeSource) All(_ context.Context, userID string) ([]models.Transaction, error) {
	return f.txs[userID], f.err
}

func TestSummarize(t *testing.T) {
	src := fakeSource{txs: map[string][]models.Transaction{
		"alice": {{Type: models.Expense, CategoryName: "Paket", Amount: 12}},
	}}
	svc := NewService(src)

	s, err := svc.Summarize(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, s.TransactionCount)
	assert.Equal(t, -12.0, s.Balance)

	s, err = svc.Summarize(context.Background(), "bob")
	require.NoError(t, err)
	assert.Zero(t, s.TransactionCount)

	_, err = NewService(fakeSource{err: errors.New("db down")}).Summarize(context.Background(), "alice")
	assert.Error(t, err)
}
