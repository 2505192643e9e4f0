// Package ledger stores per-user income and expense transactions. Every
// operation is scoped to the owning user; another user's transaction behaves
// exactly like a missing one.
package ledger

import (
	"context"
	"fmt"

	"moneytracker/models"
	"moneytracker/pkg/apperr"
	"moneytracker/pkg/category"
	"moneytracker/pkg/store"

	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = apperr.New(apperr.NotFound, "transaction not found")
	ErrNegativeAmount      = apperr.New(apperr.Unprocessable, "amount must not be negative")
	ErrDateRequired        = apperr.New(apperr.Unprocessable, "date required")
)

// NewTransaction is the input of Create.
type NewTransaction struct {
	Type        models.EntryType
	CategoryID  string
	Amount      float64
	Description *string
	Date        string
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Type        *models.EntryType
	CategoryID  *string
	Amount      *float64
	Description *string
	Date        *string
}

func (p Patch) IsEmpty() bool {
	return p.Type == nil && p.CategoryID == nil && p.Amount == nil && p.Description == nil && p.Date == nil
}

type Ledger struct {
	db         *gorm.DB
	categories *category.Resolver
}

func New(s *store.Store, categories *category.Resolver) *Ledger {
	return &Ledger{db: s.DB, categories: categories}
}

// List returns userID's transactions, newest date first. Category names are
// read from the live category when it still exists.
func (l *Ledger) List(ctx context.Context, userID string) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	err := l.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("date desc").Order("created_at desc").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	ids := make([]string, 0, len(txs))
	seen := make(map[string]bool)
	for _, t := range txs {
		if !seen[t.CategoryID] {
			seen[t.CategoryID] = true
			ids = append(ids, t.CategoryID)
		}
	}
	names, err := l.categories.Names(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range txs {
		if name, ok := names[txs[i].CategoryID]; ok {
			txs[i].CategoryName = name
		}
	}
	return txs, nil
}

// All returns userID's stored transactions without enrichment.
func (l *Ledger) All(ctx context.Context, userID string) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	if err := l.db.WithContext(ctx).Where("user_id = ?", userID).Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return txs, nil
}

func (l *Ledger) Create(ctx context.Context, userID string, in NewTransaction) (models.Transaction, error) {
	if !in.Type.Valid() {
		return models.Transaction{}, models.ErrInvalidEntryType
	}
	if in.Amount < 0 {
		return models.Transaction{}, ErrNegativeAmount
	}
	if in.Date == "" {
		return models.Transaction{}, ErrDateRequired
	}
	cat, err := l.categories.Lookup(ctx, userID, in.CategoryID)
	if err != nil {
		return models.Transaction{}, err
	}

	t := models.Transaction{
		UserID:       userID,
		Type:         in.Type,
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		Amount:       in.Amount,
		Description:  in.Description,
		Date:         in.Date,
	}
	if err := l.db.WithContext(ctx).Create(&t).Error; err != nil {
		return models.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return t, nil
}

// Get loads one of userID's transactions.
func (l *Ledger) Get(ctx context.Context, userID, id string) (models.Transaction, error) {
	var t models.Transaction
	err := l.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&t).Error
	if err != nil {
		if store.IsNotFound(err) {
			return models.Transaction{}, ErrTransactionNotFound
		}
		return models.Transaction{}, fmt.Errorf("load transaction: %w", err)
	}
	return t, nil
}

// Update applies p to the transaction and returns the stored result. A new
// category is checked for visibility and refreshes the category name.
func (l *Ledger) Update(ctx context.Context, userID, id string, p Patch) (models.Transaction, error) {
	current, err := l.Get(ctx, userID, id)
	if err != nil {
		return models.Transaction{}, err
	}
	if p.IsEmpty() {
		return current, nil
	}

	changes := map[string]any{}
	if p.Type != nil {
		if !p.Type.Valid() {
			return models.Transaction{}, models.ErrInvalidEntryType
		}
		changes["type"] = *p.Type
	}
	if p.Amount != nil {
		if *p.Amount < 0 {
			return models.Transaction{}, ErrNegativeAmount
		}
		changes["amount"] = *p.Amount
	}
	if p.Description != nil {
		changes["description"] = *p.Description
	}
	if p.Date != nil {
		if *p.Date == "" {
			return models.Transaction{}, ErrDateRequired
		}
		changes["date"] = *p.Date
	}
	if p.CategoryID != nil {
		cat, err := l.categories.Lookup(ctx, userID, *p.CategoryID)
		if err != nil {
			return models.Transaction{}, err
		}
		changes["category_id"] = cat.ID
		changes["category_name"] = cat.Name
	}

	err = l.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(changes).Error
	if err != nil {
		return models.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	return l.Get(ctx, userID, id)
}

func (l *Ledger) Delete(ctx context.Context, userID, id string) error {
	res := l.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Transaction{})
	if res.Error != nil {
		return fmt.Errorf("delete transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}
