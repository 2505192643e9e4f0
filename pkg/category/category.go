// Package category resolves which categories a user may see and reference.
// Defaults are shared by everyone; custom categories belong to one user.
package category

import (
	"context"
	"fmt"
	"strings"

	"moneytracker/models"
	"moneytracker/pkg/apperr"
	"moneytracker/pkg/store"

	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound  = apperr.New(apperr.NotFound, "category not found")
	ErrDuplicateCategory = apperr.New(apperr.Conflict, "category already exists")
	ErrNameRequired      = apperr.New(apperr.Unprocessable, "category name required")
)

// Default is one entry of the seed list created at startup.
type Default struct {
	Name string
	Type models.EntryType
}

// Defaults is the category set every user starts with.
var Defaults = []Default{
	{"Gaji", models.Income},
	{"Bonus", models.Income},
	{"Freelance", models.Income},
	{"Lainnya (Income)", models.Income},
	{"Makanan", models.Expense},
	{"Belanja Online", models.Expense},
	{"Paket", models.Expense},
	{"Tagihan", models.Expense},
	{"Transportasi", models.Expense},
	{"Lainnya (Expense)", models.Expense},
}

type Resolver struct {
	db *gorm.DB
}

func NewResolver(s *store.Store) *Resolver {
	return &Resolver{db: s.DB}
}

// scope restricts q to defaults plus userID's own categories.
func scope(q *gorm.DB, userID string) *gorm.DB {
	return q.Where("(is_custom = ? OR user_id = ?)", false, userID)
}

// VisibleTo lists the categories userID may read, grouped by type then name.
func (r *Resolver) VisibleTo(ctx context.Context, userID string) ([]models.Category, error) {
	cats := []models.Category{}
	err := scope(r.db.WithContext(ctx), userID).
		Order("type asc").Order("name asc").
		Find(&cats).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Lookup returns the category only when it is visible to userID. Categories
// owned by someone else are reported as not found.
func (r *Resolver) Lookup(ctx context.Context, userID, id string) (models.Category, error) {
	var c models.Category
	err := scope(r.db.WithContext(ctx).Where("id = ?", id), userID).First(&c).Error
	if err != nil {
		if store.IsNotFound(err) {
			return models.Category{}, ErrCategoryNotFound
		}
		return models.Category{}, fmt.Errorf("load category: %w", err)
	}
	return c, nil
}

func (r *Resolver) IsVisibleTo(ctx context.Context, userID, id string) (bool, error) {
	_, err := r.Lookup(ctx, userID, id)
	switch {
	case err == nil:
		return true, nil
	case apperr.KindOf(err) == apperr.NotFound:
		return false, nil
	default:
		return false, err
	}
}

// Create adds a custom category owned by userID. A visible category with the
// same name and type is a conflict; concurrent inserts of the same pair by
// one user are settled by idx_category_scope.
func (r *Resolver) Create(ctx context.Context, userID, name string, typ models.EntryType) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, ErrNameRequired
	}
	if !typ.Valid() {
		return models.Category{}, models.ErrInvalidEntryType
	}

	db := r.db.WithContext(ctx)
	var count int64
	err := scope(db.Model(&models.Category{}).Where("name = ? AND type = ?", name, typ), userID).
		Count(&count).Error
	if err != nil {
		return models.Category{}, fmt.Errorf("check category: %w", err)
	}
	if count > 0 {
		return models.Category{}, ErrDuplicateCategory
	}

	owner := userID
	c := models.Category{Name: name, Type: typ, IsCustom: true, UserID: &owner}
	if err := db.Create(&c).Error; err != nil {
		if store.IsUniqueViolation(err) {
			return models.Category{}, ErrDuplicateCategory
		}
		return models.Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// SeedDefaults inserts any missing default category and reports how many
// were created. It is safe to run on every startup.
func (r *Resolver) SeedDefaults(ctx context.Context, defaults []Default) (int, error) {
	created := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range defaults {
			var count int64
			if err := tx.Model(&models.Category{}).
				Where("name = ? AND type = ? AND is_custom = ?", d.Name, d.Type, false).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			c := models.Category{Name: d.Name, Type: d.Type}
			if err := tx.Create(&c).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed categories: %w", err)
	}
	return created, nil
}

// Names maps each of ids that still exists to its current name.
func (r *Resolver) Names(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var rows []models.Category
	if err := r.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load category names: %w", err)
	}
	for _, c := range rows {
		names[c.ID] = c.Name
	}
	return names, nil
}
