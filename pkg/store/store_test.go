package store_test

import (
	"context"
	"errors"
	"testing"

	"moneytracker/models"
	"moneytracker/pkg/store"
	"moneytracker/pkg/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOpenMigratesSchema(t *testing.T) {
	s := storetest.Open(t)
	require.NoError(t, s.Ping(context.Background()))

	for _, m := range []any{&models.User{}, &models.Category{}, &models.Transaction{}} {
		assert.True(t, s.DB.Migrator().HasTable(m), "%T", m)
	}
	assert.True(t, s.DB.Migrator().HasIndex(&models.Category{}, "idx_category_scope"))
}

func TestUniqueUsernameIsTranslated(t *testing.T) {
	s := storetest.Open(t)
	require.NoError(t, s.DB.Create(&models.User{Username: "ana", PasswordHash: []byte("x")}).Error)

	err := s.DB.Create(&models.User{Username: "ana", PasswordHash: []byte("y")}).Error
	require.Error(t, err)
	assert.True(t, store.IsUniqueViolation(err))
}

func TestCustomCategoryScopeIsUnique(t *testing.T) {
	s := storetest.Open(t)
	owner := "user-1"
	first := models.Category{Name: "Pets", Type: models.Expense, IsCustom: true, UserID: &owner}
	require.NoError(t, s.DB.Create(&first).Error)

	dup := models.Category{Name: "Pets", Type: models.Expense, IsCustom: true, UserID: &owner}
	assert.True(t, store.IsUniqueViolation(s.DB.Create(&dup).Error))

	other := "user-2"
	assert.NoError(t, s.DB.Create(&models.Category{Name: "Pets", Type: models.Expense, IsCustom: true, UserID: &other}).Error)
	assert.NoError(t, s.DB.Create(&models.Category{Name: "Pets", Type: models.Income, IsCustom: true, UserID: &owner}).Error)
}

func TestErrorClassifiers(t *testing.T) {
	assert.False(t, store.IsUniqueViolation(nil))
	assert.True(t, store.IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_username"`)))
	assert.True(t, store.IsNotFound(gorm.ErrRecordNotFound))
	assert.False(t, store.IsNotFound(errors.New("boom")))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := store.Open(store.Options{Driver: "mongo", DSN: "mongodb://"})
	assert.ErrorContains(t, err, `unsupported database driver "mongo"`)
}
