package report

import (
	"bytes"
	"context"
	"testing"

	"moneytracker/models"
	"moneytracker/pkg/auth"
	"moneytracker/pkg/category"
	"moneytracker/pkg/ledger"
	"moneytracker/pkg/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	s := storetest.Open(t)
	user, err := auth.NewCredentials(s, auth.WithHashCost(bcrypt.MinCost)).Register(ctx, "ana", "secret-pw", models.RoleUser)
	require.NoError(t, err)

	cats := category.NewResolver(s)
	kopi, err := cats.Create(ctx, user.ID, "Kopi", models.Expense)
	require.NoError(t, err)
	l := ledger.New(s, cats)
	_, err = l.Create(ctx, user.ID, ledger.NewTransaction{Type: models.Expense, CategoryID: kopi.ID, Amount: 25000, Date: "2024-01-15"})
	require.NoError(t, err)

	out := new(bytes.Buffer)
	require.NoError(t, Run(ctx, s, out, "ana", true))
	assert.Contains(t, out.String(), "transactions=1 income=0.00 expense=25000.00 balance=-25000.00")
	assert.Contains(t, out.String(), "Kopi")
	assert.Contains(t, out.String(), "|2024-01-15|expense|Kopi|25000.00|")

	err = Run(ctx, s, out, "ghost", false)
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}
