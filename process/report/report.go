// Package report prints a user's transaction summary for operators.
package report

import (
	"context"
	"fmt"
	"io"
	"sort"

	"moneytracker/pkg/auth"
	"moneytracker/pkg/category"
	"moneytracker/pkg/ledger"
	"moneytracker/pkg/stats"
	"moneytracker/pkg/store"
)

// Run writes the stats of username to w and, when list is set, every
// transaction newest first.
func Run(ctx context.Context, s *store.Store, w io.Writer, username string, list bool) error {
	user, err := auth.NewCredentials(s).FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("user %s: %w", username, err)
	}
	l := ledger.New(s, category.NewResolver(s))
	st, err := stats.NewService(l).Summarize(ctx, user.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Report for user=%s role=%s:\n", user.Username, user.Role)
	fmt.Fprintf(w, "  transactions=%d income=%.2f expense=%.2f balance=%.2f\n",
		st.TransactionCount, st.TotalIncome, st.TotalExpense, st.Balance)

	names := make([]string, 0, len(st.CategoryBreakdown))
	for name := range st.CategoryBreakdown {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b := st.CategoryBreakdown[name]
		fmt.Fprintf(w, "  %-20s income=%.2f expense=%.2f\n", name, b.Income, b.Expense)
	}

	if !list {
		return nil
	}
	txs, err := l.List(ctx, user.ID)
	if err != nil {
		return err
	}
	for _, t := range txs {
		desc := ""
		if t.Description != nil {
			desc = *t.Description
		}
		fmt.Fprintf(w, "%s|%s|%s|%s|%.2f|%s\n", t.ID, t.Date, t.Type, t.CategoryName, t.Amount, desc)
	}
	return nil
}
