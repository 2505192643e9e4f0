// Package sanitize wipes application tables, optionally re-running the
// startup seed afterwards. It backs the cmd_sanitize operator tool.
package sanitize

import (
	"context"
	"fmt"
	"io"
	"strings"

	"moneytracker/models"
	"moneytracker/pkg/auth"
	"moneytracker/pkg/category"
	"moneytracker/pkg/store"

	"gorm.io/gorm"
)

// Tables lists the wipeable tables, children first.
var Tables = []string{"transactions", "categories", "users"}

var tableModels = map[string]any{
	"transactions": &models.Transaction{},
	"categories":   &models.Category{},
	"users":        &models.User{},
}

type Options struct {
	Tables  []string
	DryRun  bool
	Confirm bool
	Reseed  bool

	SuperadminUsername string
	SuperadminPassword string
}

// ParseTables splits a comma separated list and rejects unknown names. The
// result keeps the order of Tables so dependent rows go first.
func ParseTables(list string) ([]string, error) {
	wanted := map[string]bool{}
	for _, p := range strings.Split(list, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := tableModels[p]; !ok {
			return nil, fmt.Errorf("unknown table %q, expected one of %s", p, strings.Join(Tables, ", "))
		}
		wanted[p] = true
	}
	out := make([]string, 0, len(wanted))
	for _, t := range Tables {
		if wanted[t] {
			out = append(out, t)
		}
	}
	return out, nil
}

// Run deletes every row of opts.Tables. Nothing is changed unless DryRun is
// off and Confirm is set.
func Run(ctx context.Context, s *store.Store, opts Options, w io.Writer) error {
	if len(opts.Tables) == 0 {
		fmt.Fprintln(w, "no tables selected; nothing to do")
		return nil
	}
	fmt.Fprintln(w, "Tables considered for wiping:")
	for _, t := range opts.Tables {
		var n int64
		if err := s.DB.WithContext(ctx).Model(tableModels[t]).Count(&n).Error; err != nil {
			return fmt.Errorf("count %s: %w", t, err)
		}
		fmt.Fprintf(w, " - %s (%d rows)\n", t, n)
	}

	if opts.DryRun {
		fmt.Fprintln(w, "dry-run enabled; no changes will be made. Use -dry-run=false -yes to execute.")
		return nil
	}
	if !opts.Confirm {
		fmt.Fprintln(w, "Destructive operation. Pass -yes to confirm execution. Aborting.")
		return nil
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range opts.Tables {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(tableModels[t]).Error; err != nil {
				return fmt.Errorf("wipe %s: %w", t, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Wipe completed.")

	if !opts.Reseed {
		return nil
	}
	if _, err := auth.NewCredentials(s).EnsureSuperadmin(ctx, opts.SuperadminUsername, opts.SuperadminPassword); err != nil {
		return fmt.Errorf("reseed superadmin: %w", err)
	}
	n, err := category.NewResolver(s).SeedDefaults(ctx, category.Defaults)
	if err != nil {
		return fmt.Errorf("reseed categories: %w", err)
	}
	fmt.Fprintf(w, "Reseeded superadmin %s and %d default categories.\n", opts.SuperadminUsername, n)
	return nil
}
