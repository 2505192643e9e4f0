package models

import "moneytracker/pkg/apperr"

// EntryType tells income from expense. Categories and transactions share it.
type EntryType string

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

var ErrInvalidEntryType = apperr.New(apperr.Unprocessable, "type must be one of: income, expense")

func (t EntryType) Valid() bool {
	return t == Income || t == Expense
}

func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(s)
	if !t.Valid() {
		return "", ErrInvalidEntryType
	}
	return t, nil
}
