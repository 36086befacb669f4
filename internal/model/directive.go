package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Flag marks the review state of a transaction or posting.
type Flag string

const (
	// FlagWarning marks an entry that needs manual review before it is accepted.
	FlagWarning Flag = "!"
	// FlagOkay marks an entry that is accepted as-is.
	FlagOkay Flag = "*"
)

// Amount pairs an exact decimal number with its currency. The two always
// travel together; a negative number decreases the posted account.
type Amount struct {
	Number   decimal.Decimal
	Currency string
}

// NewAmount builds an Amount from a decimal and currency code.
func NewAmount(n decimal.Decimal, currency string) Amount {
	return Amount{Number: n, Currency: currency}
}

// Neg returns the amount with its sign flipped.
func (a Amount) Neg() Amount {
	return Amount{Number: a.Number.Neg(), Currency: a.Currency}
}

// Equal reports whether two amounts have the same value and currency.
func (a Amount) Equal(b Amount) bool {
	return a.Currency == b.Currency && a.Number.Equal(b.Number)
}

// Posting is one leg of a transaction: a signed amount against one account.
type Posting struct {
	Account string
	Units   Amount
	Flag    Flag // set on heuristically classified legs, empty otherwise
}

// Transaction is the canonical, format-independent representation of one
// financial event. Postings has length >= 1; Tags and Links are empty for
// everything this pipeline produces but are part of the ledger contract.
type Transaction struct {
	Date      time.Time
	Flag      Flag
	Payee     string
	Narration string
	Postings  []Posting
	Tags      []string
	Links     []string
	Meta      map[string]string
}

// Balance asserts an account's stated total as of a date. It is synthesized
// from the most recent row of a running-balance CSV export.
type Balance struct {
	Date    time.Time
	Account string
	Amount  Amount
}

// Directive is anything dated that can be handed to the ledger writer.
type Directive interface {
	DirectiveDate() time.Time
}

func (t *Transaction) DirectiveDate() time.Time { return t.Date }
func (b *Balance) DirectiveDate() time.Time     { return b.Date }
