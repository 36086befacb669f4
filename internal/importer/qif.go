package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/beanport-dev/beanport/internal/model"
	"github.com/beanport-dev/beanport/internal/qif"
	"github.com/beanport-dev/beanport/internal/source"
)

// QIFConfig wires a QIF importer. AccountName selects among multiple
// accounts present in one file; empty means the file must contain exactly
// one. DayFirst is passed through to the QIF date parser unchanged.
type QIFConfig struct {
	Account     string     `yaml:"account"`
	AccountName string     `yaml:"account_name,omitempty"`
	DayFirst    bool       `yaml:"day_first,omitempty"`
	Currency    string     `yaml:"currency,omitempty"`
	Flag        model.Flag `yaml:"flag,omitempty"`
}

// QIF imports Quicken Interchange Format exports. Structural ambiguity —
// several accounts with no selector, several transaction lists, an account
// type with no known sign convention — yields an empty result plus a logged
// diagnostic, never an error and never partial data.
type QIF struct {
	cfg    QIFConfig
	logger *log.Logger
}

// NewQIF creates the QIF importer.
func NewQIF(cfg QIFConfig, logger *log.Logger) (*QIF, error) {
	if cfg.Currency == "" {
		cfg.Currency = "GBP"
	}
	if cfg.Flag == "" {
		cfg.Flag = model.FlagWarning
	}
	if err := model.ValidateAccount(cfg.Account); err != nil {
		return nil, err
	}
	return &QIF{cfg: cfg, logger: logger}, nil
}

func (q *QIF) Name() string { return "qif" }

// Identify claims .qif files that parse structurally. A parse failure is a
// negative identification, not an error.
func (q *QIF) Identify(f *source.File) bool {
	if f.ContentType() != "application/x-qw" {
		return false
	}
	text, err := f.Text(nil)
	if err != nil {
		return false
	}
	_, err = qif.Parse(text, q.cfg.DayFirst)
	return err == nil
}

// FileAccount returns the destination account for document filing.
func (q *QIF) FileAccount() string { return q.cfg.Account }

// FileDate returns the ingestion time.
func (q *QIF) FileDate(*source.File) (time.Time, error) {
	return now(), nil
}

// Extract emits one single-leg transaction per QIF record against the
// destination account, with the sign convention of the declared account type.
func (q *QIF) Extract(f *source.File) ([]model.Directive, error) {
	text, err := f.Text(nil)
	if err != nil {
		return nil, err
	}
	qf, err := qif.Parse(text, q.cfg.DayFirst)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.Name(), err)
	}

	account, ok := q.selectAccount(qf, f.Name())
	if !ok {
		return nil, nil
	}
	if len(account.Lists) != 1 {
		q.logger.Warn("ambiguous QIF structure: expected one transaction list",
			"file", f.Name(), "account", account.Name, "lists", len(account.Lists))
		return nil, nil
	}
	invert, ok := invertSign(account.Type)
	if !ok {
		q.logger.Warn("unhandled QIF account type",
			"file", f.Name(), "account", account.Name, "type", string(account.Type))
		return nil, nil
	}

	var directives []model.Directive
	for _, rec := range account.Lists[0] {
		amount := rec.Amount
		if invert {
			amount = amount.Neg()
		}
		directives = append(directives, &model.Transaction{
			Date:      rec.Date,
			Flag:      q.cfg.Flag,
			Payee:     strings.TrimRight(rec.Payee, " \t"),
			Narration: qifNarration(rec),
			Postings: []model.Posting{{
				Account: q.cfg.Account,
				Units:   model.NewAmount(amount, q.cfg.Currency),
			}},
		})
	}
	return directives, nil
}

// selectAccount picks the account the configuration asks for, or the file's
// only account when no selector is set.
func (q *QIF) selectAccount(qf *qif.File, filename string) (*qif.Account, bool) {
	if q.cfg.AccountName != "" {
		account := qf.Account(q.cfg.AccountName)
		if account == nil {
			q.logger.Warn("QIF account selector matched nothing",
				"file", filename, "selector", q.cfg.AccountName)
			return nil, false
		}
		return account, true
	}
	if len(qf.Accounts) != 1 {
		q.logger.Warn("ambiguous QIF structure: multiple accounts and no selector",
			"file", filename, "accounts", len(qf.Accounts))
		return nil, false
	}
	return qf.Accounts[0], true
}

// invertSign maps a QIF account type to its sign convention. Lloyds exports
// record every transaction from the perspective of growing the account's own
// balance, so liability (card) amounts flip sign for the ledger while asset
// amounts post as-is. Types we have never seen in the wild stay unhandled.
func invertSign(t qif.AccountType) (invert, ok bool) {
	switch t {
	case qif.TypeBank, qif.TypeCash:
		return false, true
	case qif.TypeCCard:
		return true, true
	default:
		return false, false
	}
}

// qifNarration composes the narration from the record's optional sub-fields,
// each rendered only when present, in a fixed order.
func qifNarration(rec qif.Transaction) string {
	var parts []string
	if rec.Memo != "" {
		parts = append(parts, "Memo: "+rec.Memo)
	}
	if rec.Cleared != "" {
		parts = append(parts, "Cleared: "+rec.Cleared)
	}
	if rec.Category != "" {
		parts = append(parts, "Category: "+rec.Category)
	}
	if rec.CheckNumber != "" {
		parts = append(parts, "Check Number: "+rec.CheckNumber)
	}
	return strings.Join(parts, ", ")
}
