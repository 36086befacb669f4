package importer

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/beanport-dev/beanport/internal/dates"
	"github.com/beanport-dev/beanport/internal/model"
	"github.com/beanport-dev/beanport/internal/source"
)

// AmexHeader is the exact header line of an Amex card CSV export.
const AmexHeader = "Date,Description,Amount,Extended Details,Appears On Your Statement As,Address,Town/City,Postcode,Country,Reference,Category"

const (
	amexNumFields = 11
	amexColDate   = 0
	amexColDesc   = 1
	amexColAmount = 2
	amexColRef    = 9
)

// AmexConfig wires an Amex credit-card CSV importer.
type AmexConfig struct {
	Account  string     `yaml:"account"`
	Currency string     `yaml:"currency,omitempty"`
	Flag     model.Flag `yaml:"flag,omitempty"`
}

// Amex imports Amex credit-card CSV exports. Amounts in the export are card
// charges (positive = spend), so postings against the liability account are
// negated. Rows arrive newest-first; output is chronological.
type Amex struct {
	cfg AmexConfig
}

// NewAmex creates the Amex importer.
func NewAmex(cfg AmexConfig) (*Amex, error) {
	if cfg.Currency == "" {
		cfg.Currency = "GBP"
	}
	if cfg.Flag == "" {
		cfg.Flag = model.FlagWarning
	}
	if err := model.ValidateAccount(cfg.Account); err != nil {
		return nil, err
	}
	return &Amex{cfg: cfg}, nil
}

func (a *Amex) Name() string { return "amex" }

// Identify claims CSV files carrying the exact Amex header.
func (a *Amex) Identify(f *source.File) bool {
	if f.ContentType() != "text/csv" {
		return false
	}
	lines, err := f.Lines(nil)
	if err != nil || len(lines) == 0 {
		return false
	}
	return lines[0] == AmexHeader
}

// FileAccount returns the card account for document filing.
func (a *Amex) FileAccount() string { return a.cfg.Account }

// FileDate returns the ingestion time; the export carries no statement date.
func (a *Amex) FileDate(*source.File) (time.Time, error) {
	return now(), nil
}

// Extract emits one single-leg transaction per row, oldest first.
func (a *Amex) Extract(f *source.File) ([]model.Directive, error) {
	text, err := f.Text(nil)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = amexNumFields
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading amex CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var directives []model.Directive
	for i, rec := range records[1:] {
		date, err := dates.ParseSlashDate(rec[amexColDate])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		amount, err := model.ParseAmount(rec[amexColAmount])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		txn := &model.Transaction{
			Date:      date,
			Flag:      a.cfg.Flag,
			Narration: rec[amexColDesc],
			Postings: []model.Posting{{
				Account: a.cfg.Account,
				Units:   model.NewAmount(amount.Neg(), a.cfg.Currency),
			}},
			Meta: map[string]string{"reference": rec[amexColRef]},
		}
		directives = append(directives, txn)
	}

	// Export is newest-first; emit chronologically.
	reverseDirectives(directives)
	return directives, nil
}
