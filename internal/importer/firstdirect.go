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

// FirstDirectHeader is the exact header line of a First Direct 1st Account
// CSV export. Detection matches it byte-for-byte.
const FirstDirectHeader = "Date,Description,Amount,Balance"

const (
	fdNumFields  = 4
	fdColDate    = 0
	fdColDesc    = 1
	fdColAmount  = 2
	fdColBalance = 3
)

// FirstDirectConfig wires a First Direct current-account CSV importer.
// LenientHeader degrades detection to content-type only, for exports whose
// header drifts from the known literal; the default is strict.
type FirstDirectConfig struct {
	Account       string     `yaml:"account"`
	Currency      string     `yaml:"currency,omitempty"`
	Flag          model.Flag `yaml:"flag,omitempty"`
	LenientHeader bool       `yaml:"lenient_header,omitempty"`
}

// FirstDirect imports First Direct 1st Account CSV exports. Rows carry a
// running balance and arrive newest-first: output is chronological with one
// trailing balance assertion taken from the first (most recent) row.
type FirstDirect struct {
	cfg FirstDirectConfig
}

// NewFirstDirect creates the First Direct importer.
func NewFirstDirect(cfg FirstDirectConfig) (*FirstDirect, error) {
	if cfg.Currency == "" {
		cfg.Currency = "GBP"
	}
	if cfg.Flag == "" {
		cfg.Flag = model.FlagWarning
	}
	if err := model.ValidateAccount(cfg.Account); err != nil {
		return nil, err
	}
	return &FirstDirect{cfg: cfg}, nil
}

func (fd *FirstDirect) Name() string { return "firstdirect" }

// Identify claims CSV files whose first line equals the known header exactly,
// or any CSV when configured lenient.
func (fd *FirstDirect) Identify(f *source.File) bool {
	if f.ContentType() != "text/csv" {
		return false
	}
	if fd.cfg.LenientHeader {
		return true
	}
	lines, err := f.Lines(nil)
	if err != nil || len(lines) == 0 {
		return false
	}
	return lines[0] == FirstDirectHeader
}

// FileAccount returns the current account for document filing.
func (fd *FirstDirect) FileAccount() string { return fd.cfg.Account }

// FileDate returns the ingestion time; the export carries no statement date.
func (fd *FirstDirect) FileDate(*source.File) (time.Time, error) {
	return now(), nil
}

// Extract emits one single-leg transaction per row, oldest first, followed by
// a balance assertion dated and valued from the newest row.
func (fd *FirstDirect) Extract(f *source.File) ([]model.Directive, error) {
	text, err := f.Text(nil)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = fdNumFields
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading first direct CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var directives []model.Directive
	var balance *model.Balance
	for i, rec := range records[1:] {
		date, err := dates.ParseSlashDate(rec[fdColDate])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		amount, err := model.ParseAmount(rec[fdColAmount])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		txn := &model.Transaction{
			Date:      date,
			Flag:      fd.cfg.Flag,
			Narration: rec[fdColDesc],
			Postings: []model.Posting{{
				Account: fd.cfg.Account,
				Units:   model.NewAmount(amount, fd.cfg.Currency),
			}},
		}
		directives = append(directives, txn)

		// The first row is the most recent and states the closing balance.
		if i == 0 {
			stated, err := model.ParseAmount(rec[fdColBalance])
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+2, err)
			}
			balance = &model.Balance{
				Date:    date,
				Account: fd.cfg.Account,
				Amount:  model.NewAmount(stated, fd.cfg.Currency),
			}
		}
	}

	// Export is newest-first; emit chronologically, balance last.
	reverseDirectives(directives)
	if balance != nil {
		directives = append(directives, balance)
	}
	return directives, nil
}
