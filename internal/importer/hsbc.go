package importer

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/beanport-dev/beanport/internal/dates"
	"github.com/beanport-dev/beanport/internal/heuristics"
	"github.com/beanport-dev/beanport/internal/model"
	"github.com/beanport-dev/beanport/internal/source"
)

const (
	hsbcNumFields = 3
	hsbcColDate   = 0
	hsbcColDesc   = 1
	hsbcColAmount = 2
)

// HSBCConfig wires an HSBC credit-card CSV importer. Rules drive the
// heuristic second leg; nil uses the default rule set.
type HSBCConfig struct {
	Account  string            `yaml:"account"`
	Currency string            `yaml:"currency,omitempty"`
	Flag     model.Flag        `yaml:"flag,omitempty"`
	Rules    []heuristics.Rule `yaml:"rules,omitempty"`
}

// HSBC imports HSBC credit-card CSV exports. The export has no header line,
// so detection can only check the declared content type; register this
// importer after every format with a stronger probe.
type HSBC struct {
	cfg        HSBCConfig
	classifier *heuristics.Classifier
}

// NewHSBC creates the HSBC importer.
func NewHSBC(cfg HSBCConfig) (*HSBC, error) {
	if cfg.Currency == "" {
		cfg.Currency = "GBP"
	}
	if cfg.Flag == "" {
		cfg.Flag = model.FlagWarning
	}
	if cfg.Rules == nil {
		cfg.Rules = heuristics.DefaultRules()
	}
	if err := model.ValidateAccount(cfg.Account); err != nil {
		return nil, err
	}
	for _, rule := range cfg.Rules {
		if err := model.ValidateAccount(rule.Account); err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
	}
	// The primary leg posts the row amount as-is; inversion of the
	// classified counter-leg is carried on the rules themselves.
	classifier := heuristics.New(cfg.Rules, cfg.Currency, false)
	return &HSBC{cfg: cfg, classifier: classifier}, nil
}

func (h *HSBC) Name() string { return "hsbc" }

// Identify claims any CSV: the export has no reliable header to probe.
func (h *HSBC) Identify(f *source.File) bool {
	return f.ContentType() == "text/csv"
}

// FileAccount returns the card account for document filing.
func (h *HSBC) FileAccount() string { return h.cfg.Account }

// FileDate returns the ingestion time; the export carries no statement date.
func (h *HSBC) FileDate(*source.File) (time.Time, error) {
	return now(), nil
}

// Extract emits one transaction per row in file order; rows matching a
// classification rule gain a second leg against the rule's account.
func (h *HSBC) Extract(f *source.File) ([]model.Directive, error) {
	text, err := f.Text(nil)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = hsbcNumFields
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading hsbc CSV: %w", err)
	}

	var directives []model.Directive
	for i, rec := range records {
		date, err := dates.ParseSlashDate(rec[hsbcColDate])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		amount, err := model.ParseAmount(rec[hsbcColAmount])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		desc := rec[hsbcColDesc]
		postings := []model.Posting{{
			Account: h.cfg.Account,
			Units:   model.NewAmount(amount, h.cfg.Currency),
		}}
		if counter, ok := h.classifier.Classify(desc, amount); ok {
			postings = append(postings, counter)
		}

		directives = append(directives, &model.Transaction{
			Date:      date,
			Flag:      h.cfg.Flag,
			Payee:     desc,
			Narration: desc,
			Postings:  postings,
		})
	}
	return directives, nil
}
