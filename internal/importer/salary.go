package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/beanport-dev/beanport/internal/dates"
	"github.com/beanport-dev/beanport/internal/model"
	"github.com/beanport-dev/beanport/internal/source"
)

// Markers that identify an Access UK payslip in the decoded document text.
// Both must be present.
const (
	salaryIssuerMarker  = "ACCESS UK"
	salaryPayslipMarker = "PAY"
)

// payslipDateLabel prefixes the document's date line; the date token follows
// at a fixed position ("Payslip Date: 28-OCT-24").
const (
	payslipDateLabel = "Payslip Date:"
	payslipDateToken = 2
)

// Leg declares one accounting leg extracted from a labeled payslip line.
// The value sits at a fixed whitespace-token position on the line; where a
// label occurs more than once, Occurrence selects which line (0-based). These
// positions are a per-institution contract, not inferred.
type Leg struct {
	Label      string `yaml:"label"`
	Account    string `yaml:"account"`
	Token      int    `yaml:"token"`
	Occurrence int    `yaml:"occurrence,omitempty"`
	Invert     bool   `yaml:"invert,omitempty"`
}

// SalaryConfig wires an Access UK payslip importer. Every account field is
// required: the emitted transaction is a complete accounting breakdown of the
// payslip, not just the net amount.
type SalaryConfig struct {
	SalaryAccount       string `yaml:"salary_account"`
	CurrentAccount      string `yaml:"current_account"`
	PAYEAccount         string `yaml:"paye_account"`
	NIAccount           string `yaml:"ni_account"`
	PensionAssetAccount string `yaml:"pension_asset_account"`
	PensionMatchAccount string `yaml:"pension_match_account"`
	StudentLoanAccount  string `yaml:"student_loan_account"`

	// CenturyPrefix corrects the document's two-digit years ("24" -> "2024"
	// with prefix "20"). The source format is known to emit only two year
	// digits; the correction is explicit configuration, never inferred.
	CenturyPrefix string `yaml:"century_prefix"`

	// Legs overrides the stock Access UK leg layout. When set, the account
	// fields above are ignored; each leg carries its own account.
	Legs []Leg `yaml:"legs,omitempty"`

	Currency string     `yaml:"currency,omitempty"`
	Flag     model.Flag `yaml:"flag,omitempty"`
}

// Salary imports Access UK payslip documents: one multi-leg transaction per
// document, dated from the payslip's own date line.
type Salary struct {
	cfg     SalaryConfig
	legs    []Leg
	convert source.TextFunc
}

// accessLegs is the Access UK leg layout. The pension provider line carries
// two values: the total paid into the pension asset and the employer match,
// which offsets as a negative leg.
func accessLegs(cfg SalaryConfig) []Leg {
	return []Leg{
		{Label: "Net Pay", Account: cfg.CurrentAccount, Token: 2},
		{Label: "Student Loan Plan 2", Account: cfg.StudentLoanAccount, Token: 4},
		{Label: "PAYE", Account: cfg.PAYEAccount, Token: 1},
		// "Employee NI" appears twice: a year-to-date summary first, then the
		// period detail. The detail line is the one we want.
		{Label: "Employee NI", Account: cfg.NIAccount, Token: 2, Occurrence: 1},
		{Label: "Scottish Widows", Account: cfg.PensionAssetAccount, Token: 2},
		{Label: "Scottish Widows", Account: cfg.PensionMatchAccount, Token: 3, Invert: true},
		{Label: "Basic Salary", Account: cfg.SalaryAccount, Token: 2, Invert: true},
	}
}

// NewSalary creates the payslip importer. convert decodes the PDF into text;
// nil uses the raw file contents.
func NewSalary(cfg SalaryConfig, convert source.TextFunc) (*Salary, error) {
	if cfg.Currency == "" {
		cfg.Currency = "GBP"
	}
	if cfg.Flag == "" {
		cfg.Flag = model.FlagWarning
	}
	if len(cfg.CenturyPrefix) != 2 {
		return nil, fmt.Errorf("century prefix %q: must be two digits", cfg.CenturyPrefix)
	}
	legs := cfg.Legs
	if len(legs) == 0 {
		legs = accessLegs(cfg)
	}
	for _, leg := range legs {
		if err := model.ValidateAccount(leg.Account); err != nil {
			return nil, fmt.Errorf("leg %q: %w", leg.Label, err)
		}
	}
	return &Salary{cfg: cfg, legs: legs, convert: convert}, nil
}

func (s *Salary) Name() string { return "salary" }

// Identify claims PDF files whose decoded text contains both payslip markers.
func (s *Salary) Identify(f *source.File) bool {
	if f.ContentType() != "application/pdf" {
		return false
	}
	text, err := f.Text(s.convert)
	if err != nil {
		return false
	}
	return strings.Contains(text, salaryIssuerMarker) && strings.Contains(text, salaryPayslipMarker)
}

// FileAccount returns the salary income account for document filing.
func (s *Salary) FileAccount() string { return s.cfg.SalaryAccount }

// FileDate returns the payslip's own date.
func (s *Salary) FileDate(f *source.File) (time.Time, error) {
	lines, err := f.Lines(s.convert)
	if err != nil {
		return time.Time{}, err
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, payslipDateLabel) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) <= payslipDateToken {
			return time.Time{}, fmt.Errorf("%w: date token on %q", ErrMissingField, payslipDateLabel)
		}
		return dates.ParseLabelDate(fields[payslipDateToken], s.cfg.CenturyPrefix)
	}
	return time.Time{}, fmt.Errorf("%w: %q line", ErrMissingField, payslipDateLabel)
}

// Extract emits exactly one transaction combining every configured leg.
func (s *Salary) Extract(f *source.File) ([]model.Directive, error) {
	lines, err := f.Lines(s.convert)
	if err != nil {
		return nil, err
	}

	date, err := s.FileDate(f)
	if err != nil {
		return nil, err
	}

	postings := make([]model.Posting, 0, len(s.legs))
	for _, leg := range s.legs {
		amount, err := extractLabeledValue(lines, leg)
		if err != nil {
			return nil, err
		}
		if leg.Invert {
			amount = amount.Neg()
		}
		postings = append(postings, model.Posting{
			Account: leg.Account,
			Units:   model.NewAmount(amount, s.cfg.Currency),
		})
	}

	txn := &model.Transaction{
		Date:     date,
		Flag:     s.cfg.Flag,
		Payee:    "SELF",
		Postings: postings,
		Meta:     map[string]string{"source": f.Name()},
	}
	return []model.Directive{txn}, nil
}

// extractLabeledValue finds the leg's label occurrence and parses the value
// at its fixed token position. Any miss is a hard failure.
func extractLabeledValue(lines []string, leg Leg) (decimal.Decimal, error) {
	seen := 0
	for _, line := range lines {
		if !strings.HasPrefix(line, leg.Label) {
			continue
		}
		if seen != leg.Occurrence {
			seen++
			continue
		}
		fields := strings.Fields(line)
		if len(fields) <= leg.Token {
			return decimal.Decimal{}, fmt.Errorf("%w: token %d on %q line", ErrMissingField, leg.Token, leg.Label)
		}
		return model.ParseAmount(fields[leg.Token])
	}
	return decimal.Decimal{}, fmt.Errorf("%w: %q line (occurrence %d)", ErrMissingField, leg.Label, leg.Occurrence)
}
