// Package config loads the beanport.yaml configuration that wires importer
// instances to ledger accounts.
package config

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/beanport-dev/beanport/internal/heuristics"
	"github.com/beanport-dev/beanport/internal/importer"
	"github.com/beanport-dev/beanport/internal/model"
)

// Config is the top-level beanport.yaml configuration. Each importer section
// is optional; only configured importers are registered. Rules apply to the
// HSBC importer's heuristic classification and are evaluated in the order
// they are written.
type Config struct {
	Currency    string                      `yaml:"currency,omitempty"`
	Rules       []heuristics.Rule           `yaml:"rules,omitempty"`
	Salary      *importer.SalaryConfig      `yaml:"salary,omitempty"`
	Amex        *importer.AmexConfig        `yaml:"amex,omitempty"`
	FirstDirect *importer.FirstDirectConfig `yaml:"firstdirect,omitempty"`
	HSBC        *importer.HSBCConfig        `yaml:"hsbc,omitempty"`
	QIF         *importer.QIFConfig         `yaml:"qif,omitempty"`
}

// Load reads a beanport.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the stock configuration: every importer wired to a
// conventional UK account layout, transactions flagged for review.
func Default() *Config {
	return &Config{
		Currency: "GBP",
		Rules:    heuristics.DefaultRules(),
		Salary: &importer.SalaryConfig{
			SalaryAccount:       "Income:Salary:Access",
			CurrentAccount:      "Assets:Bank:Current",
			PAYEAccount:         "Expenses:Tax:PAYE",
			NIAccount:           "Expenses:Tax:NI",
			PensionAssetAccount: "Assets:Pension:ScottishWidows",
			PensionMatchAccount: "Income:Pension:Match",
			StudentLoanAccount:  "Liabilities:StudentLoan",
			CenturyPrefix:       "20",
		},
		Amex:        &importer.AmexConfig{Account: "Liabilities:CreditCard:Amex"},
		FirstDirect: &importer.FirstDirectConfig{Account: "Assets:Bank:Current"},
		HSBC:        &importer.HSBCConfig{Account: "Liabilities:CreditCard:HSBC"},
		QIF: &importer.QIFConfig{
			Account:  "Liabilities:CreditCard:Lloyds",
			DayFirst: true,
		},
	}
}

// Build constructs the importer registry from the configuration. Importers
// with strong content probes register before content-type-only detection, so
// a registry built here routes files correctly regardless of section order
// in the YAML.
func (c *Config) Build(logger *log.Logger) (*importer.Registry, error) {
	reg := importer.NewRegistry()

	if c.Salary != nil {
		cfg := *c.Salary
		applyCurrency(&cfg.Currency, c.Currency)
		imp, err := importer.NewSalary(cfg, nil)
		if err != nil {
			return nil, fmt.Errorf("salary: %w", err)
		}
		reg.Register(imp)
	}
	if c.Amex != nil {
		cfg := *c.Amex
		applyCurrency(&cfg.Currency, c.Currency)
		imp, err := importer.NewAmex(cfg)
		if err != nil {
			return nil, fmt.Errorf("amex: %w", err)
		}
		reg.Register(imp)
	}
	if c.FirstDirect != nil {
		cfg := *c.FirstDirect
		applyCurrency(&cfg.Currency, c.Currency)
		imp, err := importer.NewFirstDirect(cfg)
		if err != nil {
			return nil, fmt.Errorf("firstdirect: %w", err)
		}
		reg.Register(imp)
	}
	if c.QIF != nil {
		cfg := *c.QIF
		applyCurrency(&cfg.Currency, c.Currency)
		imp, err := importer.NewQIF(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("qif: %w", err)
		}
		reg.Register(imp)
	}
	// HSBC detects by content type alone: always last.
	if c.HSBC != nil {
		cfg := *c.HSBC
		applyCurrency(&cfg.Currency, c.Currency)
		if cfg.Rules == nil {
			cfg.Rules = c.Rules
		}
		imp, err := importer.NewHSBC(cfg)
		if err != nil {
			return nil, fmt.Errorf("hsbc: %w", err)
		}
		reg.Register(imp)
	}

	return reg, nil
}

// Validate checks every configured account identifier without building.
func (c *Config) Validate() error {
	var accounts []string
	if c.Salary != nil {
		if len(c.Salary.Legs) > 0 {
			for _, leg := range c.Salary.Legs {
				accounts = append(accounts, leg.Account)
			}
		} else {
			accounts = append(accounts,
				c.Salary.SalaryAccount, c.Salary.CurrentAccount, c.Salary.PAYEAccount,
				c.Salary.NIAccount, c.Salary.PensionAssetAccount,
				c.Salary.PensionMatchAccount, c.Salary.StudentLoanAccount)
		}
	}
	if c.Amex != nil {
		accounts = append(accounts, c.Amex.Account)
	}
	if c.FirstDirect != nil {
		accounts = append(accounts, c.FirstDirect.Account)
	}
	if c.HSBC != nil {
		accounts = append(accounts, c.HSBC.Account)
	}
	if c.QIF != nil {
		accounts = append(accounts, c.QIF.Account)
	}
	for _, rule := range c.Rules {
		accounts = append(accounts, rule.Account)
	}
	for _, a := range accounts {
		if err := model.ValidateAccount(a); err != nil {
			return err
		}
	}
	return nil
}

func applyCurrency(dst *string, fallback string) {
	if *dst == "" {
		*dst = fallback
	}
}
