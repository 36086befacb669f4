// Package render writes canonical directives as Beancount text for the
// downstream ledger.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/beanport-dev/beanport/internal/model"
)

const dateFormat = "2006-01-02"

// Directives writes a sequence of directives, blank-line separated,
// preserving the order produced by the importer.
func Directives(w io.Writer, directives []model.Directive) error {
	for i, d := range directives {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		var err error
		switch v := d.(type) {
		case *model.Transaction:
			err = transaction(w, v)
		case *model.Balance:
			err = balance(w, v)
		default:
			err = fmt.Errorf("unknown directive type %T", d)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func transaction(w io.Writer, t *model.Transaction) error {
	var b strings.Builder
	b.WriteString(t.Date.Format(dateFormat))
	b.WriteString(" ")
	b.WriteString(string(t.Flag))
	if t.Payee != "" {
		fmt.Fprintf(&b, " %q", t.Payee)
	}
	// Narration is always rendered when a payee is present, so the quoted
	// fields stay positionally unambiguous.
	if t.Narration != "" || t.Payee != "" {
		fmt.Fprintf(&b, " %q", t.Narration)
	}
	b.WriteString("\n")

	// Meta keys render sorted for stable output.
	keys := make([]string, 0, len(t.Meta))
	for k := range t.Meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %q\n", k, t.Meta[k])
	}

	for _, p := range t.Postings {
		b.WriteString("  ")
		if p.Flag != "" {
			b.WriteString(string(p.Flag))
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s  %s %s\n", p.Account, p.Units.Number.String(), p.Units.Currency)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func balance(w io.Writer, bal *model.Balance) error {
	_, err := fmt.Fprintf(w, "%s balance %s  %s %s\n",
		bal.Date.Format(dateFormat), bal.Account,
		bal.Amount.Number.String(), bal.Amount.Currency)
	return err
}
