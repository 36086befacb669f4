package model

import (
	"fmt"
	"strings"
)

// Account roots recognized by the downstream ledger.
var accountRoots = map[string]bool{
	"Assets":      true,
	"Liabilities": true,
	"Equity":      true,
	"Income":      true,
	"Expenses":    true,
}

// ValidateAccount checks that an account identifier is a well-formed ledger
// account name: colon-separated segments, each starting with an uppercase
// letter or digit, rooted at one of the five account types.
func ValidateAccount(name string) error {
	if name == "" {
		return fmt.Errorf("account name is empty")
	}
	segments := strings.Split(name, ":")
	if !accountRoots[segments[0]] {
		return fmt.Errorf("account %q: root must be one of Assets, Liabilities, Equity, Income, Expenses", name)
	}
	if len(segments) < 2 {
		return fmt.Errorf("account %q: must have at least one component after the root", name)
	}
	for _, seg := range segments[1:] {
		if seg == "" {
			return fmt.Errorf("account %q: empty component", name)
		}
		c := seg[0]
		if !(c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return fmt.Errorf("account %q: component %q must start with an uppercase letter or digit", name, seg)
		}
	}
	return nil
}
