// Package qif parses Quicken Interchange Format files into accounts and
// transaction lists. It covers the subset of QIF that UK banks actually
// export: account headers, typed transaction sections, and the single-letter
// field codes inside each record.
package qif

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/beanport-dev/beanport/internal/model"
)

// AccountType is the declared QIF account type.
type AccountType string

const (
	TypeBank    AccountType = "Bank"
	TypeCash    AccountType = "Cash"
	TypeCCard   AccountType = "CCard"
	TypeInvst   AccountType = "Invst"
	TypeOtherA  AccountType = "Oth A"
	TypeOtherL  AccountType = "Oth L"
	TypeInvoice AccountType = "Invoice"
)

// DefaultAccountName is used when a file declares transactions without an
// !Account header, which is how single-account exports usually arrive.
const DefaultAccountName = "QIF Default Account"

// Transaction is one record from a typed transaction section.
type Transaction struct {
	Date        time.Time
	Amount      decimal.Decimal
	Payee       string
	Memo        string
	Cleared     string
	Category    string
	CheckNumber string
}

// Account groups the transaction lists declared for one account. Each !Type:
// section opens a new list; a well-formed single-statement export has exactly
// one list per account.
type Account struct {
	Name  string
	Type  AccountType
	Lists [][]Transaction
}

// File is a fully parsed QIF file.
type File struct {
	Accounts []*Account
}

// Account returns the named account, or nil when absent.
func (f *File) Account(name string) *Account {
	for _, a := range f.Accounts {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// sectionTypes maps !Type: headers to account types. Sections outside this
// table (categories, classes, memorized lists) carry no transactions and are
// skipped.
var sectionTypes = map[string]AccountType{
	"Bank":    TypeBank,
	"Cash":    TypeCash,
	"CCard":   TypeCCard,
	"Invst":   TypeInvst,
	"Oth A":   TypeOtherA,
	"Oth L":   TypeOtherL,
	"Invoice": TypeInvoice,
}

// Parse parses QIF text. dayFirst selects the day/month order of slash dates
// and is threaded through from importer configuration unchanged.
func Parse(text string, dayFirst bool) (*File, error) {
	file := &File{}

	var current *Account      // account receiving transaction sections
	var list []Transaction    // open transaction list, nil when outside one
	var txn Transaction       // record being accumulated
	var txnSeen bool          // any field code seen for txn
	var skipSection bool      // inside a non-transaction section

	endList := func() {
		if list != nil && current != nil {
			current.Lists = append(current.Lists, list)
		}
		list = nil
	}

	ensureAccount := func(name string) *Account {
		if a := file.Account(name); a != nil {
			return a
		}
		a := &Account{Name: name}
		file.Accounts = append(file.Accounts, a)
		return a
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " \t")
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "!") {
			endList()
			skipSection = false
			switch {
			case line == "!Account":
				var err error
				current, i, err = parseAccountHeader(lines, i+1, ensureAccount)
				if err != nil {
					return nil, err
				}
			case strings.HasPrefix(line, "!Type:"):
				name := strings.TrimPrefix(line, "!Type:")
				accType, ok := sectionTypes[name]
				if !ok {
					skipSection = true
					continue
				}
				if current == nil {
					current = ensureAccount(DefaultAccountName)
				}
				if current.Type == "" {
					current.Type = accType
				}
				list = []Transaction{}
				txn, txnSeen = Transaction{}, false
			default:
				skipSection = true
			}
			continue
		}

		if skipSection {
			continue
		}
		if list == nil {
			return nil, fmt.Errorf("line %d: field %q outside a transaction section", i+1, line)
		}

		if line == "^" {
			if txnSeen {
				list = append(list, txn)
			}
			txn, txnSeen = Transaction{}, false
			continue
		}

		code, value := line[0], strings.TrimSpace(line[1:])
		switch code {
		case 'D':
			d, err := parseDate(value, dayFirst)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			txn.Date = d
		case 'T', 'U':
			amount, err := model.ParseAmount(value)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			txn.Amount = amount
		case 'P':
			txn.Payee = value
		case 'M':
			txn.Memo = value
		case 'C':
			txn.Cleared = value
		case 'L':
			txn.Category = value
		case 'N':
			txn.CheckNumber = value
		}
		txnSeen = true
	}
	endList()

	if len(file.Accounts) == 0 {
		return nil, fmt.Errorf("no QIF sections found")
	}
	return file, nil
}

// parseAccountHeader consumes an !Account block starting at index start and
// returns the declared account. The block ends at its ^ terminator.
func parseAccountHeader(lines []string, start int, ensure func(string) *Account) (*Account, int, error) {
	name := ""
	accType := AccountType("")
	i := start
	for ; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " \t")
		if line == "" {
			continue
		}
		if line == "^" {
			break
		}
		if strings.HasPrefix(line, "!") {
			i--
			break
		}
		code, value := line[0], strings.TrimSpace(line[1:])
		switch code {
		case 'N':
			name = value
		case 'T':
			if t, ok := sectionTypes[value]; ok {
				accType = t
			}
		}
	}
	if name == "" {
		return nil, i, fmt.Errorf("line %d: account block without a name", start)
	}
	acc := ensure(name)
	if acc.Type == "" {
		acc.Type = accType
	}
	return acc, i, nil
}

// parseDate parses a QIF date field. Quicken emits D/M/Y or M/D/Y depending
// on locale, with "/", "-" or "'" between components; dayFirst decides which
// of the first two components is the day. Two-digit years are 2000-based.
func parseDate(s string, dayFirst bool) (time.Time, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == '-' || r == '\''
	})
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("parsing QIF date %q", s)
	}

	nums := make([]int, 3)
	for j, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing QIF date %q: %w", s, err)
		}
		nums[j] = n
	}

	day, month := nums[1], nums[0]
	if dayFirst {
		day, month = nums[0], nums[1]
	}
	year := nums[2]
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("QIF date %q out of range", s)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}
