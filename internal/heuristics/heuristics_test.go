package heuristics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beanport-dev/beanport/internal/model"
)

func TestClassify_GroceriesCaseInsensitive(t *testing.T) {
	c := New(DefaultRules(), "GBP", false)

	posting, ok := c.Classify("TESCO STORES 2281", decimal.RequireFromString("12.50"))
	require.True(t, ok)
	assert.Equal(t, "Expenses:Groceries", posting.Account)
	assert.Equal(t, "-12.50", posting.Units.Number.StringFixed(2))
	assert.Equal(t, "GBP", posting.Units.Currency)
	assert.Equal(t, model.FlagWarning, posting.Flag)
}

func TestClassify_NoMatch(t *testing.T) {
	c := New(DefaultRules(), "GBP", false)
	_, ok := c.Classify("SHELL PETROL STATION", decimal.RequireFromString("40.00"))
	assert.False(t, ok)
}

func TestClassify_GlobalInvert(t *testing.T) {
	rules := []Rule{{Name: "phone", Triggers: []string{"smarty"}, Account: "Expenses:Phone"}}
	c := New(rules, "GBP", true)

	posting, ok := c.Classify("SMARTY MOBILE", decimal.RequireFromString("10.00"))
	require.True(t, ok)
	assert.Equal(t, "-10.00", posting.Units.Number.StringFixed(2))
}

func TestClassify_NoInversionWhenNeitherRequests(t *testing.T) {
	rules := []Rule{{Name: "phone", Triggers: []string{"smarty"}, Account: "Expenses:Phone"}}
	c := New(rules, "GBP", false)

	posting, ok := c.Classify("SMARTY MOBILE", decimal.RequireFromString("10.00"))
	require.True(t, ok)
	assert.Equal(t, "10.00", posting.Units.Number.StringFixed(2))
}

func TestClassify_FirstMatchWins(t *testing.T) {
	rules := []Rule{
		{Name: "first", Triggers: []string{"store"}, Account: "Expenses:First"},
		{Name: "second", Triggers: []string{"tesco"}, Account: "Expenses:Second"},
	}
	c := New(rules, "GBP", false)

	// Description matches both rules; declaration order decides.
	posting, ok := c.Classify("TESCO STORES 2281", decimal.RequireFromString("5.00"))
	require.True(t, ok)
	assert.Equal(t, "Expenses:First", posting.Account)
}

func TestClassify_AllDefaultGroceryTriggers(t *testing.T) {
	c := New(DefaultRules(), "GBP", false)
	for _, desc := range []string{
		"TESCO STORES 2281",
		"MORRISONS SUPERMARKET",
		"LIDL GB LEEDS",
		"ALDI 774",
	} {
		posting, ok := c.Classify(desc, decimal.RequireFromString("1.00"))
		require.True(t, ok, desc)
		assert.Equal(t, "Expenses:Groceries", posting.Account, desc)
	}
}
