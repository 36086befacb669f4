package dates

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlashDate(t *testing.T) {
	d, err := ParseSlashDate("18/10/2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 10, 18, 0, 0, 0, 0, time.UTC), d)
}

func TestParseSlashDate_DayFirstOrder(t *testing.T) {
	// 10/01/2023 is the 10th of January, not October 1st.
	d, err := ParseSlashDate("10/01/2023")
	require.NoError(t, err)
	assert.Equal(t, time.January, d.Month())
	assert.Equal(t, 10, d.Day())
}

func TestParseSlashDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "18/10", "18-10-2024", "aa/bb/cccc", "32/01/2024", "01/13/2024"} {
		_, err := ParseSlashDate(s)
		assert.Error(t, err, s)
	}
}

func TestMonthFromAbbrev_FullTable(t *testing.T) {
	want := map[string]time.Month{
		"JAN": time.January, "FEB": time.February, "MAR": time.March,
		"APR": time.April, "MAY": time.May, "JUN": time.June,
		"JUL": time.July, "AUG": time.August, "SEP": time.September,
		"OCT": time.October, "NOV": time.November, "DEC": time.December,
	}
	for abbrev, month := range want {
		m, err := MonthFromAbbrev(abbrev)
		require.NoError(t, err, abbrev)
		assert.Equal(t, month, m, abbrev)
	}
}

func TestMonthFromAbbrev_CaseInsensitive(t *testing.T) {
	m, err := MonthFromAbbrev("oct")
	require.NoError(t, err)
	assert.Equal(t, time.October, m)
}

func TestMonthFromAbbrev_Unknown(t *testing.T) {
	_, err := MonthFromAbbrev("OKT")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized month abbreviation")
}

func TestExpandYear_ConcatenationLaw(t *testing.T) {
	// The resolved year is the integer value of prefix || yy, for any prefix.
	for _, tc := range []struct {
		prefix, yy string
		want       int
	}{
		{"20", "24", 2024},
		{"20", "99", 2099},
		{"19", "85", 1985},
		{"21", "00", 2100},
	} {
		got, err := ExpandYear(tc.prefix, tc.yy)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, fmt.Sprintf("%s||%s", tc.prefix, tc.yy))
	}
}

func TestExpandYear_Invalid(t *testing.T) {
	_, err := ExpandYear("20", "XX")
	assert.Error(t, err)
}

func TestParseLabelDate(t *testing.T) {
	d, err := ParseLabelDate("28-OCT-24", "20")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 10, 28, 0, 0, 0, 0, time.UTC), d)
}

func TestParseLabelDate_UnknownMonthPropagates(t *testing.T) {
	_, err := ParseLabelDate("28-BAD-24", "20")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized month abbreviation")
}

func TestParseLabelDate_Malformed(t *testing.T) {
	for _, s := range []string{"", "28-OCT", "28/OCT/24", "XX-OCT-24", "40-OCT-24"} {
		_, err := ParseLabelDate(s, "20")
		assert.Error(t, err, s)
	}
}
