package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beanport-dev/beanport/internal/model"
)

func testQIF(t *testing.T) *QIF {
	t.Helper()
	q, err := NewQIF(QIFConfig{
		Account:  "Liabilities:CreditCard:Lloyds",
		DayFirst: true,
	}, testLogger())
	require.NoError(t, err)
	return q
}

func TestQIF_IdentifiesLloydsExport(t *testing.T) {
	q := testQIF(t)
	assert.True(t, q.Identify(testFile("LloydsCC.qif")))
}

func TestQIF_DeniesPayslipAndCSV(t *testing.T) {
	q := testQIF(t)
	assert.False(t, q.Identify(testFile("My Payslip 28-OCT-24.pdf")))
	assert.False(t, q.Identify(testFile("FirstDirect.csv")))
}

func TestQIF_UnparseableIsNegativeIdentification(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.qif")
	require.NoError(t, os.WriteFile(path, []byte("this is not a qif file\n"), 0o644))

	q := testQIF(t)
	assert.False(t, q.Identify(testFileAt(path)))
}

func TestQIF_FileAccountAndDate(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	stubNow(t, fixed)

	q := testQIF(t)
	assert.Equal(t, "Liabilities:CreditCard:Lloyds", q.FileAccount())
	d, err := q.FileDate(testFile("LloydsCC.qif"))
	require.NoError(t, err)
	assert.Equal(t, fixed, d)
}

func TestQIF_ExtractCCardInvertsSign(t *testing.T) {
	q := testQIF(t)
	directives, err := q.Extract(testFile("LloydsCC.qif"))
	require.NoError(t, err)
	require.Len(t, directives, 3)

	goosedale := directives[1].(*model.Transaction)
	assert.Equal(t, time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC), goosedale.Date)
	assert.Equal(t, "Goosedale", goosedale.Payee)
	assert.Equal(t, "Memo: Christmas party", goosedale.Narration)
	require.Len(t, goosedale.Postings, 1)
	assert.Equal(t, "Liabilities:CreditCard:Lloyds", goosedale.Postings[0].Account)
	assert.Equal(t, "-4.70", goosedale.Postings[0].Units.Number.StringFixed(2))
	assert.Equal(t, "GBP", goosedale.Postings[0].Units.Currency)
	assert.Empty(t, goosedale.Tags)
	assert.Empty(t, goosedale.Links)

	payment := directives[2].(*model.Transaction)
	assert.Equal(t, "250.00", payment.Postings[0].Units.Number.StringFixed(2))
	assert.Equal(t, "Category: Payment", payment.Narration)
}

func TestQIF_BankTypeKeepsSign(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.qif")
	content := "!Type:Bank\nD06/01/2023\nT2112.33\nPACCESS UK\n^\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	q, err := NewQIF(QIFConfig{Account: "Assets:Bank:Current", DayFirst: true}, testLogger())
	require.NoError(t, err)

	directives, err := q.Extract(testFileAt(path))
	require.NoError(t, err)
	require.Len(t, directives, 1)
	txn := directives[0].(*model.Transaction)
	assert.Equal(t, "2112.33", txn.Postings[0].Units.Number.StringFixed(2))
}

func TestQIF_MultipleListsYieldsEmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two-lists.qif")
	content := "!Type:CCard\nD20/12/2024\nT1.00\n^\n!Type:CCard\nD21/12/2024\nT2.00\n^\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	q := testQIF(t)
	directives, err := q.Extract(testFileAt(path))
	require.NoError(t, err)
	assert.Empty(t, directives) // empty, not partial, not an error
}

func TestQIF_UnknownAccountTypeYieldsEmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invst.qif")
	content := "!Type:Invst\nD20/12/2024\nT1.00\n^\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	q := testQIF(t)
	directives, err := q.Extract(testFileAt(path))
	require.NoError(t, err)
	assert.Empty(t, directives)
}

func TestQIF_AccountSelector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multi.qif")
	content := `!Account
NCredit Card
TCCard
^
!Type:CCard
D20/12/2024
T4.70
PGoosedale
^
!Account
NCurrent
TBank
^
!Type:Bank
D21/12/2024
T100.00
PEmployer
^
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	q, err := NewQIF(QIFConfig{
		Account:     "Liabilities:CreditCard:Lloyds",
		AccountName: "Credit Card",
		DayFirst:    true,
	}, testLogger())
	require.NoError(t, err)

	directives, err := q.Extract(testFileAt(path))
	require.NoError(t, err)
	require.Len(t, directives, 1)
	assert.Equal(t, "Goosedale", directives[0].(*model.Transaction).Payee)

	// No selector with several accounts is ambiguous: empty result.
	q2, err := NewQIF(QIFConfig{Account: "Liabilities:CreditCard:Lloyds", DayFirst: true}, testLogger())
	require.NoError(t, err)
	directives, err = q2.Extract(testFileAt(path))
	require.NoError(t, err)
	assert.Empty(t, directives)

	// A selector matching nothing is likewise empty, not an error.
	q3, err := NewQIF(QIFConfig{
		Account:     "Liabilities:CreditCard:Lloyds",
		AccountName: "BadAccount",
		DayFirst:    true,
	}, testLogger())
	require.NoError(t, err)
	directives, err = q3.Extract(testFileAt(path))
	require.NoError(t, err)
	assert.Empty(t, directives)
}

func TestQIF_PayeeTrailingWhitespaceTrimmed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pad.qif")
	content := "!Type:Bank\nD06/01/2023\nT1.00\nPEmployer Ltd   \n^\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	q, err := NewQIF(QIFConfig{Account: "Assets:Bank:Current", DayFirst: true}, testLogger())
	require.NoError(t, err)

	directives, err := q.Extract(testFileAt(path))
	require.NoError(t, err)
	require.Len(t, directives, 1)
	assert.Equal(t, "Employer Ltd", directives[0].(*model.Transaction).Payee)
}

func TestQIF_NarrationComposition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "full.qif")
	content := "!Type:Bank\nD06/01/2023\nT-45.00\nPBritish Gas\nMQuarterly bill\nCX\nLUtilities\nN1042\n^\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	q, err := NewQIF(QIFConfig{Account: "Assets:Bank:Current", DayFirst: true}, testLogger())
	require.NoError(t, err)

	directives, err := q.Extract(testFileAt(path))
	require.NoError(t, err)
	txn := directives[0].(*model.Transaction)
	assert.Equal(t, "Memo: Quarterly bill, Cleared: X, Category: Utilities, Check Number: 1042", txn.Narration)
}
