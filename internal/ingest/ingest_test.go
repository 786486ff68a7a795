package ingest

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVParser_ParsesRowsAndCollectsErrors(t *testing.T) {
	raw := []byte(`date,description,reference,debit,credit,balance
2026-01-10,TRF FROM ACME LTD,REF001,,1075000.00,2075000.00
2026-01-11,EMTL CHARGE,REF002,50.00,,2074950.00
not-a-date,BROKEN LINE,REF003,10.00,,
2026-01-12,BOTH SIDES,REF004,5.00,5.00,
`)

	parser, err := NewParser(FormatCSV)
	require.NoError(t, err)

	lines, errs := parser.Parse(raw)

	require.Len(t, lines, 2)
	require.Len(t, errs, 2)

	assert.True(t, lines[0].Amount.Equal(decimal.RequireFromString("1075000.00")))
	assert.Equal(t, "REF001", lines[0].Reference)
	require.NotNil(t, lines[0].RunningBalance)
	assert.True(t, lines[0].RunningBalance.Equal(decimal.RequireFromString("2075000.00")))

	// Debits come out negative.
	assert.True(t, lines[1].Amount.Equal(decimal.RequireFromString("-50.00")))

	assert.Equal(t, 4, errs[0].Row)
	assert.Equal(t, "date", errs[0].Field)
	assert.Equal(t, 5, errs[1].Row)
}

func TestCSVParser_MalformedLinesDoNotAbortBatch(t *testing.T) {
	raw := []byte("2026-01-10,OK LINE,R1,,100.00\ngarbage\n2026-01-11,OK TOO,R2,25.00,\n")

	parser, _ := NewParser(FormatCSV)
	lines, errs := parser.Parse(raw)

	assert.Len(t, lines, 2)
	assert.Len(t, errs, 1)
}

func TestFixedWidthParser(t *testing.T) {
	// 8 date + 1 mark + 15 amount + 16 reference + description
	raw := []byte("" +
		"20260110C     1075000.00REF001          TRF FROM ACME LTD\n" +
		"20260111D          50.00REF002          EMTL CHARGE\n" +
		"bad line\n")

	parser, err := NewParser(FormatFixedWidth)
	require.NoError(t, err)

	lines, errs := parser.Parse(raw)
	require.Len(t, lines, 2)
	require.Len(t, errs, 1)

	assert.True(t, lines[0].Amount.Equal(decimal.RequireFromString("1075000.00")))
	assert.Equal(t, "REF001", lines[0].Reference)
	assert.Equal(t, "TRF FROM ACME LTD", lines[0].Description)

	assert.True(t, lines[1].Amount.Equal(decimal.RequireFromString("-50.00")))
	assert.Equal(t, "EMTL CHARGE", lines[1].Description)
}

func TestNormalizedParser(t *testing.T) {
	raw := []byte(`[
		{"txnDate":"2026-01-10T00:00:00Z","description":"TRF","reference":"R1","amount":"500.00"},
		{"txnDate":"0001-01-01T00:00:00Z","description":"MISSING DATE","reference":"R2","amount":"10.00"},
		{"txnDate":"2026-01-11T00:00:00Z","description":"ZERO","reference":"R3","amount":"0"}
	]`)

	parser, err := NewParser(FormatNormalized)
	require.NoError(t, err)

	lines, errs := parser.Parse(raw)
	require.Len(t, lines, 1)
	assert.Len(t, errs, 2)
	assert.True(t, lines[0].Amount.Equal(decimal.RequireFromString("500.00")))
}

func TestNewParser_UnknownFormat(t *testing.T) {
	_, err := NewParser(Format("XML"))
	assert.Error(t, err)
}
