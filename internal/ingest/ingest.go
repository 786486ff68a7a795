// Package ingest parses externally supplied bank statement lines into a
// normalized transaction stream. Malformed lines are collected into a
// parallel error list rather than aborting the batch; partial ingestion is
// allowed and reported. Idempotency across re-ingestion of the same file is
// enforced at the storage layer, keyed on (bank account, date, amount,
// reference).
package ingest

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Format identifies the wire format of a raw statement upload.
type Format string

const (
	// FormatCSV is delimited text: date,description,reference,debit,credit[,balance].
	FormatCSV Format = "CSV"
	// FormatFixedWidth is a fixed-column SWIFT-style statement line.
	FormatFixedWidth Format = "FIXED_WIDTH"
	// FormatNormalized is a pre-normalized JSON transaction list from a feed adapter.
	FormatNormalized Format = "NORMALIZED"
)

// NormalizedLine is one parsed statement line. Amount is signed from the
// bank's perspective: credits (money in) positive, debits negative.
type NormalizedLine struct {
	TxnDate        time.Time        `json:"txnDate"`
	Description    string           `json:"description"`
	Reference      string           `json:"reference"`
	Amount         decimal.Decimal  `json:"amount"`
	RunningBalance *decimal.Decimal `json:"runningBalance,omitempty"`
}

// LineError reports one malformed input row.
type LineError struct {
	Row     int    `json:"row"` // 1-based row number in the raw input
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (e LineError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// Report summarizes one ingestion batch.
type Report struct {
	Parsed     int         `json:"parsed"`
	Ingested   int         `json:"ingested"`
	Duplicates int         `json:"duplicates"`
	Errors     []LineError `json:"errors"`
}

// Parser converts raw statement bytes into normalized lines.
type Parser interface {
	Parse(raw []byte) ([]NormalizedLine, []LineError)
}

// NewParser returns the parser for the given format.
func NewParser(format Format) (Parser, error) {
	switch format {
	case FormatCSV:
		return &csvParser{}, nil
	case FormatFixedWidth:
		return &fixedWidthParser{}, nil
	case FormatNormalized:
		return &normalizedParser{}, nil
	default:
		return nil, fmt.Errorf("unknown statement format %q", format)
	}
}

// dateLayouts are tried in order when parsing statement dates.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "20060102"}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
