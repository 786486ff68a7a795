package ingest

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// csvParser parses delimited statement exports with the column layout
// date,description,reference,debit,credit[,balance]. A header row is
// detected and skipped.
type csvParser struct{}

func (p *csvParser) Parse(raw []byte) ([]NormalizedLine, []LineError) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1 // validated per row below
	reader.TrimLeadingSpace = true

	var lines []NormalizedLine
	var errs []LineError

	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			errs = append(errs, LineError{Row: row, Message: err.Error()})
			continue
		}
		if row == 1 && isHeaderRow(record) {
			continue
		}
		if len(record) < 5 {
			errs = append(errs, LineError{Row: row, Message: "expected at least 5 columns (date,description,reference,debit,credit)"})
			continue
		}

		txnDate, err := parseDate(strings.TrimSpace(record[0]))
		if err != nil {
			errs = append(errs, LineError{Row: row, Field: "date", Value: record[0], Message: err.Error()})
			continue
		}

		debit, err := parseOptionalAmount(record[3])
		if err != nil {
			errs = append(errs, LineError{Row: row, Field: "debit", Value: record[3], Message: err.Error()})
			continue
		}
		credit, err := parseOptionalAmount(record[4])
		if err != nil {
			errs = append(errs, LineError{Row: row, Field: "credit", Value: record[4], Message: err.Error()})
			continue
		}
		if debit.IsZero() == credit.IsZero() {
			errs = append(errs, LineError{Row: row, Field: "amount", Message: "exactly one of debit or credit must be non-zero"})
			continue
		}

		line := NormalizedLine{
			TxnDate:     txnDate,
			Description: strings.TrimSpace(record[1]),
			Reference:   strings.TrimSpace(record[2]),
			Amount:      credit.Sub(debit),
		}

		if len(record) > 5 && strings.TrimSpace(record[5]) != "" {
			bal, err := decimal.NewFromString(strings.TrimSpace(record[5]))
			if err != nil {
				errs = append(errs, LineError{Row: row, Field: "balance", Value: record[5], Message: err.Error()})
				continue
			}
			line.RunningBalance = &bal
		}

		lines = append(lines, line)
	}

	return lines, errs
}

func isHeaderRow(record []string) bool {
	if len(record) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return first == "date" || first == "txn_date" || first == "transaction date"
}

func parseOptionalAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
