package ingest

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/shopspring/decimal"
)

// Fixed-width SWIFT-style statement layout, one line per transaction:
//
//	cols 0-7    value date, YYYYMMDD
//	col  8      debit/credit mark: D or C
//	cols 9-23   amount, right-aligned, two implied decimals absent (plain decimal)
//	cols 24-39  reference, space padded
//	cols 40+    description
const (
	fwDateEnd   = 8
	fwMarkEnd   = 9
	fwAmountEnd = 24
	fwRefEnd    = 40
	fwMinLen    = 41
)

type fixedWidthParser struct{}

func (p *fixedWidthParser) Parse(raw []byte) ([]NormalizedLine, []LineError) {
	scanner := bufio.NewScanner(bytes.NewReader(raw))

	var lines []NormalizedLine
	var errs []LineError

	row := 0
	for scanner.Scan() {
		row++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		if len(text) < fwMinLen {
			errs = append(errs, LineError{Row: row, Message: "line shorter than fixed-width layout"})
			continue
		}

		txnDate, err := parseDate(text[:fwDateEnd])
		if err != nil {
			errs = append(errs, LineError{Row: row, Field: "date", Value: text[:fwDateEnd], Message: err.Error()})
			continue
		}

		mark := text[fwDateEnd:fwMarkEnd]
		if mark != "D" && mark != "C" {
			errs = append(errs, LineError{Row: row, Field: "mark", Value: mark, Message: "debit/credit mark must be D or C"})
			continue
		}

		amountStr := strings.TrimSpace(text[fwMarkEnd:fwAmountEnd])
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			errs = append(errs, LineError{Row: row, Field: "amount", Value: amountStr, Message: err.Error()})
			continue
		}
		if amount.IsNegative() || amount.IsZero() {
			errs = append(errs, LineError{Row: row, Field: "amount", Value: amountStr, Message: "amount must be positive; sign comes from the D/C mark"})
			continue
		}
		if mark == "D" {
			amount = amount.Neg()
		}

		lines = append(lines, NormalizedLine{
			TxnDate:     txnDate,
			Reference:   strings.TrimSpace(text[fwAmountEnd:fwRefEnd]),
			Description: strings.TrimSpace(text[fwRefEnd:]),
			Amount:      amount,
		})
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, LineError{Row: row + 1, Message: err.Error()})
	}

	return lines, errs
}
