package ingest

import "encoding/json"

// normalizedParser accepts a pre-normalized JSON transaction list from an
// external feed adapter. The core stays agnostic to the feed's transport;
// adapters hand over the already-shaped lines.
type normalizedParser struct{}

func (p *normalizedParser) Parse(raw []byte) ([]NormalizedLine, []LineError) {
	var lines []NormalizedLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, []LineError{{Row: 1, Message: "invalid normalized payload: " + err.Error()}}
	}

	valid := lines[:0]
	var errs []LineError
	for i, line := range lines {
		if line.TxnDate.IsZero() {
			errs = append(errs, LineError{Row: i + 1, Field: "txnDate", Message: "missing transaction date"})
			continue
		}
		if line.Amount.IsZero() {
			errs = append(errs, LineError{Row: i + 1, Field: "amount", Message: "amount must be non-zero"})
			continue
		}
		valid = append(valid, line)
	}
	return valid, errs
}
