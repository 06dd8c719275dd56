package nflverse

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jcturnbull/DailyDraft/internal/provider"
)

// nullTokens are the cell values written for missing data by the R and
// Python exporters.
var nullTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"NaN":  true,
	"nan":  true,
	"None": true,
}

// ReadTable parses a CSV stream with a header row. Null cells are left out of
// the row map; everything else stays a string for provider.ExtractValue.
func ReadTable(r io.Reader) (provider.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return provider.Table{}, nil
	}
	if err != nil {
		return provider.Table{}, fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	t := provider.Table{Columns: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return t, fmt.Errorf("read line %d: %w", len(t.Rows)+2, err)
		}
		row := make(provider.Row, len(header))
		for i, col := range header {
			if i >= len(rec) {
				break
			}
			v := strings.TrimSpace(rec[i])
			if nullTokens[v] {
				continue
			}
			row[col] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
