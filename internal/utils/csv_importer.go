package utils

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// AccountImporter stores one imported account. It reports false when the
// account was imported before and nothing changed.
type AccountImporter interface {
	ImportAccount(ctx context.Context, accountID, displayName string, points int) (bool, error)
}

// ImportResult summarizes a CSV import run
type ImportResult struct {
	TotalRows int      `json:"totalRows"`
	Imported  int      `json:"imported"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors"`
}

// CSVImporter reads attendee accounts with starting points from CSV
type CSVImporter struct {
	importer AccountImporter
}

// NewCSVImporter creates a new CSVImporter
func NewCSVImporter(importer AccountImporter) *CSVImporter {
	return &CSVImporter{importer: importer}
}

// Import reads a header row followed by accountId,displayName,points rows.
// Bad rows are recorded in the result and do not stop the run.
func (i *CSVImporter) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	accountIdx := findColumnIndex(header, []string{"accountId", "Account ID", "id"})
	nameIdx := findColumnIndex(header, []string{"displayName", "Display Name", "name"})
	pointsIdx := findColumnIndex(header, []string{"points", "Starting Points", "balance"})
	if accountIdx == -1 {
		return nil, errors.New("accountId column not found in CSV")
	}

	result := &ImportResult{Errors: []string{}}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		result.TotalRows++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", result.TotalRows, err))
			continue
		}

		accountID := column(row, accountIdx)
		if accountID == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: no account id", result.TotalRows))
			continue
		}

		points := 0
		if raw := column(row, pointsIdx); raw != "" {
			points, err = strconv.Atoi(raw)
			if err != nil || points < 0 {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: invalid points: %s", result.TotalRows, raw))
				continue
			}
		}

		imported, err := i.importer.ImportAccount(ctx, accountID, column(row, nameIdx), points)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", result.TotalRows, err))
			continue
		}
		if imported {
			result.Imported++
		} else {
			result.Skipped++
		}
	}
	return result, nil
}

func column(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func findColumnIndex(header []string, possibleNames []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, name := range possibleNames {
			if strings.ToLower(name) == h {
				return i
			}
		}
	}
	return -1
}
