// Package sheets implements the row store on a Google spreadsheet, one
// worksheet per table with the headers in row 1.
package sheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"OpimeNotify/internal/ports"
)

// Store reads and writes worksheet rows of one spreadsheet.
type Store struct {
	svc           *sheets.Service
	spreadsheetID string
}

var _ ports.RowStore = (*Store)(nil)

// New authorizes with a service-account JSON key and binds the store to
// one spreadsheet.
func New(ctx context.Context, credentialsFile, spreadsheetID string) (*Store, error) {
	key, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(key, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Store{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// Headers returns row 1 of a worksheet.
func (s *Store) Headers(ctx context.Context, table string) ([]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, table+"!1:1").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read headers of %s: %w", table, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	header := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		header = append(header, fmt.Sprint(cell))
	}
	return header, nil
}

// ReadAll returns every data row keyed by the header row.
func (s *Store) ReadAll(ctx context.Context, table string) ([]map[string]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, table).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	if len(resp.Values) < 2 {
		return nil, nil
	}

	header := resp.Values[0]
	rows := make([]map[string]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			value := ""
			if i < len(raw) {
				value = fmt.Sprint(raw[i])
			}
			row[fmt.Sprint(col)] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteRows replaces the data rows from row 2 on. USER_ENTERED keeps the
// id formula cells live.
func (s *Store) WriteRows(ctx context.Context, table string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	values := make([][]any, 0, len(rows))
	for _, row := range rows {
		cells := make([]any, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cell)
		}
		values = append(values, cells)
	}

	rangeStr := fmt.Sprintf("%s!A2:%s%d", table, columnName(len(rows[0])), len(rows)+1)
	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rangeStr, &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write %s: %w", table, err)
	}
	return nil
}

// Clear wipes the data rows, keeping the header row.
func (s *Store) Clear(ctx context.Context, table string) error {
	_, err := s.svc.Spreadsheets.Values.
		Clear(s.spreadsheetID, table+"!A2:ZZ", &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	return nil
}

// EnsureTable creates the worksheet with its header row when missing.
func (s *Store) EnsureTable(ctx context.Context, table string, headers []string) error {
	existing, err := s.Headers(ctx, table)
	if err == nil && len(existing) > 0 {
		return nil
	}

	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: table},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		// the worksheet may already exist with an empty header row
		if headerErr := s.writeHeader(ctx, table, headers); headerErr != nil {
			return fmt.Errorf("ensure %s: %w", table, err)
		}
		return nil
	}
	return s.writeHeader(ctx, table, headers)
}

func (s *Store) writeHeader(ctx context.Context, table string, headers []string) error {
	cells := make([]any, 0, len(headers))
	for _, h := range headers {
		cells = append(cells, h)
	}
	rangeStr := fmt.Sprintf("%s!A1:%s1", table, columnName(len(headers)))
	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rangeStr, &sheets.ValueRange{Values: [][]any{cells}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write header of %s: %w", table, err)
	}
	return nil
}

// columnName converts a 1-based column count to its A1 letter form.
func columnName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}
