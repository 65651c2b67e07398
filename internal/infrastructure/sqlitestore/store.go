// Package sqlitestore implements the row store on a local sqlite file
// for single-host setups that run without a spreadsheet.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"OpimeNotify/internal/ports"
)

// rowFormula is the position-assigned id cell the spreadsheet backend
// understands natively; here it resolves to the row index on write.
const rowFormula = "=ROW()-1"

// Store keeps each table as a sqlite table of TEXT columns plus a
// rowid-backed ordering column.
type Store struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

var _ ports.RowStore = (*Store)(nil)

// Open opens or creates the database file.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &Store{db: db, sb: sq.StatementBuilder.PlaceholderFormat(sq.Question)}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureTable creates the table with the given TEXT columns when it does
// not exist yet.
func (s *Store) EnsureTable(ctx context.Context, table string, headers []string) error {
	cols := make([]string, 0, len(headers))
	for _, h := range headers {
		cols = append(cols, quoteIdent(h)+" TEXT")
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(table), strings.Join(cols, ", "))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("ensure table %s: %w", table, err)
	}
	return nil
}

// Headers returns the column names in declaration order.
func (s *Store) Headers(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM pragma_table_info(?) ORDER BY cid", table)
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	var header []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column name: %w", err)
		}
		header = append(header, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	return header, nil
}

// ReadAll returns every row keyed by column name, in insertion order.
func (s *Store) ReadAll(ctx context.Context, table string) ([]map[string]string, error) {
	header, err := s.Headers(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(header) == 0 {
		return nil, nil
	}

	cols := make([]string, 0, len(header))
	for _, h := range header {
		cols = append(cols, quoteIdent(h))
	}
	query, args, err := s.sb.Select(cols...).From(quoteIdent(table)).OrderBy("rowid").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	defer rows.Close()

	var result []map[string]string
	for rows.Next() {
		cells := make([]sql.NullString, len(header))
		dest := make([]any, len(header))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			row[h] = cells[i].String
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	return result, nil
}

// WriteRows replaces the table contents with the given rows. The row
// formula in an id cell becomes the 1-based row position.
func (s *Store) WriteRows(ctx context.Context, table string, rows [][]string) error {
	header, err := s.Headers(ctx, table)
	if err != nil {
		return err
	}
	if len(header) == 0 {
		return fmt.Errorf("write %s: table has no columns", table)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write: %w", err)
	}
	defer tx.Rollback()

	deleteSQL, deleteArgs, err := s.sb.Delete(quoteIdent(table)).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteSQL, deleteArgs...); err != nil {
		return fmt.Errorf("clear before write: %w", err)
	}

	cols := make([]string, 0, len(header))
	for _, h := range header {
		cols = append(cols, quoteIdent(h))
	}
	for i, row := range rows {
		values := make([]any, 0, len(header))
		for j := range header {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			if cell == rowFormula {
				cell = strconv.Itoa(i + 1)
			}
			values = append(values, cell)
		}
		insertSQL, insertArgs, err := s.sb.Insert(quoteIdent(table)).Columns(cols...).Values(values...).ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertSQL, insertArgs...); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit write: %w", err)
	}
	return nil
}

// Clear deletes every row, keeping the schema.
func (s *Store) Clear(ctx context.Context, table string) error {
	query, args, err := s.sb.Delete(quoteIdent(table)).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
