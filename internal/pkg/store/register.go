package store

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/declaradash/declaradash/internal/pkg/logger"
)

// insertChunkSize keeps multi-row inserts under the engine's bound-variable
// limit for wide datasets.
const insertChunkSize = 500

// RegisterRemoteFile fetches a remote CSV export and loads it into the engine
// as a named table. Column names come from the header row; values are stored
// as text and cast where the unified view needs numbers.
func (s *store) RegisterRemoteFile(ctx context.Context, table, url string) error {
	var resp *http.Response
	err := backoff.Retry(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if reqErr != nil {
				return backoff.Permanent(reqErr)
			}

			var httpErr error
			resp, httpErr = http.DefaultClient.Do(req)
			if httpErr != nil {
				return fmt.Errorf("http.Get: %w", httpErr)
			}
			if resp.StatusCode != http.StatusOK {
				resp.Body.Close()
				return fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
			}

			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(200*time.Millisecond), 5),
			ctx,
		),
	)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	return s.loadCSV(ctx, table, resp.Body)
}

func (s *store) loadCSV(ctx context.Context, table string, r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read csv header: %w", err)
	}
	if len(header) == 0 {
		return fmt.Errorf("csv header is empty")
	}

	columns := make([]string, len(header))
	for i, col := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(col))
	}

	if err := s.createFileTable(ctx, table, columns); err != nil {
		return err
	}

	total := 0
	chunk := make([][]string, 0, insertChunkSize)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read csv record: %w", err)
		}
		chunk = append(chunk, record)
		if len(chunk) == insertChunkSize {
			if err := s.insertFileRows(ctx, table, columns, chunk); err != nil {
				return err
			}
			total += len(chunk)
			chunk = chunk[:0]
		}
	}
	if len(chunk) > 0 {
		if err := s.insertFileRows(ctx, table, columns, chunk); err != nil {
			return err
		}
		total += len(chunk)
	}

	logger.Infof(ctx, "registered file table %s with %d rows", table, total)
	return nil
}

func (s *store) createFileTable(ctx context.Context, table string, columns []string) error {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = quoteIdent(col) + " TEXT"
	}

	ddl := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(table))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("drop table %s: %w", table, err)
	}

	ddl = fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}

	return nil
}

func (s *store) insertFileRows(ctx context.Context, table string, columns []string, records [][]string) error {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(col)
	}

	query := builder().Insert(quoteIdent(table)).Columns(quoted...)
	for _, record := range records {
		values := make([]interface{}, len(columns))
		for i := range columns {
			if i < len(record) {
				values[i] = record[i]
			} else {
				values[i] = ""
			}
		}
		query = query.Values(values...)
	}

	if _, err := s.db.execx(ctx, query); err != nil {
		return fmt.Errorf("insert rows into %s: %w", table, err)
	}

	return nil
}

// CreateUnifiedView joins the master and staging file tables on their shared
// id into the declaration schema every downstream query targets.
func (s *store) CreateUnifiedView(ctx context.Context, masterTable, stagingTable string) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP VIEW IF EXISTS %s", viewDeclarations)); err != nil {
		return fmt.Errorf("drop view: %w", err)
	}

	ddl := fmt.Sprintf(`
CREATE VIEW %s AS
SELECT
	m.id AS id,
	upper(m.estado) AS region,
	m.institucion AS institution,
	s.nombre AS given_name,
	s.primer_apellido AS first_surname,
	s.segundo_apellido AS second_surname,
	s.empleo_cargo AS position,
	CAST(m.ingreso_mensual_neto AS REAL) AS monthly_net_income,
	CAST(m.ingreso_anual_neto AS REAL) AS annual_remuneration
FROM %s m
JOIN %s s ON m.id = s.id`,
		viewDeclarations, quoteIdent(masterTable), quoteIdent(stagingTable))

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create unified view: %w", err)
	}

	return nil
}

// ProbeUnifiedView verifies the view is queryable before the session is
// declared ready.
func (s *store) ProbeUnifiedView(ctx context.Context) error {
	var one int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT 1 FROM %s LIMIT 1", viewDeclarations)).Scan(&one)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("probe unified view: %w", err)
	}
	return nil
}
