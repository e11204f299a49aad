package store

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/declaradash/declaradash/internal/pkg/constants"
)

const (
	viewDeclarations = "declarations_unified"
	tableReports     = "citizen_reports"
)

var mapping = map[error]error{sql.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	return err
}

// builder returns a squirrel SQL builder for the embedded engine.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

// quoteIdent makes a table or column name safe to splice into DDL, the one
// place placeholders cannot reach. Embedded quotes are doubled.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
