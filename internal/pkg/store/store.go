package store

import (
	"context"

	"github.com/declaradash/declaradash/internal/domain"
)

// Store is the query surface over the embedded analytical engine. One store
// wraps one engine session; everything it exposes targets either the unified
// declaration view or the session-scoped reports table.
type Store interface {
	RegisterRemoteFile(ctx context.Context, table, url string) error
	CreateUnifiedView(ctx context.Context, masterTable, stagingTable string) error
	ProbeUnifiedView(ctx context.Context) error

	ListInstitutions(ctx context.Context, regionName string) ([]*domain.InstitutionSummary, error)
	CountDeclarations(ctx context.Context, institution string) (int64, error)
	ListDeclarationsPage(ctx context.Context, institution string, page int) ([]*domain.Declaration, error)

	EnsureReportsTable(ctx context.Context) error
	InsertReport(ctx context.Context, report *domain.CitizenReport) error
	ReplayReport(ctx context.Context, report *domain.CitizenReport) (bool, error)
	ListReports(ctx context.Context) ([]*domain.CitizenReport, error)
	UpvoteReport(ctx context.Context, id string) error
	CountReports(ctx context.Context) (int64, error)

	Close() error
}

type store struct {
	db *DB
}

func NewStore(db *DB) Store {
	return &store{db: db}
}

func (s *store) Close() error {
	return s.db.Close()
}
