// Package session owns the lifecycle of the embedded analytical engine
// session: one strictly ordered initialization per process, an explicit
// not-ready sentinel consumed by every dependent operation.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/declaradash/declaradash/internal/pkg/constants"
	"github.com/declaradash/declaradash/internal/pkg/localstore"
	"github.com/declaradash/declaradash/internal/pkg/logger"
	"github.com/declaradash/declaradash/internal/pkg/store"
	"golang.org/x/sync/errgroup"
)

const (
	MasterTable  = "s1_dataset_maestro"
	StagingTable = "stg_s1_declaraciones"
)

type State int

const (
	StateNotReady State = iota
	StateReady
	StateErrored
)

type Config struct {
	MasterFileURL  string
	StagingFileURL string
}

type Service struct {
	store store.Store
	local *localstore.Store

	mu      sync.RWMutex
	state   State
	initErr error

	initOnce sync.Once
}

func NewService(engineStore store.Store, local *localstore.Store) *Service {
	return &Service{store: engineStore, local: local}
}

// Init brings the session to a ready state exactly once. Any step's failure
// leaves the session errored; it never silently continues.
func (svc *Service) Init(ctx context.Context, cfg Config) error {
	svc.initOnce.Do(func() {
		if err := svc.initialize(ctx, cfg); err != nil {
			logger.Errorf(ctx, "session init failed: %s", err.Error())
			svc.mu.Lock()
			svc.state = StateErrored
			svc.initErr = err
			svc.mu.Unlock()
			return
		}

		svc.mu.Lock()
		svc.state = StateReady
		svc.mu.Unlock()
		logger.Info(ctx, "analytical session ready")
	})

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.initErr
}

func (svc *Service) initialize(ctx context.Context, cfg Config) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := svc.store.RegisterRemoteFile(egCtx, MasterTable, cfg.MasterFileURL); err != nil {
			return fmt.Errorf("register master file: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		if err := svc.store.RegisterRemoteFile(egCtx, StagingTable, cfg.StagingFileURL); err != nil {
			return fmt.Errorf("register staging file: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	if err := svc.store.CreateUnifiedView(ctx, MasterTable, StagingTable); err != nil {
		return fmt.Errorf("create unified view: %w", err)
	}

	if err := svc.store.ProbeUnifiedView(ctx); err != nil {
		return fmt.Errorf("probe unified view: %w", err)
	}

	if err := svc.store.EnsureReportsTable(ctx); err != nil {
		return fmt.Errorf("ensure reports table: %w", err)
	}

	if err := svc.replayReports(ctx); err != nil {
		return fmt.Errorf("replay reports: %w", err)
	}

	return nil
}

// replayReports reconciles the durable log into the session-scoped table.
// Inserts skip ids already present, so a pre-populated table never gains
// duplicate rows.
func (svc *Service) replayReports(ctx context.Context) error {
	reports := svc.local.Reports()

	replayed := 0
	for _, report := range reports {
		inserted, err := svc.store.ReplayReport(ctx, report)
		if err != nil {
			return fmt.Errorf("replay report %s: %w", report.ID, err)
		}
		if inserted {
			replayed++
		}
	}

	engineCount, err := svc.store.CountReports(ctx)
	if err != nil {
		return fmt.Errorf("count engine reports: %w", err)
	}
	if int(engineCount) != len(reports) {
		logger.Warnf(ctx, "report stores diverge after replay: engine=%d durable=%d", engineCount, len(reports))
	}

	logger.Infof(ctx, "replayed %d of %d durable reports into engine table", replayed, len(reports))
	return nil
}

func (svc *Service) State() State {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.state
}

// Ready is the blocking precondition every querying component checks. Both
// not-ready and errored refuse queries.
func (svc *Service) Ready() error {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	switch svc.state {
	case StateReady:
		return nil
	case StateErrored:
		return svc.initErr
	default:
		return constants.ErrSessionNotReady
	}
}

// InitError surfaces the fatal initialization message, if any.
func (svc *Service) InitError() string {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	if svc.initErr != nil {
		return svc.initErr.Error()
	}
	return ""
}

func (svc *Service) Store() store.Store {
	return svc.store
}

func (svc *Service) Local() *localstore.Store {
	return svc.local
}
