// Package explorer drives the region → institution → page navigation
// sequence against the analytical session.
package explorer

import (
	"context"
	"fmt"
	"sync"

	"github.com/declaradash/declaradash/internal/domain"
	"github.com/declaradash/declaradash/internal/pkg/constants"
	"github.com/declaradash/declaradash/internal/pkg/geo"
	"github.com/declaradash/declaradash/internal/pkg/logger"
	"github.com/declaradash/declaradash/internal/pkg/projection"
	"github.com/declaradash/declaradash/internal/service/session"
	"golang.org/x/sync/errgroup"
)

// RegionView is what a region selection resolves to.
type RegionView struct {
	State        domain.SelectionState        `json:"state"`
	Institutions []*domain.InstitutionSummary `json:"institutions"`
}

// PageView is one declaration page plus its chart/table projections.
type PageView struct {
	State        domain.SelectionState   `json:"state"`
	Declarations []*domain.Declaration   `json:"declarations"`
	Chart        []projection.ChartPoint `json:"chart"`
	Rows         []projection.TableRow   `json:"rows"`
}

type Service struct {
	session *session.Service

	mu           sync.Mutex
	state        domain.SelectionState
	generation   uint64
	busy         bool
	institutions []*domain.InstitutionSummary
	declarations []*domain.Declaration
}

func NewService(sessionService *session.Service) *Service {
	return &Service{session: sessionService}
}

// SelectRegion sets the region, clears any institution and page state, and
// refetches institution summaries. An unmapped code yields an empty list, not
// an error.
func (svc *Service) SelectRegion(ctx context.Context, code string) (*RegionView, error) {
	if err := svc.session.Ready(); err != nil {
		return nil, err
	}

	regionName, mapped := geo.Translate(code)

	svc.mu.Lock()
	svc.state = domain.SelectionState{RegionCode: code, RegionName: regionName}
	svc.institutions = nil
	svc.declarations = nil
	svc.generation++
	generation := svc.generation

	if !mapped {
		view := svc.regionViewLocked()
		svc.mu.Unlock()
		logger.Warnf(ctx, "no region mapping for code %s", code)
		return view, nil
	}

	svc.busy = true
	svc.mu.Unlock()

	institutions, err := svc.session.Store().ListInstitutions(ctx, regionName)
	if err != nil {
		// Query failures degrade to an empty panel.
		logger.Errorf(ctx, "list institutions for %s: %s", regionName, err.Error())
		institutions = nil
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.busy = false
	if svc.generation != generation {
		// A newer selection superseded this fetch; drop it.
		return svc.regionViewLocked(), nil
	}
	svc.institutions = institutions

	return svc.regionViewLocked(), nil
}

// SelectInstitution sets the institution, resets the page to 0, and fires the
// count and page queries against the parameters captured at fire time.
func (svc *Service) SelectInstitution(ctx context.Context, institution string) (*PageView, error) {
	if err := svc.session.Ready(); err != nil {
		return nil, err
	}

	svc.mu.Lock()
	if svc.state.RegionCode == "" {
		svc.mu.Unlock()
		return nil, constants.ErrNoSelection
	}
	svc.state.Institution = institution
	svc.state.Page = 0
	svc.state.TotalCount = 0
	svc.state.TotalPages = 0
	svc.declarations = nil
	svc.generation++
	generation := svc.generation
	svc.busy = true
	svc.mu.Unlock()

	total, declarations := svc.fetchPage(ctx, institution, 0)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.busy = false
	if svc.generation != generation {
		return svc.pageViewLocked(), nil
	}
	svc.state.TotalCount = total
	svc.state.TotalPages = totalPages(total)
	svc.declarations = declarations

	return svc.pageViewLocked(), nil
}

// NextPage advances one page, clamped to the last page. Out of bounds is a
// no-op, not an error.
func (svc *Service) NextPage(ctx context.Context) (*PageView, error) {
	return svc.turnPage(ctx, 1)
}

// PrevPage goes back one page, clamped to 0.
func (svc *Service) PrevPage(ctx context.Context) (*PageView, error) {
	return svc.turnPage(ctx, -1)
}

func (svc *Service) turnPage(ctx context.Context, delta int) (*PageView, error) {
	if err := svc.session.Ready(); err != nil {
		return nil, err
	}

	svc.mu.Lock()
	if svc.state.Institution == "" {
		svc.mu.Unlock()
		return nil, constants.ErrNoSelection
	}

	page := clampPage(svc.state.Page+delta, svc.state.TotalPages)
	if page == svc.state.Page {
		view := svc.pageViewLocked()
		svc.mu.Unlock()
		return view, nil
	}

	svc.state.Page = page
	institution := svc.state.Institution
	svc.generation++
	generation := svc.generation
	svc.busy = true
	svc.mu.Unlock()

	total, declarations := svc.fetchPage(ctx, institution, page)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.busy = false
	if svc.generation != generation {
		return svc.pageViewLocked(), nil
	}
	svc.state.TotalCount = total
	svc.state.TotalPages = totalPages(total)
	svc.declarations = declarations

	return svc.pageViewLocked(), nil
}

// fetchPage runs the count and page queries. They are independent; both
// target the same captured (institution, page) pair. Failures degrade to an
// empty page.
func (svc *Service) fetchPage(ctx context.Context, institution string, page int) (int64, []*domain.Declaration) {
	var (
		total        int64
		declarations []*domain.Declaration
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		total, err = svc.session.Store().CountDeclarations(egCtx, institution)
		if err != nil {
			return fmt.Errorf("count declarations: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		declarations, err = svc.session.Store().ListDeclarationsPage(egCtx, institution, page)
		if err != nil {
			return fmt.Errorf("list declarations page: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		logger.Errorf(ctx, "fetch page %d for %s: %s", page, institution, err.Error())
		return 0, nil
	}

	return total, declarations
}

// State returns a snapshot of the current selection.
func (svc *Service) State() domain.SelectionState {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.state
}

// Busy reports whether a fetch is in flight; callers disable navigation
// actions while it holds.
func (svc *Service) Busy() bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.busy
}

func (svc *Service) regionViewLocked() *RegionView {
	institutions := make([]*domain.InstitutionSummary, len(svc.institutions))
	copy(institutions, svc.institutions)
	return &RegionView{State: svc.state, Institutions: institutions}
}

func (svc *Service) pageViewLocked() *PageView {
	declarations := make([]*domain.Declaration, len(svc.declarations))
	copy(declarations, svc.declarations)
	return &PageView{
		State:        svc.state,
		Declarations: declarations,
		Chart:        projection.ChartPoints(declarations),
		Rows:         projection.TableRows(declarations),
	}
}

func totalPages(total int64) int {
	return int((total + domain.PageSize - 1) / domain.PageSize)
}

func clampPage(page, total int) int {
	if total == 0 {
		return 0
	}
	if page < 0 {
		return 0
	}
	if page > total-1 {
		return total - 1
	}
	return page
}
