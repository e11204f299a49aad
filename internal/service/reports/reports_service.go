// Package reports keeps the community-report log synchronized between the
// durable local store and the engine's session-scoped table.
package reports

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/declaradash/declaradash/internal/domain"
	"github.com/declaradash/declaradash/internal/pkg/constants"
	"github.com/declaradash/declaradash/internal/pkg/logger"
	"github.com/declaradash/declaradash/internal/service/auth"
	"github.com/declaradash/declaradash/internal/service/session"
	"github.com/google/uuid"
)

type Service struct {
	session     *session.Service
	submitDelay time.Duration

	mu      sync.Mutex
	reports []*domain.CitizenReport
}

func NewService(sessionService *session.Service, submitDelay time.Duration) *Service {
	return &Service{session: sessionService, submitDelay: submitDelay}
}

// Submit files a new citizen report against a declaration. Requires an
// authenticated user; the check runs before any store mutation. The durable
// write and the engine mirror are a best-effort pair, not a transaction:
// a mirror failure is logged as divergence and surfaced to the caller.
func (svc *Service) Submit(ctx context.Context, subjectName, institution, reason string) (*domain.CitizenReport, error) {
	user, ok := auth.UserFrom(ctx)
	if !ok {
		return nil, constants.ErrUnauthorized
	}
	if err := svc.session.Ready(); err != nil {
		return nil, err
	}

	if svc.submitDelay > 0 {
		select {
		case <-time.After(svc.submitDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	report := &domain.CitizenReport{
		ID:          uuid.NewString(),
		SubjectName: subjectName,
		Institution: institution,
		Reason:      reason,
		CreatedAt:   time.Now().UTC(),
		UserID:      user.ID,
		UserEmail:   user.Email,
	}

	if err := svc.session.Local().AppendReport(report); err != nil {
		return nil, fmt.Errorf("append to durable log: %w", err)
	}
	if err := svc.session.Store().InsertReport(ctx, report); err != nil {
		logger.Errorf(ctx, "report stores diverge: %s is durable but missing from engine: %s", report.ID, err.Error())
		return nil, fmt.Errorf("mirror into engine table: %w", err)
	}

	if _, err := svc.Refresh(ctx); err != nil {
		logger.Errorf(ctx, "refresh after submit: %s", err.Error())
	}

	return report, nil
}

// Upvote increments a report's count once per installation. A repeat vote is
// a no-op. The engine update, durable-log mirror, and voted-set record are
// sequential and non-atomic.
func (svc *Service) Upvote(ctx context.Context, id string) error {
	if !auth.IsSignedIn(ctx) {
		return constants.ErrUnauthorized
	}
	if err := svc.session.Ready(); err != nil {
		return err
	}

	if svc.session.Local().HasVoted(id) {
		return nil
	}

	if err := svc.session.Store().UpvoteReport(ctx, id); err != nil {
		return fmt.Errorf("upvote in engine: %w", err)
	}
	if err := svc.session.Local().IncrementUpvote(id); err != nil {
		logger.Errorf(ctx, "report stores diverge: upvote for %s not mirrored durably: %s", id, err.Error())
		return fmt.Errorf("mirror upvote: %w", err)
	}
	if err := svc.session.Local().RecordVote(id); err != nil {
		return fmt.Errorf("record vote: %w", err)
	}

	if _, err := svc.Refresh(ctx); err != nil {
		logger.Errorf(ctx, "refresh after upvote: %s", err.Error())
	}

	return nil
}

// Refresh re-runs the listing query and replaces the in-memory collection.
func (svc *Service) Refresh(ctx context.Context) ([]*domain.CitizenReport, error) {
	if err := svc.session.Ready(); err != nil {
		return nil, err
	}

	listed, err := svc.session.Store().ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	svc.mu.Lock()
	svc.reports = listed
	svc.mu.Unlock()

	return svc.Reports(), nil
}

// Reports returns the last refreshed collection.
func (svc *Service) Reports() []*domain.CitizenReport {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	reports := make([]*domain.CitizenReport, len(svc.reports))
	copy(reports, svc.reports)
	return reports
}

// Stats partitions the current collection into validated (upvoted) and
// pending reports. Purely derived, never persisted.
func (svc *Service) Stats() domain.CommunityStats {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	var stats domain.CommunityStats
	for _, report := range svc.reports {
		if report.Upvotes > 0 {
			stats.Validated++
		} else {
			stats.Pending++
		}
	}
	return stats
}

// HasVoted reports whether this installation already voted for a report.
func (svc *Service) HasVoted(id string) bool {
	return svc.session.Local().HasVoted(id)
}
