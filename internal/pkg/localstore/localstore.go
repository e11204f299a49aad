// Package localstore is the durable browser-storage analogue: JSON-serialized
// collections that survive restarts, distinct from the session-scoped engine
// table rebuilt from them.
package localstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/declaradash/declaradash/internal/domain"
	"github.com/declaradash/declaradash/internal/pkg/constants"
)

type fileData struct {
	Reports        []*domain.CitizenReport `json:"reports"`
	VotedReportIDs []string                `json:"voted_report_ids"`
}

// Store owns the durable report log and the voted-set for this installation.
// Mutations rewrite the backing file atomically.
type Store struct {
	path string

	mu   sync.Mutex
	data fileData
}

func Open(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read local store: %w", err)
	}

	if err := sonic.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("unmarshal local store: %w", err)
	}

	return s, nil
}

// Reports returns a copy of the durable report log.
func (s *Store) Reports() []*domain.CitizenReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports := make([]*domain.CitizenReport, len(s.data.Reports))
	for i, r := range s.data.Reports {
		copied := *r
		reports[i] = &copied
	}
	return reports
}

func (s *Store) CountReports() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.Reports)
}

func (s *Store) AppendReport(report *domain.CitizenReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *report
	s.data.Reports = append(s.data.Reports, &copied)
	if err := s.persistLocked(); err != nil {
		s.data.Reports = s.data.Reports[:len(s.data.Reports)-1]
		return err
	}
	return nil
}

// IncrementUpvote mirrors an engine-side upvote into the durable copy.
func (s *Store) IncrementUpvote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.data.Reports {
		if r.ID == id {
			r.Upvotes++
			if err := s.persistLocked(); err != nil {
				r.Upvotes--
				return err
			}
			return nil
		}
	}
	return constants.ErrDBNotFound
}

func (s *Store) HasVoted(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, voted := range s.data.VotedReportIDs {
		if voted == id {
			return true
		}
	}
	return false
}

func (s *Store) RecordVote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, voted := range s.data.VotedReportIDs {
		if voted == id {
			return nil
		}
	}

	s.data.VotedReportIDs = append(s.data.VotedReportIDs, id)
	if err := s.persistLocked(); err != nil {
		s.data.VotedReportIDs = s.data.VotedReportIDs[:len(s.data.VotedReportIDs)-1]
		return err
	}
	return nil
}

func (s *Store) persistLocked() error {
	raw, err := sonic.Marshal(&s.data)
	if err != nil {
		return fmt.Errorf("marshal local store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create local store dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write local store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace local store: %w", err)
	}

	return nil
}
