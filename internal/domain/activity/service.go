package activity

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"time"
)

// Service handles the user-visible activity log.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// SetClock overrides the wall clock, for tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// LogAction appends a timestamped entry, dropping the oldest entries
// once the cap is reached. Logging never fails the triggering
// mutation; persistence errors are only logged.
func (s *Service) LogAction(ctx context.Context, action string) {
	entries, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error("loading activity log", "error", err)
		entries = nil
	}
	entries = append(entries, Entry{
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Action:    action,
	})
	if len(entries) > MaxEntries {
		entries = entries[len(entries)-MaxEntries:]
	}
	if err := s.repo.Save(ctx, entries); err != nil {
		s.logger.Error("saving activity log", "error", err)
	}
}

// List returns all log entries, oldest first.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	entries, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading activity log: %w", err)
	}
	return entries, nil
}

// ExportCSV renders the log as RFC 4180 CSV with a Timestamp,Action
// header and returns the artifact with its dated filename. Exporting
// an empty log is an error.
func (s *Service) ExportCSV(ctx context.Context) (string, []byte, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return "", nil, err
	}
	if len(entries) == 0 {
		return "", nil, ErrEmptyLog
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Timestamp", "Action"}); err != nil {
		return "", nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, e := range entries {
		if err := w.Write([]string{e.Timestamp, e.Action}); err != nil {
			return "", nil, fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, fmt.Errorf("flushing csv: %w", err)
	}

	filename := fmt.Sprintf("log_de_actividad_%s.csv", s.now().Format("2006-01-02"))
	return filename, buf.Bytes(), nil
}
