package intake

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/damagelog/internal/config"
	"github.com/mamadbah2/damagelog/internal/domain/models"
	repo "github.com/mamadbah2/damagelog/internal/repository/sheets"
)

// InvalidSubmissionError reports a missing required field.
type InvalidSubmissionError struct {
	Reason string
}

func (e *InvalidSubmissionError) Error() string {
	return "invalid submission: " + e.Reason
}

// Archive stores accepted submissions outside the spreadsheet.
type Archive interface {
	SaveSubmission(ctx context.Context, record models.SubmissionRecord) error
}

// Notifier announces accepted submissions.
type Notifier interface {
	NotifySubmission(ctx context.Context, record models.SubmissionRecord) error
}

// Option customizes a Service.
type Option func(*Service)

// WithArchive mirrors accepted submissions into the given archive.
func WithArchive(a Archive) Option {
	return func(s *Service) { s.archive = a }
}

// WithNotifier announces accepted submissions through n.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// Service implements the intake endpoint over a spreadsheet: it serves the
// site list and appends damage reports.
type Service struct {
	repo             repo.Repository
	archive          Archive
	notifier         Notifier
	sitesRange       string
	submissionsRange string
	logger           *zap.Logger
	now              func() time.Time

	mu     sync.RWMutex
	sites  []string
	loaded bool
}

// NewService wires a new intake service instance.
func NewService(repository repo.Repository, cfg config.IntakeConfig, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		repo:             repository,
		sitesRange:       cfg.SitesRange,
		submissionsRange: cfg.SubmissionsRange,
		logger:           logger,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sites returns the cached site list, loading it on first use.
func (s *Service) Sites(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	if s.loaded {
		out := append([]string(nil), s.sites...)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	return s.RefreshSites(ctx)
}

// RefreshSites reloads the site list from the sheet, keeping sheet order and
// dropping blank cells. On failure the previous cache is kept.
func (s *Service) RefreshSites(ctx context.Context) ([]string, error) {
	rows, err := s.repo.ReadRange(ctx, s.sitesRange)
	if err != nil {
		return nil, fmt.Errorf("load sites range: %w", err)
	}

	sites := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(fmt.Sprint(row[0]))
		if name == "" {
			continue
		}
		sites = append(sites, name)
	}

	s.mu.Lock()
	s.sites = sites
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("site list refreshed", zap.Int("sites", len(sites)))
	return append([]string(nil), sites...), nil
}

// Submit records one damage report. Every module with a serial becomes one
// sheet row, appended in a single call. Archive and notification run after the
// append and never change the outcome.
func (s *Service) Submit(ctx context.Context, sub models.Submission) (models.SubmissionRecord, error) {
	sub = normalize(sub)
	if err := validate(sub); err != nil {
		return models.SubmissionRecord{}, err
	}

	receivedAt := s.now().UTC()
	stamp := receivedAt.Format(time.RFC3339)

	rows := make([][]interface{}, 0, len(sub.Modules))
	for _, m := range sub.Modules {
		if m.Serial == "" {
			continue
		}
		rows = append(rows, []interface{}{
			stamp,
			cellText(sub.Site),
			cellText(sub.Pallet),
			cellText(m.Serial),
			cellText(m.Damage),
			m.DateReceiving,
			cellText(sub.Engineer),
		})
	}

	if err := s.repo.AppendRows(ctx, s.submissionsRange, rows); err != nil {
		return models.SubmissionRecord{}, fmt.Errorf("record submission: %w", err)
	}

	record := models.SubmissionRecord{
		Site:       sub.Site,
		Pallet:     sub.Pallet,
		Engineer:   sub.Engineer,
		Modules:    sub.Modules,
		RowCount:   len(rows),
		ReceivedAt: receivedAt,
	}

	s.logger.Info("submission recorded",
		zap.String("site", record.Site),
		zap.String("pallet", record.Pallet),
		zap.Int("rows", record.RowCount))

	if s.archive != nil {
		if err := s.archive.SaveSubmission(ctx, record); err != nil {
			s.logger.Warn("failed to archive submission", zap.String("pallet", record.Pallet), zap.Error(err))
		}
	}
	if s.notifier != nil {
		if err := s.notifier.NotifySubmission(ctx, record); err != nil {
			s.logger.Warn("failed to notify submission", zap.String("pallet", record.Pallet), zap.Error(err))
		}
	}

	return record, nil
}

func normalize(sub models.Submission) models.Submission {
	out := models.Submission{
		Site:     strings.TrimSpace(sub.Site),
		Pallet:   strings.TrimSpace(sub.Pallet),
		Engineer: strings.TrimSpace(sub.Engineer),
		Modules:  make([]models.ModuleEntry, 0, len(sub.Modules)),
	}
	for _, m := range sub.Modules {
		out.Modules = append(out.Modules, models.ModuleEntry{
			Serial:        strings.TrimSpace(m.Serial),
			Damage:        strings.TrimSpace(m.Damage),
			DateReceiving: strings.TrimSpace(m.DateReceiving),
		})
	}
	return out
}

func validate(sub models.Submission) error {
	switch {
	case sub.Site == "":
		return &InvalidSubmissionError{Reason: "site is required"}
	case sub.Pallet == "":
		return &InvalidSubmissionError{Reason: "pallet is required"}
	case sub.Engineer == "":
		return &InvalidSubmissionError{Reason: "engineer is required"}
	}
	for _, m := range sub.Modules {
		if m.Serial != "" {
			return nil
		}
	}
	return &InvalidSubmissionError{Reason: "at least one module serial is required"}
}

// cellText keeps user text from being parsed as a formula by USER_ENTERED.
func cellText(v string) string {
	if v == "" {
		return v
	}
	switch v[0] {
	case '=', '+', '-', '@':
		return "'" + v
	}
	return v
}
