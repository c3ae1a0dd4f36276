package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/newslens/internal/common"
	"github.com/ternarybob/newslens/internal/interfaces"
	"github.com/ternarybob/newslens/internal/models"
)

// ReportStorage implements interfaces.ReportStorage on Badger. Reports are
// stored under the normalized company slug so readers and writers agree on
// the key regardless of input casing.
type ReportStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewReportStorage creates a new Badger-backed report storage
func NewReportStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ReportStorage {
	return &ReportStorage{
		db:     db,
		logger: logger,
	}
}

// SaveReport inserts or replaces the report stored under its slug
func (s *ReportStorage) SaveReport(ctx context.Context, report *models.CompanyReport) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}
	if report.Slug == "" {
		report.Slug = common.CompanySlug(report.Company)
	}
	if report.ID == "" {
		report.ID = common.NewReportID()
	}

	now := time.Now().UTC()
	report.UpdatedAt = now

	// Preserve CreatedAt across replacements of the same slug
	var existing models.CompanyReport
	if err := s.db.Store().Get(report.Slug, &existing); err == nil {
		report.CreatedAt = existing.CreatedAt
	} else if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}

	if err := s.db.Store().Upsert(report.Slug, report); err != nil {
		return fmt.Errorf("failed to save report for %s: %w", report.Slug, err)
	}

	s.logger.Debug().
		Str("slug", report.Slug).
		Int("articles", len(report.Articles)).
		Msg("Saved company report")

	return nil
}

// GetReport retrieves the report for a slug
func (s *ReportStorage) GetReport(ctx context.Context, slug string) (*models.CompanyReport, error) {
	var report models.CompanyReport
	err := s.db.Store().Get(slug, &report)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report for %s: %w", slug, err)
	}
	return &report, nil
}

// ListSlugs returns the slugs of all stored reports
func (s *ReportStorage) ListSlugs(ctx context.Context) ([]string, error) {
	var reports []models.CompanyReport
	if err := s.db.Store().Find(&reports, badgerhold.Where("Slug").Ne("").SortBy("UpdatedAt").Reverse()); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	slugs := make([]string, 0, len(reports))
	for _, r := range reports {
		slugs = append(slugs, r.Slug)
	}
	return slugs, nil
}

// DeleteReport removes the report for a slug
func (s *ReportStorage) DeleteReport(ctx context.Context, slug string) error {
	err := s.db.Store().Delete(slug, &models.CompanyReport{})
	if err == badgerhold.ErrNotFound {
		return interfaces.ErrKeyNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete report for %s: %w", slug, err)
	}
	return nil
}

// Ensure ReportStorage implements the interface
var _ interfaces.ReportStorage = (*ReportStorage)(nil)
