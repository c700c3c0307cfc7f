package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/escolaware/escola-api/internal/models"
	appErrors "github.com/escolaware/escola-api/pkg/errors"
)

type statsRepository interface {
	CountTable(ctx context.Context, table string) (int, error)
	CountUsersByRole(ctx context.Context) ([]models.RoleCount, error)
	TopSchoolsByUsers(ctx context.Context, n int) ([]models.SchoolUserCount, error)
	CountUsersBySchool(ctx context.Context, schoolID int64) (int, error)
	CountEnrollmentsBySchool(ctx context.Context, schoolID int64) (int, error)
	CountClassesBySchool(ctx context.Context, schoolID int64) (int, error)
}

type recentEnrollmentLister interface {
	ListRecent(ctx context.Context, n int) ([]models.EnrollmentDetail, error)
	ListBySchool(ctx context.Context, schoolID int64) ([]models.EnrollmentDetail, error)
}

type schoolFinder interface {
	FindByID(ctx context.Context, id int64) (*models.School, error)
}

type errorLogLister interface {
	ListRecent(ctx context.Context, n int) ([]models.ErrorLog, error)
}

const (
	recentEnrollmentsLimit = 5
	topSchoolsLimit        = 5

	defaultErrorLogLimit = 20
	maxErrorLogLimit     = 100
)

// DashboardService composes the summary views. Every call recomputes from
// the database; there is no cache layer.
type DashboardService struct {
	stats       statsRepository
	enrollments recentEnrollmentLister
	schools     schoolFinder
	errorLogs   errorLogLister
	logger      *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(stats statsRepository, enrollments recentEnrollmentLister, schools schoolFinder, errorLogs errorLogLister, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{stats: stats, enrollments: enrollments, schools: schools, errorLogs: errorLogs, logger: logger}
}

// GlobalStats returns totals across all entities, users grouped by role,
// the most recent enrollments and the schools with the most users.
func (s *DashboardService) GlobalStats(ctx context.Context) (*models.GlobalStats, error) {
	stats := &models.GlobalStats{}

	counts := []struct {
		table string
		dest  *int
	}{
		{"users", &stats.Users},
		{"schools", &stats.Schools},
		{"enrollments", &stats.Enrollments},
		{"courses", &stats.Courses},
		{"classes", &stats.Classes},
		{"audio_assets", &stats.AudioAssets},
	}
	for _, c := range counts {
		count, err := s.stats.CountTable(ctx, c.table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count "+c.table)
		}
		*c.dest = count
	}

	byRole, err := s.stats.CountUsersByRole(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to group users by role")
	}
	stats.UsersByRole = byRole

	recent, err := s.enrollments.ListRecent(ctx, recentEnrollmentsLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent enrollments")
	}
	stats.RecentEnrollments = recent

	top, err := s.stats.TopSchoolsByUsers(ctx, topSchoolsLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to rank schools")
	}
	stats.TopSchools = top

	return stats, nil
}

// SchoolStats returns counts scoped to one school plus its full enrollment
// roster.
func (s *DashboardService) SchoolStats(ctx context.Context, schoolID int64) (*models.SchoolStats, error) {
	if _, err := s.schools.FindByID(ctx, schoolID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school")
	}

	stats := &models.SchoolStats{SchoolID: schoolID}

	users, err := s.stats.CountUsersBySchool(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count school users")
	}
	stats.Users = users

	enrollments, err := s.stats.CountEnrollmentsBySchool(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count school enrollments")
	}
	stats.Enrollments = enrollments

	classes, err := s.stats.CountClassesBySchool(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count school classes")
	}
	stats.Classes = classes

	roster, err := s.enrollments.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school roster")
	}
	stats.Roster = roster

	return stats, nil
}

// RecentErrors returns the latest diagnostic records for the admin panel.
// A non-positive limit falls back to the default; oversized limits are
// capped.
func (s *DashboardService) RecentErrors(ctx context.Context, limit int) ([]models.ErrorLog, error) {
	if limit <= 0 {
		limit = defaultErrorLogLimit
	}
	if limit > maxErrorLogLimit {
		limit = maxErrorLogLimit
	}

	logs, err := s.errorLogs.ListRecent(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load error log")
	}
	return logs, nil
}
