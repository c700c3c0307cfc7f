package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/escolaware/escola-api/internal/models"
	appErrors "github.com/escolaware/escola-api/pkg/errors"
)

type mockStatsRepo struct {
	tableCounts  map[string]int
	byRole       []models.RoleCount
	topSchools   []models.SchoolUserCount
	schoolCounts map[string]int
	calls        int
}

func (m *mockStatsRepo) CountTable(ctx context.Context, table string) (int, error) {
	m.calls++
	count, ok := m.tableCounts[table]
	if !ok {
		return 0, fmt.Errorf("unexpected table %q", table)
	}
	return count, nil
}

func (m *mockStatsRepo) CountUsersByRole(ctx context.Context) ([]models.RoleCount, error) {
	return m.byRole, nil
}

func (m *mockStatsRepo) TopSchoolsByUsers(ctx context.Context, n int) ([]models.SchoolUserCount, error) {
	if n < len(m.topSchools) {
		return m.topSchools[:n], nil
	}
	return m.topSchools, nil
}

func (m *mockStatsRepo) CountUsersBySchool(ctx context.Context, schoolID int64) (int, error) {
	return m.schoolCounts["users"], nil
}

func (m *mockStatsRepo) CountEnrollmentsBySchool(ctx context.Context, schoolID int64) (int, error) {
	return m.schoolCounts["enrollments"], nil
}

func (m *mockStatsRepo) CountClassesBySchool(ctx context.Context, schoolID int64) (int, error) {
	return m.schoolCounts["classes"], nil
}

type mockRecentLister struct {
	recent   []models.EnrollmentDetail
	bySchool []models.EnrollmentDetail
	lastN    int
}

func (m *mockRecentLister) ListRecent(ctx context.Context, n int) ([]models.EnrollmentDetail, error) {
	m.lastN = n
	if n < len(m.recent) {
		return m.recent[:n], nil
	}
	return m.recent, nil
}

func (m *mockRecentLister) ListBySchool(ctx context.Context, schoolID int64) ([]models.EnrollmentDetail, error) {
	return m.bySchool, nil
}

type mockSchoolFinder struct {
	known map[int64]bool
}

func (m *mockSchoolFinder) FindByID(ctx context.Context, id int64) (*models.School, error) {
	if m.known[id] {
		return &models.School{ID: id, Name: "Escola Central"}, nil
	}
	return nil, sql.ErrNoRows
}

type mockErrorLogLister struct {
	logs  []models.ErrorLog
	lastN int
}

func (m *mockErrorLogLister) ListRecent(ctx context.Context, n int) ([]models.ErrorLog, error) {
	m.lastN = n
	if n < len(m.logs) {
		return m.logs[:n], nil
	}
	return m.logs, nil
}

func TestDashboardServiceGlobalStats(t *testing.T) {
	stats := &mockStatsRepo{
		tableCounts: map[string]int{
			"users": 12, "schools": 2, "enrollments": 9,
			"courses": 4, "classes": 3, "audio_assets": 6,
		},
		byRole: []models.RoleCount{
			{Role: models.RoleStudent, Count: 9},
			{Role: models.RoleTeacher, Count: 3},
		},
		topSchools: []models.SchoolUserCount{
			{SchoolID: 1, SchoolName: "Escola Central", UserCount: 8},
		},
	}
	enrollments := &mockRecentLister{recent: []models.EnrollmentDetail{
		{Enrollment: models.Enrollment{ID: 9}},
		{Enrollment: models.Enrollment{ID: 8}},
	}}
	service := NewDashboardService(stats, enrollments, &mockSchoolFinder{}, &mockErrorLogLister{}, zap.NewNop())

	result, err := service.GlobalStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, result.Users)
	assert.Equal(t, 9, result.Enrollments)
	assert.Equal(t, 6, result.AudioAssets)
	assert.Len(t, result.UsersByRole, 2)
	assert.Len(t, result.RecentEnrollments, 2)
	assert.Equal(t, 5, enrollments.lastN)
	assert.Len(t, result.TopSchools, 1)
	// one count query per entity table
	assert.Equal(t, 6, stats.calls)
}

func TestDashboardServiceSchoolStats(t *testing.T) {
	stats := &mockStatsRepo{schoolCounts: map[string]int{"users": 8, "enrollments": 5, "classes": 2}}
	enrollments := &mockRecentLister{bySchool: []models.EnrollmentDetail{
		{Enrollment: models.Enrollment{ID: 1}},
	}}
	schools := &mockSchoolFinder{known: map[int64]bool{1: true}}
	service := NewDashboardService(stats, enrollments, schools, &mockErrorLogLister{}, zap.NewNop())

	result, err := service.SchoolStats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.SchoolID)
	assert.Equal(t, 8, result.Users)
	assert.Equal(t, 5, result.Enrollments)
	assert.Equal(t, 2, result.Classes)
	assert.Len(t, result.Roster, 1)
}

func TestDashboardServiceSchoolStatsUnknownSchool(t *testing.T) {
	service := NewDashboardService(&mockStatsRepo{}, &mockRecentLister{}, &mockSchoolFinder{}, &mockErrorLogLister{}, zap.NewNop())

	_, err := service.SchoolStats(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestDashboardServiceRecentErrors(t *testing.T) {
	errorLogs := &mockErrorLogLister{logs: []models.ErrorLog{
		{ID: 2, Route: "/api/users/99", Status: 404, Message: "user not found"},
		{ID: 1, Route: "/api/escolas", Status: 500, Message: "internal server error"},
	}}
	service := NewDashboardService(&mockStatsRepo{}, &mockRecentLister{}, &mockSchoolFinder{}, errorLogs, zap.NewNop())

	logs, err := service.RecentErrors(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
	// zero limit falls back to the default
	assert.Equal(t, 20, errorLogs.lastN)

	_, err = service.RecentErrors(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, 100, errorLogs.lastN)
}
