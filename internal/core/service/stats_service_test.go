package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/terangafund/citizen-projects/internal/core/domain"
)

type stubStatsRepo struct {
	users      int64
	byRole     map[domain.Role]int64
	verified   int64
	projects   int64
	byStatus   map[domain.ProjectStatus]int64
	byCategory map[string]int64
	funding    map[domain.ProjectStatus]float64
	recent     []*domain.Project
}

func newStubStatsRepo() *stubStatsRepo {
	return &stubStatsRepo{
		byRole:     map[domain.Role]int64{},
		byStatus:   map[domain.ProjectStatus]int64{},
		byCategory: map[string]int64{},
		funding:    map[domain.ProjectStatus]float64{},
	}
}

func (r *stubStatsRepo) CountUsers(context.Context) (int64, error)    { return r.users, nil }
func (r *stubStatsRepo) CountProjects(context.Context) (int64, error) { return r.projects, nil }
func (r *stubStatsRepo) CountUsersVerified(context.Context) (int64, error) {
	return r.verified, nil
}

func (r *stubStatsRepo) CountUsersByRole(_ context.Context, role domain.Role) (int64, error) {
	return r.byRole[role], nil
}

func (r *stubStatsRepo) CountProjectsByStatus(context.Context) (map[domain.ProjectStatus]int64, error) {
	out := make(map[domain.ProjectStatus]int64, len(r.byStatus))
	for k, v := range r.byStatus {
		out[k] = v
	}
	return out, nil
}

func (r *stubStatsRepo) CountProjectsByCategory(context.Context) (map[string]int64, error) {
	return r.byCategory, nil
}

func (r *stubStatsRepo) SumFundingByStatus(_ context.Context, status domain.ProjectStatus) (float64, error) {
	return r.funding[status], nil
}

func (r *stubStatsRepo) RecentProjects(_ context.Context, limit int) ([]*domain.Project, error) {
	if limit < len(r.recent) {
		return r.recent[:limit], nil
	}
	return r.recent, nil
}

func TestStatsService_Stats_EmptyPlatform(t *testing.T) {
	svc := NewStatsService(newStubStatsRepo(), newStubProjectRepo(), discardLogger)

	res, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if res.Users.Total != 0 || res.Projects.Total != 0 {
		t.Error("empty platform must report zero counts")
	}
	if res.Funding.Approved != 0 || res.Funding.Pending != 0 {
		t.Error("empty platform must report zero funding")
	}
	// Every lifecycle state appears, even at zero.
	for _, st := range domain.AllStatuses {
		if _, ok := res.Projects.ByStatus[st]; !ok {
			t.Errorf("missing zero bucket for %q", st)
		}
	}
}

func TestStatsService_Stats_Rollups(t *testing.T) {
	repo := newStubStatsRepo()
	repo.users = 10
	repo.byRole[domain.RoleCitizen] = 7
	repo.byRole[domain.RoleOfficial] = 2
	repo.verified = 6
	repo.projects = 4
	repo.byStatus[domain.StatusApproved] = 1
	repo.byStatus[domain.StatusPending] = 3
	repo.byCategory["Agriculture"] = 4
	repo.funding[domain.StatusApproved] = 2_500_000
	repo.funding[domain.StatusPending] = 7_000_000

	svc := NewStatsService(repo, newStubProjectRepo(), discardLogger)
	res, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if res.Users.Citizens != 7 || res.Users.Officials != 2 || res.Users.Verified != 6 {
		t.Errorf("user rollup wrong: %+v", res.Users)
	}
	if res.Projects.ByStatus[domain.StatusPending] != 3 {
		t.Errorf("pending bucket wrong: %d", res.Projects.ByStatus[domain.StatusPending])
	}
	if res.Funding.Approved != 2_500_000 || res.Funding.Pending != 7_000_000 {
		t.Errorf("funding rollup wrong: %+v", res.Funding)
	}
}

func TestStatsService_Export_UnknownFormat(t *testing.T) {
	svc := NewStatsService(newStubStatsRepo(), newStubProjectRepo(), discardLogger)

	if _, err := svc.ExportProjects(context.Background(), "xml"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestStatsService_Export_JSON(t *testing.T) {
	projects := newStubProjectRepo()
	projects.byID["p-1"] = &domain.Project{ID: "p-1", Title: "Maraîchage", Status: domain.StatusDraft}
	svc := NewStatsService(newStubStatsRepo(), projects, discardLogger)

	res, err := svc.ExportProjects(context.Background(), "json")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if res.Filename != "projects_export.json" {
		t.Errorf("filename: %q", res.Filename)
	}
	if len(res.Projects) != 1 {
		t.Errorf("expected 1 project, got %d", len(res.Projects))
	}
	if res.CSV != "" {
		t.Error("json export must not fill the CSV field")
	}
}

func TestStatsService_Export_CSVFlattening(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	projects := newStubProjectRepo()
	projects.byID["p-1"] = &domain.Project{
		ID:               "p-1",
		UserID:           "citizen-1",
		Title:            "Maraîchage, phase 2",
		Category:         "Agriculture",
		FundingRequested: 1_500_000,
		Objectives:       []string{"Emplois", "Autosuffisance"},
		BudgetBreakdown:  map[string]float64{"Semences": 500000, "Irrigation": 1000000},
		Status:           domain.StatusApproved,
		Documents: []domain.ProjectDocument{
			{ID: "d-1", Name: "budget.pdf"},
		},
		CreatedAt:  now,
		UpdatedAt:  now,
		ApprovedAt: &now,
	}
	svc := NewStatsService(newStubStatsRepo(), projects, discardLogger)

	res, err := svc.ExportProjects(context.Background(), "csv")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if res.Filename != "projects_export.csv" {
		t.Errorf("filename: %q", res.Filename)
	}

	lines := strings.Split(strings.TrimSpace(res.CSV), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	row := lines[1]
	// Budget keys flatten in a stable sorted order.
	if !strings.Contains(row, "Irrigation=1000000; Semences=500000") {
		t.Errorf("budget not flattened deterministically: %s", row)
	}
	if !strings.Contains(row, "Emplois; Autosuffisance") {
		t.Errorf("objectives not joined: %s", row)
	}
	if !strings.Contains(row, "budget.pdf") {
		t.Errorf("document names missing: %s", row)
	}
	if !strings.Contains(row, "2026-08-15T12:00:00Z") {
		t.Errorf("timestamps missing: %s", row)
	}
	// Titles with commas stay one cell thanks to quoting.
	if !strings.Contains(row, `"Maraîchage, phase 2"`) {
		t.Errorf("comma-bearing title must be quoted: %s", row)
	}
}
