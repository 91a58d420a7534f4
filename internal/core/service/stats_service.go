package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/terangafund/citizen-projects/internal/core/domain"
	"github.com/terangafund/citizen-projects/internal/core/ports"
)

const recentProjectsLimit = 5

// StatsService produces the admin dashboard rollups and the projects export.
// It is strictly read-only.
type StatsService struct {
	stats    ports.StatsRepository
	projects ports.ProjectRepository
	logger   zerolog.Logger
}

func NewStatsService(stats ports.StatsRepository, projects ports.ProjectRepository, logger zerolog.Logger) *StatsService {
	return &StatsService{stats: stats, projects: projects, logger: logger}
}

// Stats aggregates user, project, and funding rollups. Empty collections
// yield zero counts and sums, never errors.
func (s *StatsService) Stats(ctx context.Context) (*ports.StatsResult, error) {
	totalUsers, err := s.stats.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	citizens, err := s.stats.CountUsersByRole(ctx, domain.RoleCitizen)
	if err != nil {
		return nil, err
	}
	officials, err := s.stats.CountUsersByRole(ctx, domain.RoleOfficial)
	if err != nil {
		return nil, err
	}
	verified, err := s.stats.CountUsersVerified(ctx)
	if err != nil {
		return nil, err
	}

	totalProjects, err := s.stats.CountProjects(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.stats.CountProjectsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	// Every state shows up in the dashboard, including zero buckets.
	for _, st := range domain.AllStatuses {
		if _, ok := byStatus[st]; !ok {
			byStatus[st] = 0
		}
	}
	byCategory, err := s.stats.CountProjectsByCategory(ctx)
	if err != nil {
		return nil, err
	}

	approvedFunding, err := s.stats.SumFundingByStatus(ctx, domain.StatusApproved)
	if err != nil {
		return nil, err
	}
	pendingFunding, err := s.stats.SumFundingByStatus(ctx, domain.StatusPending)
	if err != nil {
		return nil, err
	}

	recent, err := s.stats.RecentProjects(ctx, recentProjectsLimit)
	if err != nil {
		return nil, err
	}

	return &ports.StatsResult{
		Users: ports.UserStats{
			Total:     totalUsers,
			Citizens:  citizens,
			Officials: officials,
			Verified:  verified,
		},
		Projects: ports.ProjectStats{
			Total:      totalProjects,
			ByStatus:   byStatus,
			ByCategory: byCategory,
		},
		Funding: ports.FundingStats{
			Approved: approvedFunding,
			Pending:  pendingFunding,
		},
		RecentProjects: recent,
	}, nil
}

// ExportProjects dumps every project as JSON or flattened CSV.
func (s *StatsService) ExportProjects(ctx context.Context, format string) (*ports.ExportResult, error) {
	switch format {
	case "", "json", "csv":
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", domain.ErrValidation, format)
	}

	projects, err := s.projects.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if format == "csv" {
		data, err := projectsCSV(projects)
		if err != nil {
			return nil, err
		}
		return &ports.ExportResult{Filename: "projects_export.csv", CSV: data}, nil
	}
	return &ports.ExportResult{Filename: "projects_export.json", Projects: projects}, nil
}

var csvHeader = []string{
	"id", "user_id", "title", "description", "category", "funding_requested",
	"start_date", "duration_months", "objectives", "budget_breakdown",
	"location", "status", "documents", "rejection_reason",
	"documents_request_reason", "assigned_official_id",
	"created_at", "updated_at", "submitted_at", "validated_at", "approved_at",
}

// projectsCSV flattens nested fields (objectives, budget, documents) into
// single cells, one project per row.
func projectsCSV(projects []*domain.Project) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, p := range projects {
		row := []string{
			p.ID,
			p.UserID,
			p.Title,
			p.Description,
			p.Category,
			strconv.FormatFloat(p.FundingRequested, 'f', -1, 64),
			p.StartDate,
			strconv.Itoa(p.DurationMonths),
			strings.Join(p.Objectives, "; "),
			flattenBudget(p.BudgetBreakdown),
			p.Location,
			string(p.Status),
			flattenDocuments(p.Documents),
			p.RejectionReason,
			p.DocumentsRequestReason,
			p.AssignedOfficialID,
			p.CreatedAt.Format("2006-01-02T15:04:05Z"),
			p.UpdatedAt.Format("2006-01-02T15:04:05Z"),
			formatOptionalTime(p.SubmittedAt),
			formatOptionalTime(p.ValidatedAt),
			formatOptionalTime(p.ApprovedAt),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func flattenBudget(b map[string]float64) string {
	if len(b) == 0 {
		return ""
	}
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, strconv.FormatFloat(b[k], 'f', -1, 64)))
	}
	return strings.Join(parts, "; ")
}

func flattenDocuments(docs []domain.ProjectDocument) string {
	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d.Name)
	}
	return strings.Join(names, "; ")
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02T15:04:05Z")
}
