package ports

import (
	"context"

	"github.com/terangafund/citizen-projects/internal/core/domain"
)

// StatsRepository provides the read-only rollups behind the admin dashboard.
// All counts and sums must tolerate empty collections (zero, not an error).
type StatsRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountUsersByRole(ctx context.Context, role domain.Role) (int64, error)
	CountUsersVerified(ctx context.Context) (int64, error)
	CountProjects(ctx context.Context) (int64, error)
	CountProjectsByStatus(ctx context.Context) (map[domain.ProjectStatus]int64, error)
	CountProjectsByCategory(ctx context.Context) (map[string]int64, error)
	SumFundingByStatus(ctx context.Context, status domain.ProjectStatus) (float64, error)
	RecentProjects(ctx context.Context, limit int) ([]*domain.Project, error)
}

// UserStats summarizes the user collection.
type UserStats struct {
	Total     int64 `json:"total"`
	Citizens  int64 `json:"citizens"`
	Officials int64 `json:"officials"`
	Verified  int64 `json:"verified"`
}

// ProjectStats summarizes the project collection.
type ProjectStats struct {
	Total      int64                          `json:"total"`
	ByStatus   map[domain.ProjectStatus]int64 `json:"by_status"`
	ByCategory map[string]int64               `json:"by_category"`
}

// FundingStats sums funding_requested over lifecycle buckets.
type FundingStats struct {
	Approved float64 `json:"approved"`
	Pending  float64 `json:"pending"`
}

// StatsResult is the admin dashboard payload.
type StatsResult struct {
	Users          UserStats         `json:"users"`
	Projects       ProjectStats      `json:"projects"`
	Funding        FundingStats      `json:"funding"`
	RecentProjects []*domain.Project `json:"recent_projects"`
}

// ExportResult is a projects dump in the requested format.
type ExportResult struct {
	Filename string
	// Projects is set for JSON exports.
	Projects []*domain.Project
	// CSV is set for CSV exports (flattened rows).
	CSV string
}

// StatsService exposes admin statistics and export.
type StatsService interface {
	Stats(ctx context.Context) (*StatsResult, error)
	// ExportProjects dumps all projects; format is "json" or "csv".
	ExportProjects(ctx context.Context, format string) (*ExportResult, error)
}
