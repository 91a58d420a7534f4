package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/terangafund/citizen-projects/internal/core/domain"
)

// StatsRepository runs the dashboard rollups against the live collections.
// Volumes are small enough that counting on demand beats maintaining
// materialized counters.
type StatsRepository struct {
	users    *mongo.Collection
	projects *mongo.Collection
}

func NewStatsRepository(db *mongo.Database) *StatsRepository {
	return &StatsRepository{
		users:    db.Collection(collectionUsers),
		projects: db.Collection(collectionProjects),
	}
}

func (r *StatsRepository) CountUsers(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.users.CountDocuments(ctx, bson.M{})
}

func (r *StatsRepository) CountUsersByRole(ctx context.Context, role domain.Role) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.users.CountDocuments(ctx, bson.M{"role": role})
}

func (r *StatsRepository) CountUsersVerified(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.users.CountDocuments(ctx, bson.M{"is_verified": true})
}

func (r *StatsRepository) CountProjects(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.projects.CountDocuments(ctx, bson.M{})
}

func (r *StatsRepository) CountProjectsByStatus(ctx context.Context) (map[domain.ProjectStatus]int64, error) {
	grouped, err := r.groupProjects(ctx, "$status")
	if err != nil {
		return nil, err
	}
	out := make(map[domain.ProjectStatus]int64, len(grouped))
	for k, v := range grouped {
		out[domain.ProjectStatus(k)] = v
	}
	return out, nil
}

func (r *StatsRepository) CountProjectsByCategory(ctx context.Context) (map[string]int64, error) {
	return r.groupProjects(ctx, "$category")
}

func (r *StatsRepository) SumFundingByStatus(ctx context.Context, status domain.ProjectStatus) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": status}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$funding_requested"},
		}}},
	}
	cur, err := r.projects.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

func (r *StatsRepository) RecentProjects(ctx context.Context, limit int) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.projects.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var projects []*domain.Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *StatsRepository) groupProjects(ctx context.Context, field string) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   field,
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := r.projects.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var results []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &results); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(results))
	for _, res := range results {
		out[res.ID] = res.Count
	}
	return out, nil
}
