package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/terangafund/citizen-projects/internal/core/domain"
	"github.com/terangafund/citizen-projects/internal/core/ports"
)

const collectionProjects = "projects"

type ProjectRepository struct {
	col *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection(collectionProjects)}
}

func (r *ProjectRepository) Insert(ctx context.Context, p *domain.Project) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, p)
	return err
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Project
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List applies the role visibility filter first, then the explicit filters,
// and returns results newest-first.
func (r *ProjectRepository) List(ctx context.Context, f ports.ListProjectsFilter) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var clauses bson.A
	if f.OwnerID != "" {
		clauses = append(clauses, bson.M{"user_id": f.OwnerID})
	}
	if f.OfficialID != "" {
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"status": bson.M{"$in": f.VisibleStatuses}},
			bson.M{"assigned_official_id": f.OfficialID},
		}})
	}
	if f.Status != "" {
		clauses = append(clauses, bson.M{"status": f.Status})
	}
	if f.Category != "" {
		clauses = append(clauses, bson.M{"category": f.Category})
	}
	if f.Search != "" {
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"title": bson.M{"$regex": f.Search, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": f.Search, "$options": "i"}},
		}})
	}

	filter := bson.M{}
	if len(clauses) > 0 {
		filter["$and"] = clauses
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var projects []*domain.Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id string, p ports.ProjectPatch, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": updatedAt}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.FundingRequested != nil {
		set["funding_requested"] = *p.FundingRequested
	}
	if p.StartDate != nil {
		set["start_date"] = *p.StartDate
	}
	if p.DurationMonths != nil {
		set["duration_months"] = *p.DurationMonths
	}
	if p.Objectives != nil {
		set["objectives"] = *p.Objectives
	}
	if p.BudgetBreakdown != nil {
		set["budget_breakdown"] = *p.BudgetBreakdown
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// ApplyStatusChange is the compare-and-swap transition: the filter includes
// the expected current statuses, so a concurrent conflicting transition makes
// this update match nothing instead of double-applying.
func (r *ProjectRepository) ApplyStatusChange(ctx context.Context, id string, ch ports.StatusChange) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"status":     ch.To,
		"updated_at": ch.UpdatedAt,
	}
	if ch.SubmittedAt != nil {
		set["submitted_at"] = *ch.SubmittedAt
	}
	if ch.ValidatedAt != nil {
		set["validated_at"] = *ch.ValidatedAt
	}
	if ch.ApprovedAt != nil {
		set["approved_at"] = *ch.ApprovedAt
	}
	if ch.AssignedOfficialID != nil {
		set["assigned_official_id"] = *ch.AssignedOfficialID
	}
	if ch.RejectionReason != nil {
		set["rejection_reason"] = *ch.RejectionReason
	}
	if ch.DocumentsRequestReason != nil {
		set["documents_request_reason"] = *ch.DocumentsRequestReason
	}

	filter := bson.M{"_id": id, "status": bson.M{"$in": ch.From}}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish "gone" from "lost the race".
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return findErr
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *ProjectRepository) PushDocument(ctx context.Context, id string, doc domain.ProjectDocument, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"documents": doc},
		"$set":  bson.M{"updated_at": updatedAt},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) PullDocument(ctx context.Context, id, documentID string, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"documents": bson.M{"id": documentID}},
		"$set":  bson.M{"updated_at": updatedAt},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) FindAll(ctx context.Context) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var projects []*domain.Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// EnsureIndexes creates the indexes required by the project collection.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
