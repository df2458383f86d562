package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tickethub/ticketing-system/internal/core/domain"
)

const projectCollection = "projects"

type MongoProjectRepository struct {
	coll *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *MongoProjectRepository {
	return &MongoProjectRepository{coll: db.Collection(projectCollection)}
}

type mongoProject struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	ProjectCode     string             `bson:"project_code"`
	ProjectName     string             `bson:"project_name"`
	AssignedManager string             `bson:"assigned_manager"`
	StartDate       int64              `bson:"start_date"`
	EndDate         int64              `bson:"end_date"`
	ProjectDetail   string             `bson:"project_detail"`
	Status          string             `bson:"status"`
	IsDeleted       bool               `bson:"is_deleted"`
}

func (r *MongoProjectRepository) FindActiveByCode(ctx context.Context, projectCode string) (*domain.Project, error) {
	var mp mongoProject
	filter := bson.M{"project_code": projectCode, "is_deleted": false}
	if err := r.coll.FindOne(ctx, filter).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return mp.toDomain(), nil
}

// Save inserts when the project has no id yet, otherwise replaces the
// stored document by id, so a tombstoned code still hits the original
// record.
func (r *MongoProjectRepository) Save(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	doc := fromDomainProject(project)

	if project.ID == "" {
		res, err := r.coll.InsertOne(ctx, doc)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrProjectExists
			}
			return nil, fmt.Errorf("insert project: %w", err)
		}
		doc.ID = res.InsertedID.(primitive.ObjectID)
		return doc.toDomain(), nil
	}

	oid, err := primitive.ObjectIDFromHex(project.ID)
	if err != nil {
		return nil, domain.ErrProjectNotFound
	}
	doc.ID = oid
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrProjectExists
		}
		return nil, fmt.Errorf("save project: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrProjectNotFound
	}
	return doc.toDomain(), nil
}

func (r *MongoProjectRepository) ListActive(ctx context.Context) ([]*domain.Project, error) {
	return r.list(ctx, bson.M{"is_deleted": false})
}

func (r *MongoProjectRepository) ListActiveByManager(ctx context.Context, username string) ([]*domain.Project, error) {
	return r.list(ctx, bson.M{"is_deleted": false, "assigned_manager": username})
}

func (r *MongoProjectRepository) ListNonCompletedByManager(ctx context.Context, username string) ([]*domain.Project, error) {
	return r.list(ctx, nonCompletedByManager(username))
}

func (r *MongoProjectRepository) CountNonCompletedByManager(ctx context.Context, username string) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, nonCompletedByManager(username))
	if err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return count, nil
}

func nonCompletedByManager(username string) bson.M {
	return bson.M{
		"is_deleted":       false,
		"assigned_manager": username,
		"status":           bson.M{"$ne": string(domain.StatusComplete)},
	}
}

func (r *MongoProjectRepository) list(ctx context.Context, filter bson.M) ([]*domain.Project, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []*domain.Project
	for cursor.Next(ctx) {
		var mp mongoProject
		if err := cursor.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode project: %w", err)
		}
		projects = append(projects, mp.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func fromDomainProject(p *domain.Project) *mongoProject {
	return &mongoProject{
		ProjectCode:     p.ProjectCode,
		ProjectName:     p.ProjectName,
		AssignedManager: p.AssignedManager,
		StartDate:       p.StartDate.Unix(),
		EndDate:         p.EndDate.Unix(),
		ProjectDetail:   p.ProjectDetail,
		Status:          string(p.Status),
		IsDeleted:       p.IsDeleted,
	}
}

func (mp *mongoProject) toDomain() *domain.Project {
	return &domain.Project{
		ID:              mp.ID.Hex(),
		ProjectCode:     mp.ProjectCode,
		ProjectName:     mp.ProjectName,
		AssignedManager: mp.AssignedManager,
		StartDate:       unixToTime(mp.StartDate),
		EndDate:         unixToTime(mp.EndDate),
		ProjectDetail:   mp.ProjectDetail,
		Status:          domain.Status(mp.Status),
		IsDeleted:       mp.IsDeleted,
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
