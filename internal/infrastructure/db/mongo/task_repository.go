package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tickethub/ticketing-system/internal/core/domain"
)

const taskCollection = "tasks"

type MongoTaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{coll: db.Collection(taskCollection)}
}

type mongoTask struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	ProjectCode      string             `bson:"project_code"`
	Subject          string             `bson:"subject"`
	Detail           string             `bson:"detail"`
	AssignedEmployee string             `bson:"assigned_employee"`
	AssignedDate     int64              `bson:"assigned_date"`
	Status           string             `bson:"status"`
	IsDeleted        bool               `bson:"is_deleted"`
}

func (r *MongoTaskRepository) FindActiveByID(ctx context.Context, id string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	var mt mongoTask
	filter := bson.M{"_id": oid, "is_deleted": false}
	if err := r.coll.FindOne(ctx, filter).Decode(&mt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return mt.toDomain(), nil
}

// Save inserts when the task has no id yet, otherwise replaces the document.
func (r *MongoTaskRepository) Save(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	doc := fromDomainTask(task)

	if task.ID == "" {
		res, err := r.coll.InsertOne(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("insert task: %w", err)
		}
		doc.ID = res.InsertedID.(primitive.ObjectID)
		return doc.toDomain(), nil
	}

	oid, err := primitive.ObjectIDFromHex(task.ID)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}
	doc.ID = oid
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoTaskRepository) ListActive(ctx context.Context) ([]*domain.Task, error) {
	return r.list(ctx, bson.M{"is_deleted": false})
}

func (r *MongoTaskRepository) ListActiveByStatus(ctx context.Context, status domain.Status) ([]*domain.Task, error) {
	return r.list(ctx, bson.M{"is_deleted": false, "status": string(status)})
}

func (r *MongoTaskRepository) ListActiveByStatusNot(ctx context.Context, status domain.Status) ([]*domain.Task, error) {
	return r.list(ctx, bson.M{"is_deleted": false, "status": bson.M{"$ne": string(status)}})
}

func (r *MongoTaskRepository) ListActiveByProjectCode(ctx context.Context, projectCode string) ([]*domain.Task, error) {
	return r.list(ctx, bson.M{"is_deleted": false, "project_code": projectCode})
}

func (r *MongoTaskRepository) ListNonCompletedByEmployee(ctx context.Context, username string) ([]*domain.Task, error) {
	return r.list(ctx, bson.M{
		"is_deleted":        false,
		"assigned_employee": username,
		"status":            bson.M{"$ne": string(domain.StatusComplete)},
	})
}

func (r *MongoTaskRepository) list(ctx context.Context, filter bson.M) ([]*domain.Task, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []*domain.Task
	for cursor.Next(ctx) {
		var mt mongoTask
		if err := cursor.Decode(&mt); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, mt.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func fromDomainTask(t *domain.Task) *mongoTask {
	return &mongoTask{
		ProjectCode:      t.ProjectCode,
		Subject:          t.Subject,
		Detail:           t.Detail,
		AssignedEmployee: t.AssignedEmployee,
		AssignedDate:     t.AssignedDate.Unix(),
		Status:           string(t.Status),
		IsDeleted:        t.IsDeleted,
	}
}

func (mt *mongoTask) toDomain() *domain.Task {
	return &domain.Task{
		ID:               mt.ID.Hex(),
		ProjectCode:      mt.ProjectCode,
		Subject:          mt.Subject,
		Detail:           mt.Detail,
		AssignedEmployee: mt.AssignedEmployee,
		AssignedDate:     unixToTime(mt.AssignedDate),
		Status:           domain.Status(mt.Status),
		IsDeleted:        mt.IsDeleted,
	}
}
