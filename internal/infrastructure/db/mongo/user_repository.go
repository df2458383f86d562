package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tickethub/ticketing-system/internal/core/domain"
)

const userCollection = "users"

// MongoUserRepository persists directory accounts. Soft-deleted documents
// stay in the collection; every read filters on is_deleted=false.
type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(userCollection)}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	PasswordHash string             `bson:"password_hash"`
	Enabled      bool               `bson:"enabled"`
	IsDeleted    bool               `bson:"is_deleted"`
	Role         string             `bson:"role"`
}

func (r *MongoUserRepository) FindActiveByUsername(ctx context.Context, username string) (*domain.User, error) {
	var mu mongoUser
	filter := bson.M{"username": username, "is_deleted": false}
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// Save inserts when the user has no id yet, otherwise replaces the stored
// document by id. The tombstoned username written by a delete therefore
// still hits the original record, freeing the old key in the partial
// unique index.
func (r *MongoUserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := fromDomainUser(user)

	if user.ID == "" {
		res, err := r.coll.InsertOne(ctx, doc)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrUserExists
			}
			return nil, fmt.Errorf("insert user: %w", err)
		}
		doc.ID = res.InsertedID.(primitive.ObjectID)
		return doc.toDomain(), nil
	}

	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	doc.ID = oid
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("save user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return doc.toDomain(), nil
}

func (r *MongoUserRepository) ListActiveByFirstNameDesc(ctx context.Context) ([]*domain.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "first_name", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"is_deleted": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	for cursor.Next(ctx) {
		var mu mongoUser
		if err := cursor.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, mu.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func fromDomainUser(u *domain.User) *mongoUser {
	return &mongoUser{
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		Enabled:      u.Enabled,
		IsDeleted:    u.IsDeleted,
		Role:         u.Role.Description,
	}
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		FirstName:    mu.FirstName,
		LastName:     mu.LastName,
		PasswordHash: mu.PasswordHash,
		Enabled:      mu.Enabled,
		IsDeleted:    mu.IsDeleted,
		Role:         domain.Role{Description: mu.Role},
	}
}
