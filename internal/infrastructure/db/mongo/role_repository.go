package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/glprevenda/erp-auth/internal/core/domain"
)

const roleCollection = "roles"

// MongoRoleRepository persists access roles in the "roles" collection.
type MongoRoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *MongoRoleRepository {
	return &MongoRoleRepository{coll: db.Collection(roleCollection)}
}

type mongoRole struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

func (r *MongoRoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var mr mongoRole
	if err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.Role{
		ID:          mr.ID.Hex(),
		Name:        mr.Name,
		Description: mr.Description,
		CreatedAt:   unixToTime(mr.CreatedAt),
		UpdatedAt:   unixToTime(mr.UpdatedAt),
	}, nil
}

func (r *MongoRoleRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_role_name"),
	})
	if err != nil {
		return fmt.Errorf("ensure role indexes: %w", err)
	}
	return nil
}

// Save upserts the role by name, preserving created_at on updates.
func (r *MongoRoleRepository) Save(ctx context.Context, role *domain.Role) error {
	now := time.Now().UTC().Unix()
	update := bson.M{
		"$set": bson.M{
			"description": role.Description,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{
			"name":       role.Name,
			"created_at": now,
		},
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"name": role.Name}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save role: %w", err)
	}
	return nil
}
