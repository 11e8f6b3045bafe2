package form

import (
	"context"
	"time"

	"go-formhub/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FieldRepository interface {
	CreateMany(ctx context.Context, fields []FormField) error
	FindByForm(ctx context.Context, formID primitive.ObjectID, activeOnly bool) ([]FormField, error)
	DeactivateAll(ctx context.Context, formID primitive.ObjectID) error
	Reactivate(ctx context.Context, field *FormField) error
	EnsureIndexes(ctx context.Context) error
}

type FieldRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewFieldRepository(mongodb *database.MongodbDB) FieldRepository {
	return &FieldRepositoryImpl{
		Collection: mongodb.DB.Collection("form_fields"),
	}
}

func (r *FieldRepositoryImpl) CreateMany(ctx context.Context, fields []FormField) error {
	if len(fields) == 0 {
		return nil
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(fields))
	for i := range fields {
		if fields[i].ID.IsZero() {
			fields[i].ID = primitive.NewObjectID()
		}
		fields[i].IsActive = true
		fields[i].CreatedAt = now
		fields[i].UpdatedAt = now
		docs = append(docs, fields[i])
	}

	_, err := r.Collection.InsertMany(ctx, docs)
	return err
}

// FindByForm returns the form's fields ordered by their display order. With
// activeOnly=false the full historical set comes back, which is what
// rendering old submissions needs.
func (r *FieldRepositoryImpl) FindByForm(ctx context.Context, formID primitive.ObjectID, activeOnly bool) ([]FormField, error) {
	filter := bson.M{"form_id": formID}
	if activeOnly {
		filter["is_active"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: 1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var fields []FormField
	if err = cursor.All(ctx, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// DeactivateAll is the first half of the field replacement strategy: every
// field of the form goes inactive, then the incoming list is recreated or
// reactivated on top.
func (r *FieldRepositoryImpl) DeactivateAll(ctx context.Context, formID primitive.ObjectID) error {
	_, err := r.Collection.UpdateMany(ctx,
		bson.M{"form_id": formID},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}},
	)
	return err
}

// Reactivate updates a field carrying an identity reference in place and
// marks it active again.
func (r *FieldRepositoryImpl) Reactivate(ctx context.Context, field *FormField) error {
	field.UpdatedAt = time.Now()
	field.IsActive = true

	update := bson.M{"$set": bson.M{
		"name":       field.Name,
		"label":      field.Label,
		"type":       field.Type,
		"options":    field.Options,
		"validation": field.Validation,
		"order":      field.Order,
		"is_active":  true,
		"updated_at": field.UpdatedAt,
	}}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": field.ID, "form_id": field.FormID}, update)
	return err
}

func (r *FieldRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "form_id", Value: 1}, {Key: "is_active", Value: 1}, {Key: "order", Value: 1}}},
	})
	return err
}
