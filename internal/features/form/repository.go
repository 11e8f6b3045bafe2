package form

import (
	"context"
	"errors"
	"time"

	common_models "go-formhub/internal/common/models"
	"go-formhub/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrLimitReached is returned by IncrementStats when the conditional update
// matched no document: the form hit its submission limit (or went inactive)
// between the gate check and the write.
var ErrLimitReached = errors.New("submission limit reached")

type FormRepository interface {
	Create(ctx context.Context, form *Form) error
	FindByID(ctx context.Context, id string, includeInactive bool) (*Form, error)
	List(ctx context.Context, includeInactive bool) ([]Form, error)
	Update(ctx context.Context, form *Form) error
	SoftDelete(ctx context.Context, id string) error
	IncrementStats(ctx context.Context, id primitive.ObjectID, at time.Time) error
	DecrementStats(ctx context.Context, id primitive.ObjectID) error
	SetStats(ctx context.Context, id primitive.ObjectID, stats FormStats) error
	EnsureIndexes(ctx context.Context) error
}

type FormRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewFormRepository(mongodb *database.MongodbDB) FormRepository {
	return &FormRepositoryImpl{
		Collection: mongodb.DB.Collection("forms"),
	}
}

func (r *FormRepositoryImpl) Create(ctx context.Context, form *Form) error {
	if form.ID.IsZero() {
		form.ID = primitive.NewObjectID()
	}
	now := time.Now()
	form.CreatedAt = now
	form.UpdatedAt = now
	form.IsActive = true

	_, err := r.Collection.InsertOne(ctx, form)
	return err
}

func (r *FormRepositoryImpl) FindByID(ctx context.Context, id string, includeInactive bool) (*Form, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common_models.ErrSchemaNotFound
	}

	filter := bson.M{"_id": oid}
	if !includeInactive {
		filter["is_active"] = true
	}

	var form Form
	if err := r.Collection.FindOne(ctx, filter).Decode(&form); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common_models.ErrSchemaNotFound
		}
		return nil, err
	}
	return &form, nil
}

func (r *FormRepositoryImpl) List(ctx context.Context, includeInactive bool) ([]Form, error) {
	filter := bson.M{}
	if !includeInactive {
		filter["is_active"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var forms []Form
	if err = cursor.All(ctx, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

func (r *FormRepositoryImpl) Update(ctx context.Context, form *Form) error {
	form.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"title":       form.Title,
		"description": form.Description,
		"settings":    form.Settings,
		"is_active":   form.IsActive,
		"updated_at":  form.UpdatedAt,
	}}
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": form.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return common_models.ErrSchemaNotFound
	}
	return nil
}

func (r *FormRepositoryImpl) SoftDelete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return common_models.ErrSchemaNotFound
	}

	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"is_active":  false,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return common_models.ErrSchemaNotFound
	}
	return nil
}

// IncrementStats bumps the submission counter as a single conditional write.
// The filter re-checks activity and the limit so concurrent submitters cannot
// overshoot: check-then-insert becomes one atomic operation.
func (r *FormRepositoryImpl) IncrementStats(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	filter := bson.M{
		"_id":       id,
		"is_active": true,
		"$or": bson.A{
			bson.M{"settings.submission_limit": 0},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$stats.total_submissions", "$settings.submission_limit"}}},
		},
	}
	update := bson.M{
		"$inc": bson.M{"stats.total_submissions": 1},
		"$set": bson.M{"stats.last_submission_at": at},
	}

	err := r.Collection.FindOneAndUpdate(ctx, filter, update).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrLimitReached
	}
	return err
}

// DecrementStats compensates a successful increment when the submission
// insert itself was rejected afterwards (duplicate guard).
func (r *FormRepositoryImpl) DecrementStats(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "stats.total_submissions": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"stats.total_submissions": -1}},
	)
	return err
}

func (r *FormRepositoryImpl) SetStats(ctx context.Context, id primitive.ObjectID, stats FormStats) error {
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"stats": stats}})
	return err
}

func (r *FormRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}
