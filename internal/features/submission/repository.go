package submission

import (
	"context"
	"errors"
	"time"

	"go-formhub/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicate is returned when the unique dedupe index rejects an insert:
// the submitter already has a submission for this form, even if the earlier
// read-side check missed it.
var ErrDuplicate = errors.New("duplicate submission")

type SubmissionRepository interface {
	Create(ctx context.Context, sub *Submission) error
	FindByID(ctx context.Context, id string) (*Submission, error)
	FindByForm(ctx context.Context, formID primitive.ObjectID, status Status, page, limit int64) ([]Submission, int64, error)
	ListAllByForm(ctx context.Context, formID primitive.ObjectID) ([]Submission, error)
	HasSubmitted(ctx context.Context, formID primitive.ObjectID, userID primitive.ObjectID) (bool, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	AddNote(ctx context.Context, id string, note Note) error
	Delete(ctx context.Context, id string) error
	CountByForm(ctx context.Context, formID primitive.ObjectID) (int64, error)
	DistinctSubmitters(ctx context.Context, formID primitive.ObjectID) (int64, error)
	LastSubmittedAt(ctx context.Context, formID primitive.ObjectID) (*time.Time, error)
	EnsureIndexes(ctx context.Context) error
}

type SubmissionRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSubmissionRepository(mongodb *database.MongodbDB) SubmissionRepository {
	return &SubmissionRepositoryImpl{
		Collection: mongodb.DB.Collection("submissions"),
	}
}

func (r *SubmissionRepositoryImpl) Create(ctx context.Context, sub *Submission) error {
	if sub.ID.IsZero() {
		sub.ID = primitive.NewObjectID()
	}

	_, err := r.Collection.InsertOne(ctx, sub)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *SubmissionRepositoryImpl) FindByID(ctx context.Context, id string) (*Submission, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	var sub Submission
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubmissionRepositoryImpl) FindByForm(ctx context.Context, formID primitive.ObjectID, status Status, page, limit int64) ([]Submission, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 1000 {
		limit = 50
	}

	filter := bson.M{"form_id": formID}
	if status != "" {
		filter["status"] = status
	}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "metadata.submitted_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var subs []Submission
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// ListAllByForm streams the form's full submission set ordered by submission
// time, oldest first. Export projections need every record, unpaginated.
func (r *SubmissionRepositoryImpl) ListAllByForm(ctx context.Context, formID primitive.ObjectID) ([]Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "metadata.submitted_at", Value: 1}})

	cursor, err := r.Collection.Find(ctx, bson.M{"form_id": formID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []Submission
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *SubmissionRepositoryImpl) HasSubmitted(ctx context.Context, formID primitive.ObjectID, userID primitive.ObjectID) (bool, error) {
	count, err := r.Collection.CountDocuments(ctx, bson.M{
		"form_id":      formID,
		"submitted_by": userID,
	}, options.Count().SetLimit(1))
	return count > 0, err
}

func (r *SubmissionRepositoryImpl) UpdateStatus(ctx context.Context, id string, status Status) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *SubmissionRepositoryImpl) AddNote(ctx context.Context, id string, note Note) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$push": bson.M{"notes": note}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete is a hard delete, unlike forms. Explicit administrator action only.
func (r *SubmissionRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *SubmissionRepositoryImpl) CountByForm(ctx context.Context, formID primitive.ObjectID) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{"form_id": formID})
}

func (r *SubmissionRepositoryImpl) DistinctSubmitters(ctx context.Context, formID primitive.ObjectID) (int64, error) {
	values, err := r.Collection.Distinct(ctx, "submitted_by", bson.M{
		"form_id":      formID,
		"submitted_by": bson.M{"$ne": nil},
	})
	if err != nil {
		return 0, err
	}
	return int64(len(values)), nil
}

func (r *SubmissionRepositoryImpl) LastSubmittedAt(ctx context.Context, formID primitive.ObjectID) (*time.Time, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "metadata.submitted_at", Value: -1}})

	var sub Submission
	err := r.Collection.FindOne(ctx, bson.M{"form_id": formID}, opts).Decode(&sub)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub.Metadata.SubmittedAt, nil
}

func (r *SubmissionRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	unique := true
	sparse := true
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "form_id", Value: 1}, {Key: "metadata.submitted_at", Value: -1}}},
		{Keys: bson.D{{Key: "form_id", Value: 1}, {Key: "submitted_by", Value: 1}}},
		// The atomic duplicate guard: dedupe_key is only written for
		// authenticated submissions to single-submission forms.
		{
			Keys: bson.D{{Key: "dedupe_key", Value: 1}},
			Options: &options.IndexOptions{
				Unique: &unique,
				Sparse: &sparse,
			},
		},
	})
	return err
}
