package webhook

import (
	"context"
	"time"

	"go-formhub/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type WebhookRepository interface {
	Create(ctx context.Context, webhook *Webhook) error
	List(ctx context.Context) ([]Webhook, error)
	Get(ctx context.Context, id string) (*Webhook, error)
	ListByEvent(ctx context.Context, event string) ([]Webhook, error)
	Delete(ctx context.Context, id string) error
}

type WebhookRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewWebhookRepository(mongodb *database.MongodbDB) WebhookRepository {
	return &WebhookRepositoryImpl{
		Collection: mongodb.DB.Collection("webhooks"),
	}
}

func (r *WebhookRepositoryImpl) Create(ctx context.Context, webhook *Webhook) error {
	if webhook.ID.IsZero() {
		webhook.ID = primitive.NewObjectID()
	}
	now := time.Now()
	webhook.CreatedAt = now
	webhook.UpdatedAt = now
	webhook.IsActive = true

	_, err := r.Collection.InsertOne(ctx, webhook)
	return err
}

func (r *WebhookRepositoryImpl) List(ctx context.Context) ([]Webhook, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var webhooks []Webhook
	if err = cursor.All(ctx, &webhooks); err != nil {
		return nil, err
	}
	return webhooks, nil
}

func (r *WebhookRepositoryImpl) Get(ctx context.Context, id string) (*Webhook, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	var wh Webhook
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&wh); err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *WebhookRepositoryImpl) ListByEvent(ctx context.Context, event string) ([]Webhook, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{
		"is_active": true,
		"events":    event,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var webhooks []Webhook
	if err = cursor.All(ctx, &webhooks); err != nil {
		return nil, err
	}
	return webhooks, nil
}

func (r *WebhookRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
