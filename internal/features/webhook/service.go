package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type WebhookService interface {
	CreateWebhook(ctx context.Context, webhook *Webhook) error
	ListWebhooks(ctx context.Context) ([]Webhook, error)
	DeleteWebhook(ctx context.Context, id string) error
	Trigger(ctx context.Context, event string, payload Payload)
}

type WebhookServiceImpl struct {
	Repo       WebhookRepository
	Logger     *zap.Logger
	HttpClient *http.Client
}

func NewWebhookService(repo WebhookRepository, logger *zap.Logger) WebhookService {
	return &WebhookServiceImpl{
		Repo:   repo,
		Logger: logger,
		HttpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *WebhookServiceImpl) CreateWebhook(ctx context.Context, webhook *Webhook) error {
	return s.Repo.Create(ctx, webhook)
}

func (s *WebhookServiceImpl) ListWebhooks(ctx context.Context) ([]Webhook, error) {
	return s.Repo.List(ctx)
}

func (s *WebhookServiceImpl) DeleteWebhook(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

// Trigger delivers the payload to every active subscription for the event.
// Delivery is fire-and-forget; failures are logged, never surfaced to the
// submitter.
func (s *WebhookServiceImpl) Trigger(ctx context.Context, event string, payload Payload) {
	webhooks, err := s.Repo.ListByEvent(ctx, event)
	if err != nil {
		s.Logger.Warn("failed to fetch webhooks", zap.String("event", event), zap.Error(err))
		return
	}

	for _, wh := range webhooks {
		if !wh.FormID.IsZero() && wh.FormID.Hex() != payload.FormID {
			continue
		}

		go s.send(wh, payload)
	}
}

func (s *WebhookServiceImpl) send(wh Webhook, payload Payload) {
	body, err := json.Marshal(payload)
	if err != nil {
		s.Logger.Warn("failed to marshal webhook payload", zap.Error(err))
		return
	}

	req, err := http.NewRequest(http.MethodPost, wh.URL, bytes.NewBuffer(body))
	if err != nil {
		s.Logger.Warn("failed to create webhook request", zap.Error(err))
		return
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Go-FormHub-Webhook")
	req.Header.Set("X-FormHub-Event", payload.Event)

	if wh.Secret != "" {
		mac := hmac.New(sha256.New, []byte(wh.Secret))
		mac.Write(body)
		req.Header.Set("X-FormHub-Signature", hex.EncodeToString(mac.Sum(nil)))
	}

	resp, err := s.HttpClient.Do(req)
	if err != nil {
		s.Logger.Warn("webhook delivery failed",
			zap.String("url", wh.URL),
			zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		s.Logger.Warn("webhook delivery rejected",
			zap.String("url", wh.URL),
			zap.Int("status", resp.StatusCode))
	}
}
