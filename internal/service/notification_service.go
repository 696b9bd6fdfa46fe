package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/society-api/internal/config"
	"github.com/spec-kit/society-api/internal/events"
)

// NotifiedEvents lists the event types forwarded to the webhook.
var NotifiedEvents = []events.EventType{
	events.EventSeatBooked,
	events.EventSeatReleased,
	events.EventAnnouncementPublished,
	events.EventMembershipInquiryReceived,
	events.EventUserRegistered,
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
	client *http.Client
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		logger: logger,
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Handle logs the event and forwards it to the configured webhook.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventSeatBooked, events.EventSeatReleased:
		return n.handleSeatChange(ctx, event)
	case events.EventAnnouncementPublished:
		return n.handleAnnouncementPublished(ctx, event)
	case events.EventMembershipInquiryReceived:
		return n.handleMembershipInquiry(ctx, event)
	case events.EventUserRegistered:
		return n.handleUserRegistered(ctx, event)
	default:
		return nil
	}
}

func (n *NotificationService) handleSeatChange(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type), zap.String("event_id", event.SubjectID), zap.Any("payload", event.Payload))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleAnnouncementPublished(ctx context.Context, event events.Event) error {
	n.logger.Info("AnnouncementPublished", zap.String("announcement_id", event.SubjectID), zap.Any("payload", event.Payload))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleMembershipInquiry(ctx context.Context, event events.Event) error {
	n.logger.Info("MembershipInquiryReceived", zap.String("registration_id", event.SubjectID))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("UserRegistered", zap.String("user_id", event.SubjectID))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) sendWebhook(ctx context.Context, event events.Event) error {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode webhook: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("webhook delivery failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		n.logger.Warn("webhook rejected", zap.String("event_type", string(event.Type)), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	n.logger.Debug("webhook delivered", zap.String("event_type", string(event.Type)), zap.String("event_id", event.ID))
	return nil
}
