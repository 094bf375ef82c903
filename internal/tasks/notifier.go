package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/IT22091352/wasana-products/internal/config"
	"github.com/IT22091352/wasana-products/internal/email"
	"github.com/IT22091352/wasana-products/internal/models"
)

// QueueNotifier enqueues an asynq task for the worker to deliver. This is
// the normal path when Redis is reachable.
type QueueNotifier struct {
	client *asynq.Client
}

// NewQueueNotifier creates a QueueNotifier over the given asynq client.
func NewQueueNotifier(client *asynq.Client) *QueueNotifier {
	return &QueueNotifier{client: client}
}

// NotifyNewInquiry enqueues a notification task carrying the inquiry ID.
func (n *QueueNotifier) NotifyNewInquiry(ctx context.Context, inq *models.Inquiry) error {
	payload, err := json.Marshal(InquiryNotifyPayload{InquiryID: inq.ID})
	if err != nil {
		return fmt.Errorf("failed to marshal inquiry notify payload: %w", err)
	}
	task := asynq.NewTask(TypeInquiryNotify, payload)
	if _, err := n.client.EnqueueContext(ctx, task, asynq.Queue("default"), asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("failed to enqueue inquiry notification: %w", err)
	}
	return nil
}

// DirectNotifier sends the notification inline, without a queue. Used when
// Redis is unavailable so the storefront still notifies the shop, at the
// cost of doing SMTP work on the request path.
type DirectNotifier struct {
	cfg    *config.Config
	sender email.Sender
}

// NewDirectNotifier creates a DirectNotifier.
func NewDirectNotifier(cfg *config.Config, sender email.Sender) *DirectNotifier {
	return &DirectNotifier{cfg: cfg, sender: sender}
}

// NotifyNewInquiry composes and sends the notification immediately.
func (n *DirectNotifier) NotifyNewInquiry(ctx context.Context, inq *models.Inquiry) error {
	subject, rawMessage := BuildInquiryMessage(n.cfg, inq)
	if err := n.sender.Send(ctx, []string{n.cfg.NotifyEmail}, subject, rawMessage); err != nil {
		log.Printf("Direct inquiry notification failed: %v", err)
		return err
	}
	return nil
}
