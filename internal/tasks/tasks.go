// Package tasks wires the asynq background queue: inquiry notification
// emails are enqueued at submission time and delivered by a worker, so a
// slow or failing mail server never delays the customer's request.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/IT22091352/wasana-products/internal/config"
	"github.com/IT22091352/wasana-products/internal/email"
	"github.com/IT22091352/wasana-products/internal/store"
)

// TypeInquiryNotify is the task type for new-inquiry notification emails.
const TypeInquiryNotify = "email:inquiry_notify"

// InquiryNotifyPayload carries just the inquiry ID; the worker re-reads the
// record so it always mails the current state.
type InquiryNotifyPayload struct {
	InquiryID string `json:"inquiry_id"`
}

// NewClient creates an asynq client backed by the same Redis the server uses.
func NewClient(rdb *redis.Client) *asynq.Client {
	opts := rdb.Options()
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

// TaskProcessor handles the processing of tasks.
// It holds dependencies needed by task handlers.
type TaskProcessor struct {
	cfg         *config.Config
	emailSender email.Sender
	inquiries   store.InquiryStore
}

// NewTaskProcessor creates a TaskProcessor.
func NewTaskProcessor(cfg *config.Config, emailSender email.Sender, inquiries store.InquiryStore) *TaskProcessor {
	return &TaskProcessor{
		cfg:         cfg,
		emailSender: emailSender,
		inquiries:   inquiries,
	}
}

// Mux returns a ServeMux with all task handlers registered.
func (p *TaskProcessor) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeInquiryNotify, p.HandleInquiryNotifyTask)
	return mux
}

// SetupServer configures and returns an Asynq server instance.
func SetupServer(rdb *redis.Client) *asynq.Server {
	opts := rdb.Options()
	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		},
		asynq.Config{
			Queues: map[string]int{
				"default": 5,
				"low":     1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v", task.Type(), string(task.Payload()), err)
			}),
		},
	)
}

// HandleInquiryNotifyTask loads the inquiry and emails a summary to the shop
// address.
func (p *TaskProcessor) HandleInquiryNotifyTask(ctx context.Context, t *asynq.Task) error {
	var payload InquiryNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal inquiry notify payload: %v: %w", err, asynq.SkipRetry)
	}

	inq, err := p.inquiries.FindByID(ctx, payload.InquiryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Deleted before the worker got to it; nothing to notify about.
			log.Printf("Inquiry %s no longer exists, dropping notification task", payload.InquiryID)
			return nil
		}
		return fmt.Errorf("failed to load inquiry %s: %w", payload.InquiryID, err)
	}

	subject, rawMessage := BuildInquiryMessage(p.cfg, inq)
	if err := p.emailSender.Send(ctx, []string{p.cfg.NotifyEmail}, subject, rawMessage); err != nil {
		log.Printf("Inquiry notification email failed (will retry): %v", err)
		return err
	}

	log.Printf("Inquiry notification sent for %s", inq.ID)
	return nil
}
