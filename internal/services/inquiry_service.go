package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/IT22091352/wasana-products/internal/models"
	"github.com/IT22091352/wasana-products/internal/store"
)

// Notifier tells the shop about a new inquiry. The queue-backed implementation
// enqueues a background task; the direct one sends the email inline.
type Notifier interface {
	NotifyNewInquiry(ctx context.Context, inq *models.Inquiry) error
}

// InquirySubmission is the customer-supplied part of a new inquiry. Price and
// product display name are never taken from the client; they come from the
// fixed catalogue.
type InquirySubmission struct {
	CustomerName   string              `json:"customer_name"`
	Phone          string              `json:"phone"`
	Email          string              `json:"email"`
	Address        string              `json:"address"`
	City           string              `json:"city"`
	DeliveryMethod string              `json:"delivery_method"`
	Product        models.ProductCode  `json:"product"`
	Size           models.EnvelopeSize `json:"size"`
	Quantity       int                 `json:"quantity"`
}

// StatsSummary is the admin dashboard rollup.
type StatsSummary struct {
	ByStatus  []store.StatusCount  `json:"by_status"`
	ByProduct []store.ProductCount `json:"by_product"`
	Revenue   store.RevenueStats   `json:"revenue"`
}

// revenueStatuses are the statuses that count as realized revenue.
var revenueStatuses = []models.InquiryStatus{models.StatusConfirmed, models.StatusDelivered}

// IInquiryService defines the interface for inquiry operations.
type IInquiryService interface {
	Submit(ctx context.Context, sub InquirySubmission) (*models.Inquiry, error)
	Get(ctx context.Context, id string) (*models.Inquiry, error)
	List(ctx context.Context, filter store.InquiryFilter, opts store.ListOptions) ([]*models.Inquiry, int64, error)
	Update(ctx context.Context, id string, patch store.InquiryPatch) (*models.Inquiry, error)
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (*StatsSummary, error)
	MonthlyStats(ctx context.Context, since *time.Time) ([]store.MonthlyBucket, error)
}

// inquiryService implements IInquiryService.
type inquiryService struct {
	inquiries store.InquiryStore
	notifier  Notifier
}

// NewInquiryService creates a new InquiryService. notifier may be nil when
// notifications are disabled.
func NewInquiryService(inquiries store.InquiryStore, notifier Notifier) IInquiryService {
	return &inquiryService{inquiries: inquiries, notifier: notifier}
}

func validateSubmission(sub *InquirySubmission) ValidationError {
	var errs ValidationError
	if strings.TrimSpace(sub.CustomerName) == "" {
		errs = append(errs, FieldError{Field: "customer_name", Message: "Customer name is required"})
	}
	if strings.TrimSpace(sub.Phone) == "" {
		errs = append(errs, FieldError{Field: "phone", Message: "Phone number is required"})
	}
	if !validEmail(sub.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "Valid email is required"})
	}
	if strings.TrimSpace(sub.Address) == "" {
		errs = append(errs, FieldError{Field: "address", Message: "Address is required"})
	}
	if strings.TrimSpace(sub.City) == "" {
		errs = append(errs, FieldError{Field: "city", Message: "City is required"})
	}
	if !models.ValidProduct(sub.Product) {
		errs = append(errs, FieldError{Field: "product", Message: "Invalid product"})
	}
	if !models.ValidSize(sub.Size) {
		errs = append(errs, FieldError{Field: "size", Message: "Invalid size"})
	}
	if sub.Quantity < 1 {
		errs = append(errs, FieldError{Field: "quantity", Message: "Quantity must be at least 1"})
	}
	return errs
}

// Submit validates the submission, prices it from the catalogue and persists
// it as a pending, unread inquiry. The notifier is told afterwards;
// notification failures are logged, never surfaced, so a broken mail path
// cannot lose a customer's order request.
func (s *inquiryService) Submit(ctx context.Context, sub InquirySubmission) (*models.Inquiry, error) {
	if errs := validateSubmission(&sub); len(errs) > 0 {
		return nil, errs
	}

	product, _ := models.LookupProduct(sub.Product)

	deliveryMethod := strings.TrimSpace(sub.DeliveryMethod)
	if deliveryMethod == "" {
		deliveryMethod = models.DefaultDeliveryMethod
	}

	inq := &models.Inquiry{
		CustomerName:   strings.TrimSpace(sub.CustomerName),
		Phone:          strings.TrimSpace(sub.Phone),
		Email:          strings.TrimSpace(sub.Email),
		Address:        strings.TrimSpace(sub.Address),
		City:           strings.TrimSpace(sub.City),
		DeliveryMethod: deliveryMethod,
		Product:        product.Code,
		ProductName:    product.Name,
		Size:           sub.Size,
		Quantity:       sub.Quantity,
		PricePerBundle: product.PricePerBundle,
		TotalAmount:    product.PricePerBundle * float64(sub.Quantity),
		Status:         models.StatusPending,
		IsRead:         false,
	}

	if err := s.inquiries.Create(ctx, inq); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyNewInquiry(ctx, inq); err != nil {
			log.Printf("Failed to notify about inquiry %s: %v", inq.ID, err)
		}
	}

	return inq, nil
}

// Get returns the inquiry with the given ID, or store.ErrNotFound.
func (s *inquiryService) Get(ctx context.Context, id string) (*models.Inquiry, error) {
	return s.inquiries.FindByID(ctx, id)
}

// List returns matching inquiries plus the total match count (ignoring
// paging), for the admin listing.
func (s *inquiryService) List(ctx context.Context, filter store.InquiryFilter, opts store.ListOptions) ([]*models.Inquiry, int64, error) {
	items, err := s.inquiries.List(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.inquiries.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update applies a staff patch. An unknown status value is rejected before it
// reaches storage.
func (s *inquiryService) Update(ctx context.Context, id string, patch store.InquiryPatch) (*models.Inquiry, error) {
	if patch.Status != nil && !models.ValidStatus(*patch.Status) {
		return nil, ValidationError{{Field: "status", Message: "Invalid status"}}
	}
	return s.inquiries.Update(ctx, id, patch)
}

// Delete removes the inquiry, reporting whether it existed.
func (s *inquiryService) Delete(ctx context.Context, id string) (bool, error) {
	return s.inquiries.Delete(ctx, id)
}

// Stats assembles the dashboard summary: counts per status and product plus
// revenue figures over confirmed and delivered inquiries.
func (s *inquiryService) Stats(ctx context.Context) (*StatsSummary, error) {
	byStatus, err := s.inquiries.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byProduct, err := s.inquiries.CountByProduct(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.inquiries.RevenueStats(ctx, revenueStatuses)
	if err != nil {
		return nil, err
	}
	return &StatsSummary{ByStatus: byStatus, ByProduct: byProduct, Revenue: revenue}, nil
}

// MonthlyStats returns per-month inquiry counts and revenue, oldest first.
func (s *inquiryService) MonthlyStats(ctx context.Context, since *time.Time) ([]store.MonthlyBucket, error) {
	return s.inquiries.MonthlyStats(ctx, since)
}
