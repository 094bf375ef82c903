package models

import (
	"time"
)

// InquiryStatus tracks an inquiry through the fulfilment workflow.
type InquiryStatus string

const (
	StatusPending   InquiryStatus = "pending"
	StatusContacted InquiryStatus = "contacted"
	StatusConfirmed InquiryStatus = "confirmed"
	StatusDelivered InquiryStatus = "delivered"
	StatusCancelled InquiryStatus = "cancelled"
)

// ValidStatus reports whether s is one of the recognised workflow statuses.
func ValidStatus(s InquiryStatus) bool {
	switch s {
	case StatusPending, StatusContacted, StatusConfirmed, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// EnvelopeSize is the bundle size ordered.
type EnvelopeSize string

const (
	SizeSmall  EnvelopeSize = "S"
	SizeMedium EnvelopeSize = "M"
	SizeLarge  EnvelopeSize = "L"
)

// ValidSize reports whether s is a recognised envelope size.
func ValidSize(s EnvelopeSize) bool {
	return s == SizeSmall || s == SizeMedium || s == SizeLarge
}

// DefaultDeliveryMethod is used when the customer does not pick one.
const DefaultDeliveryMethod = "Cash on Delivery"

// Inquiry represents a customer's order request for envelopes.
// TotalAmount is always recomputed server-side from the fixed price table
// at creation time; client-supplied price fields are never trusted.
type Inquiry struct {
	ID             string        `bson:"_id,omitempty" json:"id,omitempty"`
	CustomerName   string        `bson:"customer_name" json:"customer_name"`
	Phone          string        `bson:"phone" json:"phone"`
	Email          string        `bson:"email" json:"email"`
	Address        string        `bson:"address" json:"address"`
	City           string        `bson:"city" json:"city"`
	DeliveryMethod string        `bson:"delivery_method" json:"delivery_method"`
	Product        ProductCode   `bson:"product" json:"product"`
	ProductName    string        `bson:"product_name" json:"product_name"`
	Size           EnvelopeSize  `bson:"size" json:"size"`
	Quantity       int           `bson:"quantity" json:"quantity"`
	PricePerBundle float64       `bson:"price_per_bundle" json:"price_per_bundle"`
	TotalAmount    float64       `bson:"total_amount" json:"total_amount"`
	Status         InquiryStatus `bson:"status" json:"status"`
	Notes          string        `bson:"notes" json:"notes"`
	IsRead         bool          `bson:"is_read" json:"is_read"`
	CreatedAt      time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time     `bson:"updatedAt" json:"updatedAt"`
}
