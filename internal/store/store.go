// Package store defines the data-access contract shared by the MongoDB and
// flat-file backends. Route handlers and services depend only on these
// interfaces; which backend satisfies them is decided once, at startup.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/IT22091352/wasana-products/internal/models"
)

// ErrNotFound is returned by FindByID/Update style operations when no record
// matches the given identity. Both backends return this same sentinel so
// callers never need to know which one they are talking to.
var ErrNotFound = errors.New("record not found")

// ErrLoginTaken is returned by UserStore.Create when the username or email is
// already in use by another account.
var ErrLoginTaken = errors.New("username or email already in use")

// InquiryFilter narrows List and Count results. Zero values mean "no
// constraint". Search is a case-insensitive substring match across customer
// name and email, and a raw substring match on phone.
type InquiryFilter struct {
	Status       models.InquiryStatus
	IsRead       *bool
	CreatedSince *time.Time
	Search       string
}

// ListOptions controls ordering and paging of List results.
// With SortNewestFirst unset, records come back in storage order.
type ListOptions struct {
	SortNewestFirst bool
	Skip            int
	Limit           int // 0 means no limit
}

// InquiryPatch carries the staff-editable fields of an inquiry.
// Nil fields are left untouched.
type InquiryPatch struct {
	Status *models.InquiryStatus
	Notes  *string
	IsRead *bool
}

// StatusCount is one bucket of CountByStatus.
type StatusCount struct {
	Status models.InquiryStatus `bson:"_id" json:"status"`
	Count  int64                `bson:"count" json:"count"`
}

// ProductCount is one bucket of CountByProduct.
type ProductCount struct {
	Product models.ProductCode `bson:"_id" json:"product"`
	Count   int64              `bson:"count" json:"count"`
}

// RevenueStats summarises revenue over a status set.
type RevenueStats struct {
	TotalRevenue  float64 `bson:"totalRevenue" json:"total_revenue"`
	TotalOrders   int64   `bson:"totalOrders" json:"total_orders"`
	AvgOrderValue float64 `bson:"avgOrderValue" json:"avg_order_value"`
}

// MonthlyBucket is one calendar-month bucket of MonthlyStats.
type MonthlyBucket struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

// InquiryStore is the persistence contract for inquiries. The aggregation
// operations are a fixed, named menu: these five are everything the admin
// dashboard consumes, and naming them explicitly removes the silent-empty-
// result failure mode of matching arbitrary pipeline shapes.
type InquiryStore interface {
	Create(ctx context.Context, inq *models.Inquiry) error
	FindByID(ctx context.Context, id string) (*models.Inquiry, error)
	List(ctx context.Context, filter InquiryFilter, opts ListOptions) ([]*models.Inquiry, error)
	Update(ctx context.Context, id string, patch InquiryPatch) (*models.Inquiry, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context, filter InquiryFilter) (int64, error)

	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountByProduct(ctx context.Context) ([]ProductCount, error)
	TotalRevenue(ctx context.Context, statuses []models.InquiryStatus) (float64, error)
	RevenueStats(ctx context.Context, statuses []models.InquiryStatus) (RevenueStats, error)
	MonthlyStats(ctx context.Context, since *time.Time) ([]MonthlyBucket, error)
}

// UserPatch carries the mutable fields of a user record.
// Nil fields are left untouched.
type UserPatch struct {
	PasswordHash *string
	LastLogin    *time.Time
	IsActive     *bool
}

// UserStore is the persistence contract for user accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	// FindByLogin matches login against username or email. Callers are
	// expected to lowercase the login first; stored values are lowercase.
	FindByLogin(ctx context.Context, login string) (*models.User, error)
	Update(ctx context.Context, id string, patch UserPatch) (*models.User, error)
}

// Stores bundles the two entity stores a running server needs.
type Stores struct {
	Inquiries InquiryStore
	Users     UserStore
}

// StatusIn reports whether s is in the statuses set. An empty set matches
// nothing, mirroring the original revenue aggregations which always filtered
// on an explicit status list.
func StatusIn(s models.InquiryStatus, statuses []models.InquiryStatus) bool {
	for _, st := range statuses {
		if s == st {
			return true
		}
	}
	return false
}
