package file

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/IT22091352/wasana-products/internal/models"
	"github.com/IT22091352/wasana-products/internal/store"
)

// InquiryStore is the flat-file implementation of store.InquiryStore.
type InquiryStore struct {
	path string
	mu   sync.Mutex
}

// NewInquiryStore creates the inquiries file under dataDir if needed.
func NewInquiryStore(dataDir string) (*InquiryStore, error) {
	path, err := ensureDataFile(dataDir, inquiriesFile)
	if err != nil {
		return nil, err
	}
	return &InquiryStore{path: path}, nil
}

func (s *InquiryStore) load() []models.Inquiry {
	var items []models.Inquiry
	readJSON(s.path, &items)
	return items
}

// Create assigns a fresh record ID and timestamps, appends the inquiry and
// rewrites the file.
func (s *InquiryStore) Create(ctx context.Context, inq *models.Inquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load()

	now := time.Now().UTC()
	inq.ID = freshRecordID(func(id string) bool {
		for _, item := range items {
			if item.ID == id {
				return true
			}
		}
		return false
	})
	inq.CreatedAt = now
	inq.UpdatedAt = now

	items = append(items, *inq)
	return writeJSON(s.path, items)
}

// FindByID scans for an exact ID match.
func (s *InquiryStore) FindByID(ctx context.Context, id string) (*models.Inquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.load() {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func matchesFilter(inq *models.Inquiry, filter store.InquiryFilter) bool {
	if filter.Status != "" && inq.Status != filter.Status {
		return false
	}
	if filter.IsRead != nil && inq.IsRead != *filter.IsRead {
		return false
	}
	if filter.CreatedSince != nil && inq.CreatedAt.Before(*filter.CreatedSince) {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(inq.CustomerName), needle) &&
			!strings.Contains(strings.ToLower(inq.Email), needle) &&
			!strings.Contains(inq.Phone, filter.Search) {
			return false
		}
	}
	return true
}

// List returns matching inquiries, in file order unless SortNewestFirst is
// set, then applies Skip/Limit.
func (s *InquiryStore) List(ctx context.Context, filter store.InquiryFilter, opts store.ListOptions) ([]*models.Inquiry, error) {
	s.mu.Lock()
	items := s.load()
	s.mu.Unlock()

	matched := make([]*models.Inquiry, 0, len(items))
	for i := range items {
		if matchesFilter(&items[i], filter) {
			found := items[i]
			matched = append(matched, &found)
		}
	}

	if opts.SortNewestFirst {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
	}
	if opts.Skip > 0 {
		if opts.Skip >= len(matched) {
			return []*models.Inquiry{}, nil
		}
		matched = matched[opts.Skip:]
	}
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

// Update merges the patch onto the stored record, refreshes updatedAt and
// rewrites the file. Returns store.ErrNotFound if the ID is absent.
func (s *InquiryStore) Update(ctx context.Context, id string, patch store.InquiryPatch) (*models.Inquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load()
	for i := range items {
		if items[i].ID != id {
			continue
		}
		if patch.Status != nil {
			items[i].Status = *patch.Status
		}
		if patch.Notes != nil {
			items[i].Notes = *patch.Notes
		}
		if patch.IsRead != nil {
			items[i].IsRead = *patch.IsRead
		}
		items[i].UpdatedAt = time.Now().UTC()
		if err := writeJSON(s.path, items); err != nil {
			return nil, err
		}
		updated := items[i]
		return &updated, nil
	}
	return nil, store.ErrNotFound
}

// Delete removes the record with the given ID and reports whether anything
// was actually removed.
func (s *InquiryStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load()
	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}
	if err := writeJSON(s.path, kept); err != nil {
		return false, err
	}
	return true, nil
}

// Count is the length of List with the same filter.
func (s *InquiryStore) Count(ctx context.Context, filter store.InquiryFilter) (int64, error) {
	matched, err := s.List(ctx, filter, store.ListOptions{})
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

// CountByStatus groups all inquiries by workflow status.
func (s *InquiryStore) CountByStatus(ctx context.Context) ([]store.StatusCount, error) {
	s.mu.Lock()
	items := s.load()
	s.mu.Unlock()

	groups := make(map[models.InquiryStatus]int64)
	for i := range items {
		groups[items[i].Status]++
	}
	out := make([]store.StatusCount, 0, len(groups))
	for status, count := range groups {
		out = append(out, store.StatusCount{Status: status, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

// CountByProduct groups all inquiries by product code.
func (s *InquiryStore) CountByProduct(ctx context.Context) ([]store.ProductCount, error) {
	s.mu.Lock()
	items := s.load()
	s.mu.Unlock()

	groups := make(map[models.ProductCode]int64)
	for i := range items {
		groups[items[i].Product]++
	}
	out := make([]store.ProductCount, 0, len(groups))
	for product, count := range groups {
		out = append(out, store.ProductCount{Product: product, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product < out[j].Product })
	return out, nil
}

// TotalRevenue sums total_amount over inquiries whose status is in statuses.
func (s *InquiryStore) TotalRevenue(ctx context.Context, statuses []models.InquiryStatus) (float64, error) {
	s.mu.Lock()
	items := s.load()
	s.mu.Unlock()

	var total float64
	for i := range items {
		if store.StatusIn(items[i].Status, statuses) {
			total += items[i].TotalAmount
		}
	}
	return total, nil
}

// RevenueStats reports total revenue, order count and average order value
// over inquiries whose status is in statuses.
func (s *InquiryStore) RevenueStats(ctx context.Context, statuses []models.InquiryStatus) (store.RevenueStats, error) {
	s.mu.Lock()
	items := s.load()
	s.mu.Unlock()

	var stats store.RevenueStats
	for i := range items {
		if store.StatusIn(items[i].Status, statuses) {
			stats.TotalRevenue += items[i].TotalAmount
			stats.TotalOrders++
		}
	}
	if stats.TotalOrders > 0 {
		stats.AvgOrderValue = stats.TotalRevenue / float64(stats.TotalOrders)
	}
	return stats, nil
}

// MonthlyStats buckets inquiries by calendar month (optionally only those
// created at or after since), ordered by year then month ascending.
func (s *InquiryStore) MonthlyStats(ctx context.Context, since *time.Time) ([]store.MonthlyBucket, error) {
	s.mu.Lock()
	items := s.load()
	s.mu.Unlock()

	type ym struct{ year, month int }
	groups := make(map[ym]*store.MonthlyBucket)
	for i := range items {
		if since != nil && items[i].CreatedAt.Before(*since) {
			continue
		}
		key := ym{items[i].CreatedAt.Year(), int(items[i].CreatedAt.Month())}
		bucket, ok := groups[key]
		if !ok {
			bucket = &store.MonthlyBucket{Year: key.year, Month: key.month}
			groups[key] = bucket
		}
		bucket.Count++
		bucket.Revenue += items[i].TotalAmount
	}

	out := make([]store.MonthlyBucket, 0, len(groups))
	for _, bucket := range groups {
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}
