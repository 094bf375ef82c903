// Package mongodb implements the store interfaces against a MongoDB
// database. It is the primary backend; the flat-file package covers the
// fallback path. Aggregations run as real pipelines here, but only the named
// operations of the store contract are exposed.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IT22091352/wasana-products/internal/db"
	"github.com/IT22091352/wasana-products/internal/models"
	"github.com/IT22091352/wasana-products/internal/store"
	"github.com/IT22091352/wasana-products/internal/utils"
)

const inquiriesCollection = "inquiries"

// InquiryStore is the MongoDB implementation of store.InquiryStore.
type InquiryStore struct {
	col *mongo.Collection
}

// NewInquiryStore returns an InquiryStore over db's inquiries collection.
func NewInquiryStore(database *mongo.Database) *InquiryStore {
	return &InquiryStore{col: database.Collection(inquiriesCollection)}
}

// EnsureIndexes creates the query indexes the admin views rely on.
func (s *InquiryStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "is_read", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create inquiry indexes: %w", err)
	}
	return nil
}

// Create inserts the inquiry with a fresh record ID and timestamps. An _id
// collision (possible with the timestamp-based generator under concurrent
// bursts) is retried with a regenerated ID.
func (s *InquiryStore) Create(ctx context.Context, inq *models.Inquiry) error {
	now := time.Now().UTC()
	inq.CreatedAt = now
	inq.UpdatedAt = now

	operation := func() error {
		inq.ID = utils.NewRecordID() // regenerated on each attempt
		_, err := s.col.InsertOne(ctx, inq)
		return err
	}
	if err := db.Try(operation); err != nil {
		return fmt.Errorf("error inserting inquiry: %w", err)
	}
	return nil
}

// FindByID returns the inquiry with the given ID, or store.ErrNotFound.
func (s *InquiryStore) FindByID(ctx context.Context, id string) (*models.Inquiry, error) {
	var inq models.Inquiry
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&inq)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error finding inquiry %s: %w", id, err)
	}
	return &inq, nil
}

func filterQuery(filter store.InquiryFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.IsRead != nil {
		query["is_read"] = *filter.IsRead
	}
	if filter.CreatedSince != nil {
		query["createdAt"] = bson.M{"$gte": *filter.CreatedSince}
	}
	if filter.Search != "" {
		escaped := primitive.Regex{Pattern: regexQuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"customer_name": escaped},
			bson.M{"email": escaped},
			bson.M{"phone": primitive.Regex{Pattern: regexQuoteMeta(filter.Search)}},
		}
	}
	return query
}

// regexQuoteMeta escapes regex metacharacters so user search input is matched
// literally.
func regexQuoteMeta(s string) string {
	const meta = `\.+*?()|[]{}^$`
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(meta); j++ {
			if s[i] == meta[j] {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, s[i])
	}
	return string(out)
}

// List returns matching inquiries with optional newest-first ordering and
// skip/limit paging.
func (s *InquiryStore) List(ctx context.Context, filter store.InquiryFilter, opts store.ListOptions) ([]*models.Inquiry, error) {
	findOpts := options.Find()
	if opts.SortNewestFirst {
		findOpts.SetSort(bson.D{{Key: "createdAt", Value: -1}})
	}
	if opts.Skip > 0 {
		findOpts.SetSkip(int64(opts.Skip))
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cursor, err := s.col.Find(ctx, filterQuery(filter), findOpts)
	if err != nil {
		return nil, fmt.Errorf("error listing inquiries: %w", err)
	}
	defer cursor.Close(ctx)

	inquiries := []*models.Inquiry{}
	if err := cursor.All(ctx, &inquiries); err != nil {
		return nil, fmt.Errorf("error decoding inquiries: %w", err)
	}
	return inquiries, nil
}

// Update applies the patch fields and refreshes updatedAt, returning the
// updated document or store.ErrNotFound.
func (s *InquiryStore) Update(ctx context.Context, id string, patch store.InquiryPatch) (*models.Inquiry, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Notes != nil {
		set["notes"] = *patch.Notes
	}
	if patch.IsRead != nil {
		set["is_read"] = *patch.IsRead
	}

	after := options.After
	var updated models.Inquiry
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error updating inquiry %s: %w", id, err)
	}
	return &updated, nil
}

// Delete removes the inquiry and reports whether a document was removed.
func (s *InquiryStore) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("error deleting inquiry %s: %w", id, err)
	}
	return result.DeletedCount > 0, nil
}

// Count counts matching inquiries.
func (s *InquiryStore) Count(ctx context.Context, filter store.InquiryFilter) (int64, error) {
	count, err := s.col.CountDocuments(ctx, filterQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("error counting inquiries: %w", err)
	}
	return count, nil
}

func (s *InquiryStore) aggregate(ctx context.Context, pipeline []bson.M, results any) error {
	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("aggregation error: %w", err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, results); err != nil {
		return fmt.Errorf("error decoding aggregation results: %w", err)
	}
	return nil
}

// CountByStatus groups all inquiries by workflow status.
func (s *InquiryStore) CountByStatus(ctx context.Context) ([]store.StatusCount, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"_id": 1}},
	}
	out := []store.StatusCount{}
	if err := s.aggregate(ctx, pipeline, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByProduct groups all inquiries by product code.
func (s *InquiryStore) CountByProduct(ctx context.Context) ([]store.ProductCount, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$product", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"_id": 1}},
	}
	out := []store.ProductCount{}
	if err := s.aggregate(ctx, pipeline, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TotalRevenue sums total_amount over inquiries whose status is in statuses.
func (s *InquiryStore) TotalRevenue(ctx context.Context, statuses []models.InquiryStatus) (float64, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"status": bson.M{"$in": statuses}}},
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$total_amount"}}},
	}
	var out []struct {
		Total float64 `bson:"total"`
	}
	if err := s.aggregate(ctx, pipeline, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}

// RevenueStats reports total revenue, order count and average order value
// over inquiries whose status is in statuses.
func (s *InquiryStore) RevenueStats(ctx context.Context, statuses []models.InquiryStatus) (store.RevenueStats, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"status": bson.M{"$in": statuses}}},
		{"$group": bson.M{
			"_id":           nil,
			"totalRevenue":  bson.M{"$sum": "$total_amount"},
			"totalOrders":   bson.M{"$sum": 1},
			"avgOrderValue": bson.M{"$avg": "$total_amount"},
		}},
	}
	var out []store.RevenueStats
	if err := s.aggregate(ctx, pipeline, &out); err != nil {
		return store.RevenueStats{}, err
	}
	if len(out) == 0 {
		return store.RevenueStats{}, nil
	}
	return out[0], nil
}

// MonthlyStats buckets inquiries by calendar month, optionally only those
// created at or after since, ordered by year then month ascending.
func (s *InquiryStore) MonthlyStats(ctx context.Context, since *time.Time) ([]store.MonthlyBucket, error) {
	pipeline := []bson.M{}
	if since != nil {
		pipeline = append(pipeline, bson.M{"$match": bson.M{"createdAt": bson.M{"$gte": *since}}})
	}
	pipeline = append(pipeline,
		bson.M{"$group": bson.M{
			"_id":     bson.M{"year": bson.M{"$year": "$createdAt"}, "month": bson.M{"$month": "$createdAt"}},
			"count":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$total_amount"},
		}},
		bson.M{"$sort": bson.M{"_id.year": 1, "_id.month": 1}},
	)

	var raw []struct {
		ID struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
		} `bson:"_id"`
		Count   int64   `bson:"count"`
		Revenue float64 `bson:"revenue"`
	}
	if err := s.aggregate(ctx, pipeline, &raw); err != nil {
		return nil, err
	}

	out := make([]store.MonthlyBucket, 0, len(raw))
	for _, r := range raw {
		out = append(out, store.MonthlyBucket{
			Year:    r.ID.Year,
			Month:   r.ID.Month,
			Count:   r.Count,
			Revenue: r.Revenue,
		})
	}
	return out, nil
}
