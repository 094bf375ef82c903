// Package cart implements the inquiry cart: an ordered list of envelope
// selections kept per visitor under a single key, last write wins. The
// storage behind it is pluggable; the in-memory store backs tests and the
// Redis store backs a shared deployment.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/IT22091352/wasana-products/internal/models"
)

// StorageKey is the key the cart lives under, per visitor.
const StorageKey = "inquiry_cart"

// ErrNoValue is returned by a Store when the key has no stored value.
var ErrNoValue = errors.New("no value stored")

// Store is the key-value storage a Cart persists through.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Item is one cart line.
type Item struct {
	Product  models.ProductCode  `json:"product"`
	Size     models.EnvelopeSize `json:"size"`
	Quantity int                 `json:"quantity"`
	Notes    string              `json:"notes"`
}

// ItemPatch carries field updates for one cart line. Nil fields keep the
// current value.
type ItemPatch struct {
	Product  *models.ProductCode
	Size     *models.EnvelopeSize
	Quantity *int
	Notes    *string
}

// Cart reads and mutates one visitor's cart. Every operation re-reads the
// stored value and writes the whole list back, matching the storage medium's
// last-write-wins behavior.
type Cart struct {
	store Store
	key   string
}

// New returns a Cart for the given visitor key. An empty key uses the
// default.
func New(store Store, key string) *Cart {
	if key == "" {
		key = StorageKey
	}
	return &Cart{store: store, key: key}
}

// normalize fills defaults: size M, quantity at least 1.
func normalize(item Item) Item {
	if item.Size == "" {
		item.Size = models.SizeMedium
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	return item
}

// read loads the stored list. Missing or corrupt payloads read as an empty
// cart rather than an error.
func (c *Cart) read(ctx context.Context) []Item {
	raw, err := c.store.Get(ctx, c.key)
	if err != nil {
		if !errors.Is(err, ErrNoValue) {
			log.Printf("Failed to read cart %q: %v", c.key, err)
		}
		return nil
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Printf("Discarding corrupt cart payload for %q: %v", c.key, err)
		return nil
	}
	for i := range items {
		items[i] = normalize(items[i])
	}
	return items
}

func (c *Cart) write(ctx context.Context, items []Item) error {
	if items == nil {
		items = []Item{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.key, raw)
}

// Items returns the cart lines in insertion order.
func (c *Cart) Items(ctx context.Context) []Item {
	return c.read(ctx)
}

// Add appends an item. Items without a product are ignored.
func (c *Cart) Add(ctx context.Context, item Item) ([]Item, error) {
	if item.Product == "" {
		return c.read(ctx), nil
	}
	items := append(c.read(ctx), normalize(item))
	if err := c.write(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Update patches the item at index. An out-of-range index leaves the cart
// untouched.
func (c *Cart) Update(ctx context.Context, index int, patch ItemPatch) ([]Item, error) {
	items := c.read(ctx)
	if index < 0 || index >= len(items) {
		return items, nil
	}
	current := items[index]
	if patch.Product != nil && *patch.Product != "" {
		current.Product = *patch.Product
	}
	if patch.Size != nil && *patch.Size != "" {
		current.Size = *patch.Size
	}
	if patch.Quantity != nil {
		current.Quantity = *patch.Quantity
	}
	if patch.Notes != nil {
		current.Notes = *patch.Notes
	}
	items[index] = normalize(current)
	if err := c.write(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Remove drops the item at index. An out-of-range index leaves the cart
// untouched.
func (c *Cart) Remove(ctx context.Context, index int) ([]Item, error) {
	items := c.read(ctx)
	if index < 0 || index >= len(items) {
		return items, nil
	}
	items = append(items[:index], items[index+1:]...)
	if err := c.write(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) error {
	return c.write(ctx, nil)
}
