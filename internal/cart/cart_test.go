package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IT22091352/wasana-products/internal/models"
)

func newTestCart() *Cart {
	return New(NewMemoryStore(), "")
}

func TestAddThenItems(t *testing.T) {
	ctx := context.Background()
	c := newTestCart()

	items, err := c.Add(ctx, Item{Product: models.ProductPureWhite, Size: models.SizeMedium, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.ProductPureWhite, items[0].Product)
	assert.Equal(t, 2, items[0].Quantity)

	got := c.Items(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, items[0], got[0])
}

func TestAddDefaults(t *testing.T) {
	ctx := context.Background()
	c := newTestCart()

	items, err := c.Add(ctx, Item{Product: models.ProductSealedPrinted})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.SizeMedium, items[0].Size)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestAddWithoutProductIgnored(t *testing.T) {
	ctx := context.Background()
	c := newTestCart()

	items, err := c.Add(ctx, Item{Quantity: 3})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Empty(t, c.Items(ctx))
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	c := newTestCart()

	_, err := c.Add(ctx, Item{Product: models.ProductPureWhite, Size: models.SizeMedium, Quantity: 2})
	require.NoError(t, err)

	q := 5
	items, err := c.Update(ctx, 0, ItemPatch{Quantity: &q})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	// Product and size unchanged.
	assert.Equal(t, models.ProductPureWhite, items[0].Product)
	assert.Equal(t, models.SizeMedium, items[0].Size)
}

func TestUpdateClampsQuantity(t *testing.T) {
	ctx := context.Background()
	c := newTestCart()

	_, err := c.Add(ctx, Item{Product: models.ProductPureWhite, Quantity: 2})
	require.NoError(t, err)

	q := 0
	items, err := c.Update(ctx, 0, ItemPatch{Quantity: &q})
	require.NoError(t, err)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestUpdateOutOfRange(t *testing.T) {
	ctx := context.Background()
	c := newTestCart()

	_, err := c.Add(ctx, Item{Product: models.ProductPureWhite, Quantity: 2})
	require.NoError(t, err)

	q := 9
	items, err := c.Update(ctx, 3, ItemPatch{Quantity: &q})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestRemovePreservesOrder(t *testing.T) {
	ctx := context.Background()
	c := newTestCart()

	for _, p := range []models.ProductCode{models.ProductPureWhite, models.ProductInsidePrinted, models.ProductSealedPrinted} {
		_, err := c.Add(ctx, Item{Product: p, Quantity: 1})
		require.NoError(t, err)
	}

	items, err := c.Remove(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.ProductPureWhite, items[0].Product)
	assert.Equal(t, models.ProductSealedPrinted, items[1].Product)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	c := newTestCart()

	_, err := c.Add(ctx, Item{Product: models.ProductPureWhite, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, c.Clear(ctx))
	assert.Empty(t, c.Items(ctx))
}

func TestCorruptPayloadReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, StorageKey, []byte("{definitely not a cart")))

	c := New(store, "")
	assert.Empty(t, c.Items(ctx))

	// The cart is usable again after the next write.
	items, err := c.Add(ctx, Item{Product: models.ProductPureWhite, Quantity: 2})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestNormalizeOnRead(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	// A hand-edited payload missing size and holding a zero quantity.
	require.NoError(t, store.Set(ctx, StorageKey, []byte(`[{"product":"pure-white","quantity":0}]`)))

	c := New(store, "")
	items := c.Items(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, models.SizeMedium, items[0].Size)
	assert.Equal(t, 1, items[0].Quantity)
}
