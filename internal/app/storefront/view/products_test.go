package view

import (
	"testing"

	"meadowmarket/internal/app/storefront/entity"

	"github.com/stretchr/testify/assert"
)

func newTestProduct(id entity.ProductID, price, purchases, createdAt int64) entity.Product {
	return entity.Product{
		ID:        id,
		Title:     "Product",
		Price:     price,
		Stock:     10,
		Purchases: purchases,
		CreatedAt: createdAt,
	}
}

// ==================== SortProducts Tests ====================

func TestSortProducts_PriceLow(t *testing.T) {
	// Arrange
	products := []entity.Product{
		newTestProduct(1, 300, 0, 0),
		newTestProduct(2, 100, 0, 0),
		newTestProduct(3, 200, 0, 0),
	}

	// Act
	sorted := SortProducts(products, SortPriceLow)

	// Assert
	assert.Equal(t, entity.ProductID(2), sorted[0].ID)
	assert.Equal(t, entity.ProductID(3), sorted[1].ID)
	assert.Equal(t, entity.ProductID(1), sorted[2].ID)
}

func TestSortProducts_PriceHigh(t *testing.T) {
	products := []entity.Product{
		newTestProduct(1, 300, 0, 0),
		newTestProduct(2, 100, 0, 0),
		newTestProduct(3, 200, 0, 0),
	}

	sorted := SortProducts(products, SortPriceHigh)

	assert.Equal(t, entity.ProductID(1), sorted[0].ID)
	assert.Equal(t, entity.ProductID(3), sorted[1].ID)
	assert.Equal(t, entity.ProductID(2), sorted[2].ID)
}

func TestSortProducts_Popular(t *testing.T) {
	products := []entity.Product{
		newTestProduct(1, 0, 5, 0),
		newTestProduct(2, 0, 50, 0),
		newTestProduct(3, 0, 20, 0),
	}

	sorted := SortProducts(products, SortPopular)

	assert.Equal(t, entity.ProductID(2), sorted[0].ID)
	assert.Equal(t, entity.ProductID(3), sorted[1].ID)
	assert.Equal(t, entity.ProductID(1), sorted[2].ID)
}

func TestSortProducts_NewestIsDefault(t *testing.T) {
	products := []entity.Product{
		newTestProduct(1, 0, 0, 100),
		newTestProduct(2, 0, 0, 300),
		newTestProduct(3, 0, 0, 200),
	}

	sorted := SortProducts(products, ParseSortKey("bogus"))

	assert.Equal(t, entity.ProductID(2), sorted[0].ID)
	assert.Equal(t, entity.ProductID(3), sorted[1].ID)
	assert.Equal(t, entity.ProductID(1), sorted[2].ID)
}

func TestSortProducts_StableOnEqualKeys(t *testing.T) {
	// Равные цены сохраняют исходный порядок
	products := []entity.Product{
		newTestProduct(1, 100, 0, 0),
		newTestProduct(2, 100, 0, 0),
		newTestProduct(3, 100, 0, 0),
	}

	sorted := SortProducts(products, SortPriceLow)

	assert.Equal(t, entity.ProductID(1), sorted[0].ID)
	assert.Equal(t, entity.ProductID(2), sorted[1].ID)
	assert.Equal(t, entity.ProductID(3), sorted[2].ID)
}

func TestSortProducts_DoesNotMutateInput(t *testing.T) {
	products := []entity.Product{
		newTestProduct(1, 300, 0, 0),
		newTestProduct(2, 100, 0, 0),
	}

	SortProducts(products, SortPriceLow)

	assert.Equal(t, entity.ProductID(1), products[0].ID)
}

// ==================== DisplaySet Tests ====================

func TestDisplaySet_SearchBeatsCategory(t *testing.T) {
	all := []entity.Product{newTestProduct(1, 0, 0, 0)}
	searchResults := []entity.Product{newTestProduct(2, 0, 0, 0)}
	categoryResults := []entity.Product{newTestProduct(3, 0, 0, 0)}
	category := entity.CategoryID(7)

	set := DisplaySet(all, searchResults, categoryResults, "honey", &category)

	assert.Equal(t, searchResults, set)
}

func TestDisplaySet_WhitespaceKeywordIsEmpty(t *testing.T) {
	all := []entity.Product{newTestProduct(1, 0, 0, 0)}
	categoryResults := []entity.Product{newTestProduct(3, 0, 0, 0)}
	category := entity.CategoryID(7)

	set := DisplaySet(all, nil, categoryResults, "   ", &category)

	assert.Equal(t, categoryResults, set)
}

func TestDisplaySet_DefaultsToFullList(t *testing.T) {
	all := []entity.Product{newTestProduct(1, 0, 0, 0)}

	set := DisplaySet(all, nil, nil, "", nil)

	assert.Equal(t, all, set)
}

// ==================== Stock Helpers Tests ====================

func TestIsOutOfStock(t *testing.T) {
	assert.True(t, IsOutOfStock(entity.Product{Stock: 0}))
	assert.False(t, IsOutOfStock(entity.Product{Stock: 1}))
}

func TestQuantityStepper(t *testing.T) {
	assert.False(t, CanDecrement(1))
	assert.True(t, CanDecrement(2))
	assert.True(t, CanIncrement(4, 5))
	assert.False(t, CanIncrement(5, 5))
}

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, int64(1), ClampQuantity(0, 10))
	assert.Equal(t, int64(10), ClampQuantity(15, 10))
	assert.Equal(t, int64(5), ClampQuantity(5, 10))
}

// ==================== ProductView Tests ====================

func TestNewProductView(t *testing.T) {
	p := entity.Product{ID: 1, Price: 1999, Stock: 0}

	v := NewProductView(p)

	assert.Equal(t, "19.99", v.PriceDisplay)
	assert.True(t, v.OutOfStock)
}
