package validation

import (
	"testing"

	"meadowmarket/internal/app/storefront/entity"

	"github.com/stretchr/testify/assert"
)

// ==================== ValidateProductForm Tests ====================

func TestValidateProductForm_Valid(t *testing.T) {
	form := entity.ProductFormRequest{
		Title:       "Honey",
		Description: "Wildflower honey",
		Price:       "12.50",
		Stock:       "10",
		CategoryID:  "1",
	}

	errors := ValidateProductForm(form)

	assert.Empty(t, errors)
}

func TestValidateProductForm_BlankTitleAndDescription(t *testing.T) {
	form := entity.ProductFormRequest{
		Title:       "   ",
		Description: "",
		Price:       "10",
		Stock:       "0",
		CategoryID:  "1",
	}

	errors := ValidateProductForm(form)

	assert.Equal(t, "Title is required", errors["title"])
	assert.Equal(t, "Description is required", errors["description"])
}

func TestValidateProductForm_PriceMustBePositive(t *testing.T) {
	cases := []string{"0", "-5", "abc", "", "NaN", "Inf"}

	for _, price := range cases {
		form := entity.ProductFormRequest{
			Title:       "Honey",
			Description: "Desc",
			Price:       price,
			Stock:       "1",
			CategoryID:  "1",
		}

		errors := ValidateProductForm(form)

		assert.Equal(t, "Price must be greater than 0", errors["price"], "price=%q", price)
	}
}

func TestValidateProductForm_StockMustBeNonNegative(t *testing.T) {
	form := entity.ProductFormRequest{
		Title:       "Honey",
		Description: "Desc",
		Price:       "10",
		Stock:       "-1",
		CategoryID:  "1",
	}

	errors := ValidateProductForm(form)

	assert.Equal(t, "Stock must be 0 or greater", errors["stock"])
}

func TestValidateProductForm_ZeroStockIsValid(t *testing.T) {
	// Распроданный товар - валидное состояние формы
	form := entity.ProductFormRequest{
		Title:       "Honey",
		Description: "Desc",
		Price:       "10",
		Stock:       "0",
		CategoryID:  "1",
	}

	errors := ValidateProductForm(form)

	assert.NotContains(t, errors, "stock")
}

func TestValidateProductForm_CategoryRequired(t *testing.T) {
	form := entity.ProductFormRequest{
		Title:       "Honey",
		Description: "Desc",
		Price:       "10",
		Stock:       "1",
		CategoryID:  "",
	}

	errors := ValidateProductForm(form)

	assert.Equal(t, "Category is required", errors["categoryId"])
}

func TestValidateProductForm_Deterministic(t *testing.T) {
	// Одна и та же форма всегда даёт одну и ту же карту ошибок
	form := entity.ProductFormRequest{Title: "", Price: "-1", Stock: "-1"}

	first := ValidateProductForm(form)
	second := ValidateProductForm(form)

	assert.Equal(t, first, second)
}

// ==================== ValidateCheckoutForm Tests ====================

func TestValidateCheckoutForm_Valid(t *testing.T) {
	form := entity.CheckoutRequest{Address: "12 Meadow Lane, Springfield"}

	errors := ValidateCheckoutForm(form)

	assert.Empty(t, errors)
}

func TestValidateCheckoutForm_BlankAddress(t *testing.T) {
	for _, address := range []string{"", "    "} {
		errors := ValidateCheckoutForm(entity.CheckoutRequest{Address: address})

		assert.Equal(t, "Shipping address is required", errors["address"])
	}
}

func TestValidateCheckoutForm_TooShortAddress(t *testing.T) {
	errors := ValidateCheckoutForm(entity.CheckoutRequest{Address: "short"})

	assert.Equal(t, "Please provide a complete address", errors["address"])
}

func TestValidateCheckoutForm_TrimsBeforeLengthCheck(t *testing.T) {
	// Пробелы не засчитываются в длину адреса
	errors := ValidateCheckoutForm(entity.CheckoutRequest{Address: "   short   "})

	assert.Equal(t, "Please provide a complete address", errors["address"])
}

// ==================== ValidateQuantity Tests ====================

func TestValidateQuantity(t *testing.T) {
	assert.Equal(t, "", ValidateQuantity(1))
	assert.Equal(t, "", ValidateQuantity(100))
	assert.Equal(t, "Quantity must be at least 1", ValidateQuantity(0))
	assert.Equal(t, "Quantity must be at least 1", ValidateQuantity(-3))
}
