package validation

import (
	"math"
	"strconv"
	"strings"

	"meadowmarket/internal/app/storefront/entity"
)

// Чистые валидаторы форм: одно и то же значение всегда даёт одну и ту же
// карту поле->сообщение, без сети и без кеша. Пустая карта = форма валидна.

const minAddressLength = 10

// ValidateProductForm проверяет форму товара (поля приходят строками из формы)
func ValidateProductForm(form entity.ProductFormRequest) map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(form.Title) == "" {
		errors["title"] = "Title is required"
	}

	if strings.TrimSpace(form.Description) == "" {
		errors["description"] = "Description is required"
	}

	price, err := strconv.ParseFloat(form.Price, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		errors["price"] = "Price must be greater than 0"
	}

	stock, err := strconv.ParseInt(form.Stock, 10, 64)
	if err != nil || stock < 0 {
		errors["stock"] = "Stock must be 0 or greater"
	}

	if form.CategoryID == "" {
		errors["categoryId"] = "Category is required"
	}

	return errors
}

// ValidateCheckoutForm проверяет форму оформления заказа
func ValidateCheckoutForm(form entity.CheckoutRequest) map[string]string {
	errors := make(map[string]string)

	address := strings.TrimSpace(form.Address)
	if address == "" {
		errors["address"] = "Shipping address is required"
	} else if len(address) < minAddressLength {
		errors["address"] = "Please provide a complete address"
	}

	return errors
}

// ValidateQuantity: количество - целое число не меньше 1
func ValidateQuantity(quantity int64) string {
	if quantity < 1 {
		return "Quantity must be at least 1"
	}
	return ""
}
