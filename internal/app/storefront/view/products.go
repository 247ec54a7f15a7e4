package view

import (
	"sort"
	"strings"

	"meadowmarket/internal/app/storefront/entity"
)

// SortKey - порядок сортировки витрины
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPopular   SortKey = "popular"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
)

// ParseSortKey разбирает параметр сортировки; неизвестное значение
// даёт порядок по умолчанию (newest)
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPopular, SortPriceLow, SortPriceHigh:
		return SortKey(s)
	default:
		return SortNewest
	}
}

// SortProducts возвращает отсортированную копию списка.
// Сортировка стабильная: равные элементы сохраняют исходный порядок.
func SortProducts(products []entity.Product, key SortKey) []entity.Product {
	sorted := make([]entity.Product, len(products))
	copy(sorted, products)

	switch key {
	case SortPriceLow:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price < sorted[j].Price })
	case SortPriceHigh:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price > sorted[j].Price })
	case SortPopular:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Purchases > sorted[j].Purchases })
	default: // newest
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt > sorted[j].CreatedAt })
	}

	return sorted
}

// DisplaySet выбирает ровно один источник отображаемого набора.
// Непустой поиск побеждает фильтр категории; наборы никогда не смешиваются.
func DisplaySet(all, searchResults, categoryResults []entity.Product, keyword string, category *entity.CategoryID) []entity.Product {
	if strings.TrimSpace(keyword) != "" {
		return searchResults
	}
	if category != nil {
		return categoryResults
	}
	return all
}

// IsOutOfStock: товар распродан тогда и только тогда, когда stock == 0
func IsOutOfStock(p entity.Product) bool {
	return p.Stock == 0
}

// CanDecrement: степпер количества не опускается ниже 1
func CanDecrement(quantity int64) bool {
	return quantity > 1
}

// CanIncrement: степпер количества не поднимается выше остатка
func CanIncrement(quantity, stock int64) bool {
	return quantity < stock
}

// ClampQuantity зажимает количество в [1, stock]
func ClampQuantity(quantity, stock int64) int64 {
	if quantity < 1 {
		return 1
	}
	if quantity > stock {
		return stock
	}
	return quantity
}

// ProductView - товар с производными отображаемыми полями
type ProductView struct {
	entity.Product
	PriceDisplay string `json:"priceDisplay"`
	OutOfStock   bool   `json:"outOfStock"`
}

func NewProductView(p entity.Product) ProductView {
	return ProductView{
		Product:      p,
		PriceDisplay: FormatMinorUnits(p.Price),
		OutOfStock:   IsOutOfStock(p),
	}
}

func NewProductViews(products []entity.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, NewProductView(p))
	}
	return views
}
