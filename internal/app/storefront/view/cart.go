package view

import "meadowmarket/internal/app/storefront/entity"

// CartLine - позиция корзины, соединённая с товаром из загруженного списка
type CartLine struct {
	ProductID    entity.ProductID `json:"productId"`
	Quantity     int64            `json:"quantity"`
	Product      entity.Product   `json:"product"`
	PriceDisplay string           `json:"priceDisplay"`
	LineSubtotal float64          `json:"lineSubtotal"`
	CanDecrement bool             `json:"canDecrement"`
	CanIncrement bool             `json:"canIncrement"`
}

// JoinCart соединяет позиции корзины с товарами по id.
// Позиция без товара (устаревший кеш, удалённый товар) молча выпадает
// из строк и из подытога; возвращается только их число.
func JoinCart(items []entity.CartItem, products []entity.Product) ([]CartLine, int) {
	byID := make(map[entity.ProductID]entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]CartLine, 0, len(items))
	missing := 0
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			missing++
			continue
		}
		lines = append(lines, CartLine{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			Product:      product,
			PriceDisplay: FormatMinorUnits(product.Price),
			LineSubtotal: LineSubtotal(product.Price, item.Quantity),
			CanDecrement: CanDecrement(item.Quantity),
			CanIncrement: CanIncrement(item.Quantity, product.Stock),
		})
	}
	return lines, missing
}

// Subtotal суммирует display-формы строк. Только для показа.
func Subtotal(lines []CartLine) float64 {
	var sum float64
	for _, line := range lines {
		sum += line.LineSubtotal
	}
	return sum
}

// CartView - корзина, готовая к отображению.
// TotalDisplay - авторитетный итог backend'а (getCartTotal), не пересчёт.
type CartView struct {
	Lines           []CartLine `json:"lines"`
	MissingLines    int        `json:"missingLines"`
	SubtotalDisplay string     `json:"subtotalDisplay"`
	TotalDisplay    string     `json:"totalDisplay"`
}

func NewCartView(items []entity.CartItem, products []entity.Product, total int64) CartView {
	lines, missing := JoinCart(items, products)
	return CartView{
		Lines:           lines,
		MissingLines:    missing,
		SubtotalDisplay: FormatDisplay(Subtotal(lines)),
		TotalDisplay:    FormatMinorUnits(total),
	}
}

// OrderLineView - строка заказа, соединённая с товаром
type OrderLineView struct {
	ProductID    entity.ProductID `json:"productId"`
	Quantity     int64            `json:"quantity"`
	Title        string           `json:"title"`
	PriceDisplay string           `json:"priceDisplay"`
	LineSubtotal float64          `json:"lineSubtotal"`
}

// OrderView - заказ с производными полями; итог - серверный Order.Total
type OrderView struct {
	Order        entity.Order    `json:"order"`
	Lines        []OrderLineView `json:"lines"`
	MissingLines int             `json:"missingLines"`
	TotalDisplay string          `json:"totalDisplay"`
}

// NewOrderView соединяет строки заказа с товарами; строки без товара
// выпадают так же молча, как и в корзине
func NewOrderView(order entity.Order, products []entity.Product) OrderView {
	byID := make(map[entity.ProductID]entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]OrderLineView, 0, len(order.Items))
	missing := 0
	for _, item := range order.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			missing++
			continue
		}
		lines = append(lines, OrderLineView{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			Title:        product.Title,
			PriceDisplay: FormatMinorUnits(product.Price),
			LineSubtotal: LineSubtotal(product.Price, item.Quantity),
		})
	}

	return OrderView{
		Order:        order,
		Lines:        lines,
		MissingLines: missing,
		TotalDisplay: FormatMinorUnits(order.Total),
	}
}
