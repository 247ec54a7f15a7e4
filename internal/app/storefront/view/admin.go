package view

import "meadowmarket/internal/app/storefront/entity"

// DashboardStats - агрегаты админской панели.
// Выручка считается на клиенте строго для показа, не как источник истины.
type DashboardStats struct {
	TotalProducts  int    `json:"totalProducts"`
	TotalOrders    int    `json:"totalOrders"`
	RevenueDisplay string `json:"totalRevenue"`
}

// Dashboard: число товаров и заказов - размеры загруженных списков,
// выручка - целочисленная сумма серверных итогов в display-форме
func Dashboard(products []entity.Product, orders []entity.Order) DashboardStats {
	var revenue int64
	for _, order := range orders {
		revenue += order.Total
	}

	return DashboardStats{
		TotalProducts:  len(products),
		TotalOrders:    len(orders),
		RevenueDisplay: FormatMinorUnits(revenue),
	}
}
