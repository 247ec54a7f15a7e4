package view

import (
	"fmt"
	"strconv"
)

// FormatMinorUnits переводит сумму в минорных единицах в строку с двумя
// знаками после запятой. Считается целочисленно и точен для любого
// неотрицательного int64 - без накопления float-ошибок.
func FormatMinorUnits(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}

// DisplayUnits - значение цены в отображаемой (дробной) форме.
// Используется только для отображения, никогда для расчёта к оплате:
// авторитетный итог всегда приходит от backend'а.
func DisplayUnits(amount int64) float64 {
	return float64(amount) / 100
}

// LineSubtotal - отображаемая сумма одной строки: цена в display-форме,
// умноженная на количество. Строки суммируются только для показа.
func LineSubtotal(price, quantity int64) float64 {
	return DisplayUnits(price) * float64(quantity)
}

// FormatDisplay форматирует display-форму с двумя знаками
func FormatDisplay(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
