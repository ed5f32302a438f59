package domain

import "github.com/shopspring/decimal"

// pricePrecision is the number of minor-unit digits in a price.
const pricePrecision = 2

// FormatPrice renders an integer minor-unit amount, e.g. 150000 -> "1500.00".
func FormatPrice(minor int64) string {
	return decimal.New(minor, -pricePrecision).StringFixed(pricePrecision)
}
