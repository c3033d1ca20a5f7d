package models

import "github.com/shopspring/decimal"

// ToFloat64 safely converts decimal to float64
func ToFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// Closes extracts close prices as float64 in record order
func Closes(records []StockRecord) []float64 {
	closes := make([]float64, len(records))
	for i, r := range records {
		closes[i] = ToFloat64(r.Close)
	}
	return closes
}
