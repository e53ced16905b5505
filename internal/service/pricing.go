package service

import (
	"math"

	"tmf-api/internal/model"
)

// TaxRateFactor は税込金額から税抜金額を求める係数（一律15%の近似）
const (
	TaxRateFactor  = 1.15
	TaxRatePercent = 15.0
)

// ComputeOrderTotal は全明細のitemPriceのtaxIncludedAmount.valueを合計する
// 通貨単位は最後に見つかった価格のもの。合計が0の場合はnilを返す
func ComputeOrderTotal(items []any) model.Resource {
	total := 0.0
	unit := ""

	for _, item := range items {
		itemObj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		prices, _ := itemObj["itemPrice"].([]any)
		for _, p := range prices {
			amount, ok := resolvePath(p, "price.taxIncludedAmount")
			if !ok {
				continue
			}
			money, ok := amount.(map[string]any)
			if !ok {
				continue
			}
			if value, ok := money["value"].(float64); ok {
				total += value
			}
			if u, ok := money["unit"].(string); ok && u != "" {
				unit = u
			}
		}
	}

	if total == 0 {
		return nil
	}
	if unit == "" {
		unit = model.DefaultCurrency
	}

	return model.Resource{
		model.FieldType: model.TypeOrderPrice,
		"name":          "Total Price",
		"priceType":     "total",
		"price": map[string]any{
			model.FieldType:     "Price",
			"taxRate":           TaxRatePercent,
			"taxIncludedAmount": map[string]any{"unit": unit, "value": total},
			"dutyFreeAmount":    map[string]any{"unit": unit, "value": roundHalfUp(total / TaxRateFactor)},
		},
	}
}

// roundHalfUp は.5を正の無限大方向に丸める
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
