package entity

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// EffectivePrice вычисляет цену с учетом привязанной скидки:
// base - base * (discount_value / 100), точная decimal-арифметика.
//
// Контракт намеренно простой: скидка применяется всегда, когда привязана.
// is_active, start_date и end_date здесь НЕ проверяются - это
// зафиксированное поведение системы, а не упущение. Значение скидки
// вне [0, 100] не отклоняется: значение больше 100 дает отрицательную цену
func EffectivePrice(base decimal.Decimal, d *Discount) decimal.Decimal {
	if d == nil {
		return base
	}
	return base.Sub(base.Mul(d.DiscountValue).Div(oneHundred))
}

// DiscountedPrice возвращает действующую цену товара по его скидке
func (p *Product) DiscountedPrice(d *Discount) decimal.Decimal {
	return EffectivePrice(p.Price, d)
}

// DiscountedPrice возвращает действующую цену варианта.
// Вариант считает цену только по СВОЕЙ скидке и никогда
// не наследует скидку родительского товара
func (v *Variant) DiscountedPrice(d *Discount) decimal.Decimal {
	return EffectivePrice(v.Price, d)
}
