package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestEffectivePrice_NoDiscount(t *testing.T) {
	base := mustDecimal(t, "1299.99")

	result := EffectivePrice(base, nil)

	assert.True(t, base.Equal(result), "без скидки цена возвращается без изменений")
}

func TestEffectivePrice_ExactDecimalArithmetic(t *testing.T) {
	// base=100.00, discount=25.00 -> ровно 75.00
	base := mustDecimal(t, "100.00")
	discount := &Discount{ID: 1, DiscountValue: mustDecimal(t, "25.00")}

	result := EffectivePrice(base, discount)

	assert.True(t, mustDecimal(t, "75.00").Equal(result),
		"expected 75.00, got %s", result.String())
}

func TestEffectivePrice_FractionalDiscount(t *testing.T) {
	base := mustDecimal(t, "19.99")
	discount := &Discount{ID: 1, DiscountValue: mustDecimal(t, "10")}

	result := EffectivePrice(base, discount)

	// 19.99 - 1.999 = 17.991, без округления
	assert.True(t, mustDecimal(t, "17.991").Equal(result),
		"expected 17.991, got %s", result.String())
}

func TestEffectivePrice_ZeroDiscount(t *testing.T) {
	base := mustDecimal(t, "50.00")
	discount := &Discount{ID: 1, DiscountValue: decimal.Zero}

	result := EffectivePrice(base, discount)

	assert.True(t, base.Equal(result))
}

func TestEffectivePrice_FullDiscount(t *testing.T) {
	base := mustDecimal(t, "100.00")
	discount := &Discount{ID: 1, DiscountValue: mustDecimal(t, "100")}

	result := EffectivePrice(base, discount)

	assert.True(t, result.IsZero())
}

func TestEffectivePrice_Over100NotClamped(t *testing.T) {
	// Значение скидки больше 100 не отклоняется и не обрезается:
	// результат становится отрицательным
	base := mustDecimal(t, "100.00")
	discount := &Discount{ID: 1, DiscountValue: mustDecimal(t, "150")}

	result := EffectivePrice(base, discount)

	assert.True(t, mustDecimal(t, "-50.00").Equal(result),
		"expected -50.00, got %s", result.String())
}

func TestEffectivePrice_ExpiredDiscountStillApplies(t *testing.T) {
	// Привязанная скидка действует даже с end_date в прошлом:
	// временные поля при расчете не проверяются
	base := mustDecimal(t, "100.00")
	yesterday := time.Now().Add(-24 * time.Hour)
	discount := &Discount{
		ID:            1,
		DiscountValue: mustDecimal(t, "10"),
		EndDate:       &yesterday,
		IsActive:      false,
	}

	result := EffectivePrice(base, discount)

	assert.True(t, mustDecimal(t, "90.00").Equal(result),
		"expected 90.00, got %s", result.String())
}

func TestVariant_DiscountedPrice_IndependentOfProduct(t *testing.T) {
	// Вариант считает цену только по своей скидке
	variant := Variant{ID: 1, ProductID: 10, Price: mustDecimal(t, "200.00")}

	withoutDiscount := variant.DiscountedPrice(nil)
	assert.True(t, variant.Price.Equal(withoutDiscount))

	variantDiscount := &Discount{ID: 2, DiscountValue: mustDecimal(t, "50")}
	withDiscount := variant.DiscountedPrice(variantDiscount)
	assert.True(t, mustDecimal(t, "100.00").Equal(withDiscount))
}

func TestProduct_DiscountedPrice(t *testing.T) {
	product := Product{ID: 1, Name: "Leather Boots", Price: mustDecimal(t, "80.00")}
	discount := &Discount{ID: 3, DiscountValue: mustDecimal(t, "12.5")}

	result := product.DiscountedPrice(discount)

	assert.True(t, mustDecimal(t, "70.00").Equal(result),
		"expected 70.00, got %s", result.String())
}
