// Package money переводит денежные суммы между десятичной записью и копейками.
package money

import (
	"strings"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// MaxCents — верхняя граница цены: 1 млрд в копейках.
const MaxCents int64 = 1_000_000_000 * 100

var (
	hundred  = decimal.NewFromInt(100)
	maxPrice = decimal.New(MaxCents, -2)
)

// ParseCents переводит строку вида "599.99" или "600" в копейки.
// Возвращает ошибку, если:
// - формат некорректен
// - больше 2 знаков после запятой
// - значение отрицательное
// - значение превышает 1 млрд
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, e.ErrInvalidPrice
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	return FromDecimal(d)
}

// FromDecimal переводит decimal в копейки с теми же проверками, что и ParseCents.
func FromDecimal(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, e.ErrInvalidPrice
	}

	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return 0, e.ErrPricePrecision
	}

	return d.Mul(hundred).Round(0).IntPart(), nil
}

// ToDecimal переводит копейки в decimal с двумя знаками после запятой.
func ToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Format возвращает строку вида "12.50".
func Format(cents int64) string {
	return ToDecimal(cents).StringFixed(2)
}

// ToFloat переводит копейки в число для JSON-ответов.
func ToFloat(cents int64) float64 {
	return ToDecimal(cents).InexactFloat64()
}

// PercentFactor возвращает множитель (1 + percent/100).
// Тот же множитель передаётся в SQL, чтобы расчёт в Go и в БД совпадал.
func PercentFactor(percent decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(percent.Div(hundred))
}

// ApplyPercent возвращает цену, изменённую на percent процентов, округлённую до копеек.
// Половина округляется от нуля, как ROUND(numeric) в PostgreSQL.
func ApplyPercent(cents int64, percent decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(cents).Mul(PercentFactor(percent)).Round(0)
}
