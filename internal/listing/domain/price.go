package domain

// Currency codes used by the marketplace. Sale listings are conventionally
// priced in USD and rentals in PEN; the convention is advisory, not enforced.
const (
	CurrencyUSD = "USD"
	CurrencyPEN = "PEN"
)

// Price is an amount in a single currency.
type Price struct {
	Amount   float64
	Currency string
}

func NewPrice(amount float64, currency string) Price {
	return Price{Amount: amount, Currency: currency}
}

func (p Price) IsPositive() bool {
	return p.Amount > 0
}

// Equals reports whether both amount and currency match exactly.
func (p Price) Equals(other Price) bool {
	return p.Amount == other.Amount && p.Currency == other.Currency
}
