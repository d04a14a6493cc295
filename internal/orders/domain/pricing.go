package orders

import "github.com/shopspring/decimal"

// PriceList holds the ticket prices in euro. It is injected wherever a
// total is computed so tests can vary prices without touching globals.
type PriceList struct {
	Discount decimal.Decimal
	Regular  decimal.Decimal
}

// TicketPrice returns the price of a single ticket of the given type.
func (p PriceList) TicketPrice(t TicketType) decimal.Decimal {
	if t == TicketDiscount {
		return p.Discount
	}
	return p.Regular
}

// ExpectedAmount returns the total price of an order: discount seats times
// the discount price plus regular seats times the regular price.
func (p PriceList) ExpectedAmount(numDiscount, numRegular int) decimal.Decimal {
	discounted := p.Discount.Mul(decimal.NewFromInt(int64(numDiscount)))
	regular := p.Regular.Mul(decimal.NewFromInt(int64(numRegular)))
	return discounted.Add(regular)
}
