package money

import "fmt"

// Amount is a currency amount in minor units (cents).
// All wallet arithmetic happens on integers so repeated hold/release
// cycles cannot accumulate rounding drift.
type Amount int64

// FromDollars builds an Amount from whole dollars and cents.
func FromDollars(dollars, cents int64) Amount {
	if dollars < 0 {
		return Amount(dollars*100 - cents)
	}
	return Amount(dollars*100 + cents)
}

// Dollars returns the whole-dollar part, truncated toward zero.
func (a Amount) Dollars() int64 {
	return int64(a) / 100
}

// Cents returns the fractional part in cents, always non-negative.
func (a Amount) Cents() int64 {
	c := int64(a) % 100
	if c < 0 {
		c = -c
	}
	return c
}

// String formats the amount as a dollar string, e.g. "$42.50" or "-$3.20".
func (a Amount) String() string {
	if a < 0 {
		return fmt.Sprintf("-$%d.%02d", -a/100, (-a)%100)
	}
	return fmt.Sprintf("$%d.%02d", a/100, a%100)
}
