package fields

import "math"

// Price is a catalog price in rupees. Zero marks the free tier.
type Price float64

func (p Price) IsFree() bool {
	return p == 0
}

// MinorUnits converts the price to paise, the unit the payment gateway expects.
func (p Price) MinorUnits() int64 {
	return int64(math.Round(float64(p) * 100))
}
