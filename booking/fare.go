package booking

import "time"

// FareCalculator is the pricing seam. Route-sensitive pricing replaces the
// fixed policy without touching the rest of the engine.
type FareCalculator interface {
	Fare(from, to string, journeyDate time.Time, trainNumber string) float64
}

// FixedFare charges the same amount regardless of route.
type FixedFare struct {
	Amount float64
}

func (f FixedFare) Fare(string, string, time.Time, string) float64 {
	return f.Amount
}

const StandardFare = 500.00
