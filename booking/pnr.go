package booking

import (
	"fmt"
	"math/rand"
)

// ReferenceGenerator produces candidate booking references (PNRs).
type ReferenceGenerator func() string

// RandomReference draws uniformly from the space of 10-digit decimal
// strings, zero-padded. Uniqueness is enforced by the store, not here.
func RandomReference() string {
	return fmt.Sprintf("%010d", rand.Int63n(1e10))
}
