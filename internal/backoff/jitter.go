package backoff

import (
	"math/rand"
	"time"
)

// Jitter liefert eine zufällige Verzögerung in [0, max), um kleine
// Schwankungen zwischen parallelen Wiederholungen zu erzeugen.
func Jitter(max time.Duration) time.Duration {
	return time.Duration(rand.Float64() * float64(max))
}
