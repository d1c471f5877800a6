package backoff

import (
	"math"
	"time"
)

// here we define our funcs for the exponential backoff strategies

// ExponentialBackoff liefert 2^attempts Sekunden Wartezeit.
func ExponentialBackoff(attempts int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempts))) * time.Second
}

// DoublingBackoff skaliert eine Basisverzögerung mit 2^attempts.
// Die Seiten-Transkription wartet damit 16s, 32s, 64s, ...
func DoublingBackoff(base time.Duration, attempts int) time.Duration {
	return base * time.Duration(math.Pow(2, float64(attempts)))
}
