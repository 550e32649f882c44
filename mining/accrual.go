package mining

// Accrue computes the ZEC earned by a given hash rate over the elapsed
// interval. It is pure and additive in elapsedSeconds; negative elapsed
// time (clock stepped backwards between reads) earns nothing.
func Accrue(hashRate int64, baseMiningRate, elapsedSeconds float64) float64 {
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	return float64(hashRate) * baseMiningRate * elapsedSeconds
}
