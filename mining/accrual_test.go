package mining

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zecpool/cloud-miner/model"
)

const baseRate = 0.0000000001

func TestAccrueAdditive(t *testing.T) {
	intervals := []struct {
		t1, t2 float64
	}{
		{0, 0},
		{1, 1},
		{3600, 0},
		{0.5, 1799.5},
		{86400, 3600},
	}

	for _, interval := range intervals {
		split := Accrue(10_000, baseRate, interval.t1) + Accrue(10_000, baseRate, interval.t2)
		whole := Accrue(10_000, baseRate, interval.t1+interval.t2)
		assert.InDelta(t, whole, split, 1e-15,
			"accrue(%v)+accrue(%v) must equal accrue(%v)", interval.t1, interval.t2, interval.t1+interval.t2)
	}
}

func TestAccrueMonotonic(t *testing.T) {
	previous := 0.0
	for _, elapsed := range []float64{0, 1, 60, 3600, 86400} {
		earned := Accrue(50*model.KH, baseRate, elapsed)
		assert.GreaterOrEqual(t, earned, previous)
		previous = earned
	}
}

func TestAccrueNeverNegative(t *testing.T) {
	// Clock stepped backwards between reads.
	assert.Zero(t, Accrue(10_000, baseRate, -3600))
	assert.Zero(t, Accrue(0, baseRate, 3600))
}

func TestAccrueScenario(t *testing.T) {
	// 10 kH/s for one hour at the default base rate.
	earned := Accrue(10_000, 1e-10, 3600)
	assert.InDelta(t, 0.0036, earned, 1e-12)
}
