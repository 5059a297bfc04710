package well

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrictionFactor(t *testing.T) {
	assert.InDelta(t, 64.0/1000, frictionFactor(1000, 1e-3), 1e-15)
	assert.InDelta(t, 0.018513866, frictionFactor(1e5, 1e-4), 1e-8)
	assert.InDelta(t, 0.011645041, frictionFactor(1e6, 0), 1e-8)
	assert.InDelta(t, 0.024020784, frictionFactor(5e4, 1e-3), 1e-8)
	assert.Equal(t, 0.0, frictionFactor(0, 1e-3))

	// rougher pipes lose more
	assert.Greater(t, frictionFactor(1e5, 1e-3), frictionFactor(1e5, 1e-4))
}

func TestHeatFlux(t *testing.T) {
	assert.InDelta(t, 6.129041096, heatFlux(0.01), 1e-8)
	assert.InDelta(t, 0.198913583, heatFlux(1e4), 1e-8)

	prev := heatFlux(2.8)
	for td := 3.0; td < 1e9; td *= 1.5 {
		f := heatFlux(td)
		assert.Less(t, f, prev, "tD = %g", td)
		assert.Greater(t, f, 0.0)
		prev = f
	}
}
