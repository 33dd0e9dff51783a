package utils

import (
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// RandomSource wraps go-randomdata with a fixed seed so the
// starfield looks the same on every start
type RandomSource struct {
	names map[string]struct{}
}

func NewRandomSource(seed int64) *RandomSource {
	randomdata.CustomRand(rand.New(rand.NewSource(seed)))
	return &RandomSource{names: make(map[string]struct{})}
}

func (rs *RandomSource) RandomName() string {
	for {
		name := randomdata.SillyName()
		// avoid duplicate names
		if _, exists := rs.names[name]; !exists {
			rs.names[name] = struct{}{}
			return name
		}
	}
}

// FloatSpread returns value within [-spread/2, spread/2]
func (rs *RandomSource) FloatSpread(spread float64) float32 {
	half := int(spread / 2)
	return float32(randomdata.Decimal(-half, half, 3))
}
