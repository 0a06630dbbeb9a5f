package lights

import (
	"fmt"
)

// WeightedLightSampler implements light sampling with fixed per-light weights.
// Weights must match the order of lights in the scene's Lights array.
type WeightedLightSampler struct {
	lights  []Light
	weights []float64
}

// NewWeightedLightSampler creates a light sampler with specified weights.
// Weights are normalized to sum to 1.0; all-zero weights fall back to uniform.
func NewWeightedLightSampler(lights []Light, weights []float64) (*WeightedLightSampler, error) {
	if len(lights) != len(weights) {
		return nil, fmt.Errorf("lights length (%d) must match weights length (%d)", len(lights), len(weights))
	}

	totalWeight := 0.0
	for i, weight := range weights {
		if weight < 0 {
			return nil, fmt.Errorf("weight %d is negative: %f", i, weight)
		}
		totalWeight += weight
	}

	normalizedWeights := make([]float64, len(weights))
	for i, weight := range weights {
		if totalWeight == 0 {
			normalizedWeights[i] = 1.0 / float64(len(weights))
		} else {
			normalizedWeights[i] = weight / totalWeight
		}
	}

	return &WeightedLightSampler{
		lights:  lights,
		weights: normalizedWeights,
	}, nil
}

// NewPowerLightSampler weights each light by its emitted power
func NewPowerLightSampler(lights []Light) *WeightedLightSampler {
	weights := make([]float64, len(lights))
	for i, light := range lights {
		weights[i] = max(0, light.Power())
	}
	// Powers are never negative, so this cannot fail
	sampler, _ := NewWeightedLightSampler(lights, weights)
	return sampler
}

// SampleLight selects a light using the fixed weights.
// Returns the selected light, its selection probability, and its index.
func (wls *WeightedLightSampler) SampleLight(u float64) (Light, float64, int) {
	if len(wls.lights) == 0 {
		return nil, 0, -1
	}

	cumulative := 0.0
	for i, weight := range wls.weights {
		cumulative += weight
		if u < cumulative {
			return wls.lights[i], weight, i
		}
	}

	// Floating point slack: fall back to the last light with a non-zero weight
	for i := len(wls.weights) - 1; i >= 0; i-- {
		if wls.weights[i] > 0 {
			return wls.lights[i], wls.weights[i], i
		}
	}
	return nil, 0, -1
}

// GetLightProbability returns the selection probability for a specific light
func (wls *WeightedLightSampler) GetLightProbability(lightIndex int) float64 {
	if lightIndex < 0 || lightIndex >= len(wls.weights) {
		return 0
	}
	return wls.weights[lightIndex]
}

// GetLightCount returns the number of lights in this sampler
func (wls *WeightedLightSampler) GetLightCount() int {
	return len(wls.lights)
}
