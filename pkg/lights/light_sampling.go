package lights

import (
	"github.com/df07/go-model-thumbnailer/pkg/core"
)

// SampleLight selects and samples a light using the light sampler.
// The returned PDF includes the light selection probability.
func SampleLight(lightSampler LightSampler, point core.Vec3, normal core.Vec3, sampler core.Sampler) (LightSample, bool) {
	if lightSampler == nil || lightSampler.GetLightCount() == 0 {
		return LightSample{}, false
	}
	selectedLight, lightSelectionPdf, _ := lightSampler.SampleLight(sampler.Get1D())
	if selectedLight == nil || lightSelectionPdf <= 0 {
		return LightSample{}, false
	}

	sample := selectedLight.Sample(point, normal, sampler.Get2D())
	sample.PDF *= lightSelectionPdf

	return sample, true
}
