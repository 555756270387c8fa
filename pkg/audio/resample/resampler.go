// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Converts reference clips to the shared output format for preview
package resample

import (
	"fmt"

	"github.com/harperreed/ttsstudio-go/pkg/audio"
)

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
	position   float64
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
		position:   0.0,
	}
}

// Resample converts input samples to output sample rate using linear interpolation
// input: interleaved samples at inputRate
// output: interleaved samples at outputRate
func (r *Resampler) Resample(input []float32, output []float32) int {
	if len(input) == 0 {
		return 0
	}

	inputFrames := len(input) / r.channels
	outputFrames := len(output) / r.channels

	outIdx := 0

	for outIdx < outputFrames {
		inputPos := r.position
		inputIdx := int(inputPos)

		// If we've consumed all input, stop
		if inputIdx >= inputFrames-1 {
			break
		}

		frac := float32(inputPos - float64(inputIdx))

		for ch := 0; ch < r.channels; ch++ {
			sample1 := input[inputIdx*r.channels+ch]
			sample2 := input[(inputIdx+1)*r.channels+ch]

			output[outIdx*r.channels+ch] = sample1*(1.0-frac) + sample2*frac
		}

		outIdx++
		r.position += r.ratio
	}

	// Keep the fractional part, relative to the start of the next chunk
	r.position -= float64(int(r.position))

	return outIdx * r.channels
}

// OutputSamplesNeeded calculates how many output samples will be produced from input samples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	inputFrames := inputSamples / r.channels
	outputFrames := int(float64(inputFrames) / r.ratio)
	return outputFrames * r.channels
}

// ToFormat converts a whole buffer to the given rate and channel count.
// Multi-channel audio is averaged down to mono, mono is duplicated up.
func ToFormat(buf *audio.Buffer, sampleRate, channels int) (*audio.Buffer, error) {
	if buf == nil {
		return nil, fmt.Errorf("nil buffer")
	}
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid target format: %dHz %dch", sampleRate, channels)
	}
	if buf.Format.SampleRate <= 0 || buf.Format.Channels <= 0 {
		return nil, fmt.Errorf("invalid source format: %dHz %dch", buf.Format.SampleRate, buf.Format.Channels)
	}

	samples, err := remix(buf.Samples, buf.Format.Channels, channels)
	if err != nil {
		return nil, err
	}

	if buf.Format.SampleRate != sampleRate && len(samples) > 0 {
		r := New(buf.Format.SampleRate, sampleRate, channels)

		// Repeat the final frame so interpolation reaches the end of the input
		padded := make([]float32, len(samples)+channels)
		copy(padded, samples)
		copy(padded[len(samples):], samples[len(samples)-channels:])

		out := make([]float32, r.OutputSamplesNeeded(len(samples)))
		n := r.Resample(padded, out)
		samples = out[:n]
	}

	return audio.NewBuffer(audio.Format{
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   audio.DefaultBitDepth,
	}, samples), nil
}

// remix converts interleaved samples between channel counts
func remix(samples []float32, from, to int) ([]float32, error) {
	if from == to {
		out := make([]float32, len(samples))
		copy(out, samples)
		return out, nil
	}

	frames := len(samples) / from
	out := make([]float32, frames*to)

	switch {
	case to == 1:
		for f := 0; f < frames; f++ {
			var sum float32
			for ch := 0; ch < from; ch++ {
				sum += samples[f*from+ch]
			}
			out[f] = sum / float32(from)
		}
	case from == 1:
		for f := 0; f < frames; f++ {
			for ch := 0; ch < to; ch++ {
				out[f*to+ch] = samples[f]
			}
		}
	default:
		return nil, fmt.Errorf("unsupported channel conversion: %d -> %d", from, to)
	}

	return out, nil
}
