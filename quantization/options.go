package quantization

import "github.com/hupe1980/vecops/distance"

type options struct {
	center []float32
	width  distance.Width
}

// Option configures codebook and decoder constructors.
type Option func(*options)

// WithCenter sets the global centroid that was subtracted from vectors
// before they were quantized. Queries are centered the same way.
func WithCenter(center []float32) Option {
	return func(o *options) {
		o.center = center
	}
}

// WithWidth sets the preferred dot kernel width used to build partial tables.
//
// Defaults to distance.PreferredWidth().
func WithWidth(width distance.Width) Option {
	return func(o *options) {
		o.width = width
	}
}

func applyOptions(optFns []Option) options {
	opts := options{
		width: distance.PreferredWidth(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}
