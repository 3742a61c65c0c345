package group

import (
	"errors"
	"fmt"

	"github.com/mzabolocki/bycycle/features"
)

// ErrShapeMismatch indicates a config override whose shape does not match
// the signal collection it was supplied for. It is raised before any
// worker starts.
var ErrShapeMismatch = errors.New("config override shape mismatch")

// ConfigOverride carries per-call feature extraction settings in one of
// three shapes: a single config applied uniformly, one config per signal
// of a 2-D batch, or configs aligned to a 3-D group's outer dimensions.
//
// Construct with Uniform, PerSignal, PerGroup, or PerGroupSignal; the
// zero value behaves like Uniform(nil), i.e. defaults everywhere.
type ConfigOverride struct {
	uniform        *features.Config
	perSignal      []*features.Config
	perGroup       []*features.Config
	perGroupSignal [][]*features.Config
}

// Uniform applies one config to every signal. A nil config means
// defaults.
func Uniform(cfg *features.Config) *ConfigOverride {
	return &ConfigOverride{uniform: cfg}
}

// PerSignal aligns one config per signal of a 2-D batch, in batch order.
func PerSignal(cfgs []*features.Config) *ConfigOverride {
	return &ConfigOverride{perSignal: cfgs}
}

// PerGroup aligns one config per group of a 3-D collection; each group's
// config is replicated across its signals.
func PerGroup(cfgs []*features.Config) *ConfigOverride {
	return &ConfigOverride{perGroup: cfgs}
}

// PerGroupSignal aligns one config per signal of a 3-D collection,
// nested as [group][signal].
func PerGroupSignal(cfgs [][]*features.Config) *ConfigOverride {
	return &ConfigOverride{perGroupSignal: cfgs}
}

// sanitize copies a per-signal config with its ReturnSamples field
// cleared: the call-level Options.ReturnSamples flag is the sole
// authority on sample tables, and any embedded override is discarded.
func sanitize(cfg *features.Config) *features.Config {
	if cfg == nil {
		return nil
	}
	out := *cfg
	out.ReturnSamples = false
	return &out
}

// broadcast2D flattens the override into one config per signal of a
// batch of n signals.
func (o *ConfigOverride) broadcast2D(n int) ([]*features.Config, error) {
	if o == nil {
		o = &ConfigOverride{}
	}

	switch {
	case o.perGroup != nil || o.perGroupSignal != nil:
		return nil, fmt.Errorf("%w: per-group overrides require a 3-d signal group", ErrShapeMismatch)

	case o.perSignal != nil:
		if len(o.perSignal) != n {
			return nil, fmt.Errorf("%w: expected %d per-signal configs, got %d",
				ErrShapeMismatch, n, len(o.perSignal))
		}
		cfgs := make([]*features.Config, n)
		for i, cfg := range o.perSignal {
			cfgs[i] = sanitize(cfg)
		}
		return cfgs, nil

	default:
		cfgs := make([]*features.Config, n)
		for i := range cfgs {
			cfgs[i] = sanitize(o.uniform)
		}
		return cfgs, nil
	}
}

// broadcast3D flattens the override into one config per signal of a
// group collection with g groups of s signals each, ordered to match the
// flattened collection.
func (o *ConfigOverride) broadcast3D(g, s int) ([]*features.Config, error) {
	if o == nil {
		o = &ConfigOverride{}
	}

	switch {
	case o.perSignal != nil:
		return nil, fmt.Errorf("%w: flat per-signal overrides apply to 2-d batches; "+
			"use PerGroup or PerGroupSignal for a 3-d group", ErrShapeMismatch)

	case o.perGroup != nil:
		if len(o.perGroup) != g {
			return nil, fmt.Errorf("%w: expected %d per-group configs, got %d",
				ErrShapeMismatch, g, len(o.perGroup))
		}
		cfgs := make([]*features.Config, 0, g*s)
		for _, cfg := range o.perGroup {
			clean := sanitize(cfg)
			for k := 0; k < s; k++ {
				cfgs = append(cfgs, clean)
			}
		}
		return cfgs, nil

	case o.perGroupSignal != nil:
		if len(o.perGroupSignal) != g {
			return nil, fmt.Errorf("%w: expected %d config groups, got %d",
				ErrShapeMismatch, g, len(o.perGroupSignal))
		}
		cfgs := make([]*features.Config, 0, g*s)
		for gi, inner := range o.perGroupSignal {
			if len(inner) != s {
				return nil, fmt.Errorf("%w: config group %d has %d configs, expected %d",
					ErrShapeMismatch, gi, len(inner), s)
			}
			for _, cfg := range inner {
				cfgs = append(cfgs, sanitize(cfg))
			}
		}
		return cfgs, nil

	default:
		cfgs := make([]*features.Config, g*s)
		for i := range cfgs {
			cfgs[i] = sanitize(o.uniform)
		}
		return cfgs, nil
	}
}
