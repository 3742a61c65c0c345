package group_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mzabolocki/bycycle/features"
	"github.com/mzabolocki/bycycle/group"
)

func TestConfigOverride_2DShapeMismatch(t *testing.T) {
	fRange := features.FreqRange{Low: 8, High: 12}

	cases := map[string]struct {
		nSignals int
		override *group.ConfigOverride
	}{
		"too few configs": {
			nSignals: 3,
			override: group.PerSignal([]*features.Config{features.DefaultConfig()}),
		},
		"too many configs": {
			nSignals: 2,
			override: group.PerSignal(make([]*features.Config, 5)),
		},
		"per-group override on a 2-d batch": {
			nSignals: 2,
			override: group.PerGroup([]*features.Config{features.DefaultConfig()}),
		},
		"nested override on a 2-d batch": {
			nSignals: 2,
			override: group.PerGroupSignal([][]*features.Config{{features.DefaultConfig()}}),
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var calls atomic.Int64
			opts := group.DefaultOptions()
			opts.Override = tc.override
			opts.Compute = echoCompute(&calls)

			_, _, err := group.ComputeFeatures2D(indexedSignals(tc.nSignals), 500, fRange, opts)
			assert.ErrorIs(t, err, group.ErrShapeMismatch)
			assert.Zero(t, calls.Load(), "no worker may run after a shape mismatch")
		})
	}
}

func TestConfigOverride_3DShapeMismatch(t *testing.T) {
	fRange := features.FreqRange{Low: 8, High: 12}
	sigs := [][][]float64{
		{{0}, {1}},
		{{2}, {3}},
	}

	cases := map[string]*group.ConfigOverride{
		"per-signal override on a 3-d group": group.PerSignal(make([]*features.Config, 4)),
		"wrong group count":                  group.PerGroup(make([]*features.Config, 3)),
		"wrong nested outer length":          group.PerGroupSignal(make([][]*features.Config, 1)),
		"wrong nested inner length": group.PerGroupSignal([][]*features.Config{
			{features.DefaultConfig(), features.DefaultConfig()},
			{features.DefaultConfig()},
		}),
	}

	for name, override := range cases {
		t.Run(name, func(t *testing.T) {
			var calls atomic.Int64
			opts := group.DefaultOptions()
			opts.Override = override
			opts.Compute = echoCompute(&calls)

			_, _, err := group.ComputeFeatures3D(sigs, 500, fRange, opts)
			assert.ErrorIs(t, err, group.ErrShapeMismatch)
			assert.Zero(t, calls.Load(), "no worker may run after a shape mismatch")
		})
	}
}

func TestConfigOverride_MatchingShapesSucceed(t *testing.T) {
	fRange := features.FreqRange{Low: 8, High: 12}
	sigs := [][][]float64{
		{{0}, {1}, {2}},
		{{3}, {4}, {5}},
	}

	overrides := map[string]*group.ConfigOverride{
		"nil":              nil,
		"uniform":          group.Uniform(features.DefaultConfig()),
		"per group":        group.PerGroup(make([]*features.Config, 2)),
		"per group signal": group.PerGroupSignal([][]*features.Config{make([]*features.Config, 3), make([]*features.Config, 3)}),
	}

	for name, override := range overrides {
		t.Run(name, func(t *testing.T) {
			var calls atomic.Int64
			opts := group.DefaultOptions()
			opts.Override = override
			opts.Compute = echoCompute(&calls)

			tables, _, err := group.ComputeFeatures3D(sigs, 500, fRange, opts)
			assert.NoError(t, err)
			assert.Len(t, tables, 2)
			assert.EqualValues(t, 6, calls.Load(), "every signal must be computed exactly once")
		})
	}
}
