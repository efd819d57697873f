// Package costengine composes the canonical per-edge effective cost (spec
// §4.5): base weight times temporal multiplier times live penalty, plus
// turn penalty, each stage validated and the arithmetic saturated to f32.
package costengine

import (
	"math"

	"github.com/katalvlaran/taro/taroerr"
	"github.com/katalvlaran/taro/temporal"
)

// SamplingPolicy selects how the temporal multiplier is derived from a
// profile's bucket array (spec §4.5).
type SamplingPolicy uint8

const (
	// Discrete looks up the integer bucket index directly.
	Discrete SamplingPolicy = iota
	// Interpolated computes a fractional bucket and cyclic-linearly
	// interpolates between neighbouring buckets.
	Interpolated
)

const stageConfig = "costengine.Config"

// Config is the engine configuration fixed once at startup (spec §4.5).
type Config struct {
	Unit              temporal.TimeUnit
	BucketSizeSeconds float64
	SamplingPolicy    SamplingPolicy

	// bucketSizeTicks is derived: bucketSizeSeconds * ticks_per_second,
	// overflow-checked.
	bucketSizeTicks int64
}

// NewConfig validates cfg and derives bucketSizeTicks.
func NewConfig(unit temporal.TimeUnit, bucketSizeSeconds float64, policy SamplingPolicy) (Config, error) {
	if math.IsNaN(bucketSizeSeconds) || math.IsInf(bucketSizeSeconds, 0) || bucketSizeSeconds <= 0 {
		return Config{}, taroerr.Config(stageConfig, taroerr.ReasonBucketSizeNotPositive)
	}
	if policy != Discrete && policy != Interpolated {
		return Config{}, taroerr.Config(stageConfig, taroerr.ReasonUnknownSamplingPolicy)
	}

	ticksPerSecond := float64(unit.TicksPerSecond())
	ticks := bucketSizeSeconds * ticksPerSecond
	if math.IsNaN(ticks) || math.IsInf(ticks, 0) || ticks > math.MaxInt64 {
		return Config{}, taroerr.Config(stageConfig, taroerr.ReasonBucketSizeOverflow)
	}

	return Config{
		Unit:              unit,
		BucketSizeSeconds: bucketSizeSeconds,
		SamplingPolicy:    policy,
		bucketSizeTicks:   int64(ticks),
	}, nil
}

// BucketSizeTicks returns the derived tick-domain bucket size.
func (c Config) BucketSizeTicks() int64 { return c.bucketSizeTicks }
