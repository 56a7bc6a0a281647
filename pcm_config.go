package tinyalsa

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned for a Config that cannot describe any stream.
var ErrInvalidConfig = errors.New("invalid pcm config")

// Config encapsulates the hardware and software parameters of a PCM stream.
//
// A zero threshold selects the default: StartThreshold and StopThreshold
// become PeriodSize * PeriodCount, SilenceThreshold stays 0 (no silence fill).
type Config struct {
	// The number of channels in a frame.
	Channels uint32 `toml:"channels"`
	// The number of frames per second.
	Rate uint32 `toml:"rate"`
	// The number of frames in a period.
	PeriodSize uint32 `toml:"period_size"`
	// The number of periods in the buffer.
	PeriodCount uint32 `toml:"period_count"`
	// The sample format.
	Format PcmFormat `toml:"format"`
	// The minimum number of frames required to start the stream.
	StartThreshold uint32 `toml:"start_threshold"`
	// The number of frames at which the stream stops.
	StopThreshold uint32 `toml:"stop_threshold"`
	// The minimum number of frames to silence the stream.
	SilenceThreshold uint32 `toml:"silence_threshold"`
}

// DefaultConfig is used by PcmOpen when no config is given.
var DefaultConfig = Config{
	Channels:    2,
	Rate:        48000,
	PeriodSize:  1024,
	PeriodCount: 4,
	Format:      PCM_FORMAT_S16_LE,
}

// BufferSize returns the size of the whole buffer in frames.
func (c Config) BufferSize() uint32 {
	return c.PeriodSize * c.PeriodCount
}

// FrameBytes returns the size of a single frame in bytes.
func (c Config) FrameBytes() uint32 {
	return c.Channels * (PcmFormatToBits(c.Format) / 8)
}

// WithDefaults returns a copy of c with zero thresholds replaced by their defaults.
func (c Config) WithDefaults() Config {
	if c.StartThreshold == 0 {
		c.StartThreshold = c.BufferSize()
	}

	if c.StopThreshold == 0 {
		c.StopThreshold = c.BufferSize()
	}

	return c
}

// Validate checks that the config is self-consistent, independent of any device.
func (c Config) Validate() error {
	var errs []error
	if c.Channels == 0 {
		errs = append(errs, fmt.Errorf("%w: channels must not be zero", ErrInvalidConfig))
	}

	if c.Rate == 0 {
		errs = append(errs, fmt.Errorf("%w: rate must not be zero", ErrInvalidConfig))
	}

	if c.PeriodSize == 0 || c.PeriodCount == 0 {
		errs = append(errs, fmt.Errorf("%w: period size and count must not be zero", ErrInvalidConfig))
	}

	if uint64(c.PeriodSize)*uint64(c.PeriodCount) > math.MaxUint32 {
		errs = append(errs, fmt.Errorf("%w: buffer of %d x %d frames overflows", ErrInvalidConfig, c.PeriodCount, c.PeriodSize))
	}

	if !c.Format.Valid() {
		errs = append(errs, fmt.Errorf("%w: %w: %d", ErrInvalidConfig, ErrUnknownFormat, int(c.Format)))
	}

	return errors.Join(errs...)
}

// BoundsError reports a config value outside the range a device supports.
type BoundsError struct {
	Param PcmParam
	Value uint32
	Min   uint32
	Max   uint32
}

func (e *BoundsError) Error() string {
	unit := e.Param.Unit()
	if e.Value < e.Min {
		return fmt.Sprintf("%s is %d%s, device only supports >= %d%s", e.Param, e.Value, unit, e.Min, unit)
	}

	return fmt.Sprintf("%s is %d%s, device only supports <= %d%s", e.Param, e.Value, unit, e.Max, unit)
}

// FormatError reports a sample format the device does not support.
type FormatError struct {
	Format PcmFormat
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format %s is not supported by the device", e.Format)
}

// CheckBounds reports whether value lies within [Min, Max] of an interval parameter.
// The bounds are treated as closed, as tinyplay does; use Interval.Contains to honor open bounds.
// It is false for parameters that are not intervals.
func (pp *PcmParams) CheckBounds(param PcmParam, value uint32) bool {
	if pp == nil || !param.IsInterval() {
		return false
	}

	return pp.Min(param) <= value && value <= pp.Max(param)
}

// checkedParams are the interval parameters a Config proposes directly.
var checkedParams = []PcmParam{PCM_PARAM_RATE, PCM_PARAM_CHANNELS, PCM_PARAM_PERIOD_SIZE, PCM_PARAM_PERIODS}

func configValue(c Config, param PcmParam) uint32 {
	switch param {
	case PCM_PARAM_RATE:
		return c.Rate
	case PCM_PARAM_CHANNELS:
		return c.Channels
	case PCM_PARAM_PERIOD_SIZE:
		return c.PeriodSize
	case PCM_PARAM_PERIODS:
		return c.PeriodCount
	default:
		return 0
	}
}

// Check validates config against the refined space. Every parameter is checked
// independently and the result joins one error per offending parameter.
func (pp *PcmParams) Check(config Config) error {
	var errs []error
	for _, param := range checkedParams {
		value := configValue(config, param)
		if !pp.CheckBounds(param, value) {
			errs = append(errs, &BoundsError{Param: param, Value: value, Min: pp.Min(param), Max: pp.Max(param)})
		}
	}

	if !pp.FormatIsSupported(config.Format) {
		errs = append(errs, &FormatError{Format: config.Format})
	}

	return errors.Join(errs...)
}
