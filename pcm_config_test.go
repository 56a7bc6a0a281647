package tinyalsa_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kroesche/tinyalsa"
)

func TestConfigWithDefaults(t *testing.T) {
	config := tinyalsa.Config{Channels: 2, Rate: 48000, PeriodSize: 1024, PeriodCount: 2}

	got := config.WithDefaults()
	assert.Equal(t, uint32(2048), got.StartThreshold)
	assert.Equal(t, uint32(2048), got.StopThreshold)
	assert.Equal(t, uint32(0), got.SilenceThreshold)

	config.StartThreshold = 512
	config.SilenceThreshold = 64
	got = config.WithDefaults()
	assert.Equal(t, uint32(512), got.StartThreshold, "explicit thresholds are kept")
	assert.Equal(t, uint32(2048), got.StopThreshold)
	assert.Equal(t, uint32(64), got.SilenceThreshold)
}

func TestConfigSizes(t *testing.T) {
	config := tinyalsa.Config{Channels: 2, PeriodSize: 256, PeriodCount: 4, Format: tinyalsa.PCM_FORMAT_S24_3LE}
	assert.Equal(t, uint32(1024), config.BufferSize())
	assert.Equal(t, uint32(6), config.FrameBytes())

	config.Format = tinyalsa.PCM_FORMAT_S24_LE
	assert.Equal(t, uint32(8), config.FrameBytes())
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, tinyalsa.DefaultConfig.Validate())

	err := tinyalsa.Config{Format: tinyalsa.PCM_FORMAT_MAX}.Validate()
	require.ErrorIs(t, err, tinyalsa.ErrInvalidConfig)
	assert.ErrorIs(t, err, tinyalsa.ErrUnknownFormat)
	assert.Contains(t, err.Error(), "channels must not be zero")
	assert.Contains(t, err.Error(), "rate must not be zero")

	huge := tinyalsa.DefaultConfig
	huge.PeriodSize = 65536
	huge.PeriodCount = 65536
	err = huge.Validate()
	require.ErrorIs(t, err, tinyalsa.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "overflows")

	largest := tinyalsa.DefaultConfig
	largest.PeriodSize = 65535
	largest.PeriodCount = 65537
	assert.NoError(t, largest.Validate(), "65535 x 65537 is exactly MaxUint32")
}

func TestCheckBounds(t *testing.T) {
	params := refineFake(t)

	assert.True(t, params.CheckBounds(tinyalsa.PCM_PARAM_CHANNELS, 1))
	assert.True(t, params.CheckBounds(tinyalsa.PCM_PARAM_CHANNELS, 2))
	assert.False(t, params.CheckBounds(tinyalsa.PCM_PARAM_CHANNELS, 3))
	assert.False(t, params.CheckBounds(tinyalsa.PCM_PARAM_RATE, 7999))
	assert.True(t, params.CheckBounds(tinyalsa.PCM_PARAM_RATE, 48000))
	assert.False(t, params.CheckBounds(tinyalsa.PCM_PARAM_FORMAT, 0), "masks have no bounds")
}

func TestCheck(t *testing.T) {
	params := refineFake(t)

	config := tinyalsa.Config{Channels: 2, Rate: 44100, PeriodSize: 1024, PeriodCount: 4, Format: tinyalsa.PCM_FORMAT_S16_LE}
	require.NoError(t, params.Check(config))

	t.Run("SingleViolation", func(t *testing.T) {
		bad := config
		bad.Channels = 3

		err := params.Check(bad)
		require.Error(t, err)

		var bounds *tinyalsa.BoundsError
		require.ErrorAs(t, err, &bounds)
		assert.Equal(t, tinyalsa.PCM_PARAM_CHANNELS, bounds.Param)
		assert.Equal(t, uint32(3), bounds.Value)
		assert.Equal(t, uint32(2), bounds.Max)
		assert.Equal(t, "channels is 3, device only supports <= 2", bounds.Error())
		assert.Len(t, err.(interface{ Unwrap() []error }).Unwrap(), 1)
	})

	t.Run("AllViolations", func(t *testing.T) {
		bad := tinyalsa.Config{Channels: 8, Rate: 4000, PeriodSize: 16, PeriodCount: 64, Format: tinyalsa.PCM_FORMAT_S32_LE}

		err := params.Check(bad)
		require.Error(t, err)

		joined, ok := err.(interface{ Unwrap() []error })
		require.True(t, ok)

		var offending []tinyalsa.PcmParam
		var formats int
		for _, e := range joined.Unwrap() {
			var bounds *tinyalsa.BoundsError
			var format *tinyalsa.FormatError
			switch {
			case errors.As(e, &bounds):
				offending = append(offending, bounds.Param)
			case errors.As(e, &format):
				formats++
				assert.Equal(t, tinyalsa.PCM_FORMAT_S32_LE, format.Format)
			}
		}

		assert.ElementsMatch(t, []tinyalsa.PcmParam{
			tinyalsa.PCM_PARAM_RATE,
			tinyalsa.PCM_PARAM_CHANNELS,
			tinyalsa.PCM_PARAM_PERIOD_SIZE,
			tinyalsa.PCM_PARAM_PERIODS,
		}, offending)
		assert.Equal(t, 1, formats)
		assert.Contains(t, err.Error(), "rate is 4000Hz, device only supports >= 8000Hz")
		assert.Contains(t, err.Error(), "format S32_LE is not supported by the device")
	})
}
