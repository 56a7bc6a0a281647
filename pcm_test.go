package tinyalsa_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kroesche/tinyalsa"
)

var defaultConfig = tinyalsa.Config{
	Channels:    2,
	Rate:        48000,
	PeriodSize:  1024,
	PeriodCount: 4,
	Format:      tinyalsa.PCM_FORMAT_S16_LE,
}

func TestParsePcmName(t *testing.T) {
	card, device, err := tinyalsa.ParsePcmName("hw:2,7")
	require.NoError(t, err)
	assert.Equal(t, uint(2), card)
	assert.Equal(t, uint(7), device)

	for _, name := range []string{"invalid_name", "hw:foo,bar", "hw:0", "hw:0,1,2", "plughw:0,0"} {
		_, _, err := tinyalsa.ParsePcmName(name)
		assert.Error(t, err, "ParsePcmName should fail for %q", name)
	}
}

func TestPcmOpenUnavailable(t *testing.T) {
	pcm, err := tinyalsa.PcmOpen(1000, 1000, tinyalsa.PCM_OUT, &defaultConfig)
	require.ErrorIs(t, err, tinyalsa.ErrDeviceUnavailable)
	assert.False(t, pcm.IsReady())

	// Closing a nil pcm is a no-op.
	assert.NoError(t, (*tinyalsa.PCM)(nil).Close())

	_, err = tinyalsa.PcmParamsGet(1000, 1000, tinyalsa.PCM_IN)
	assert.ErrorIs(t, err, tinyalsa.ErrDeviceUnavailable)
}

func TestPcmHardware(t *testing.T) {
	card := loopbackCard(t)

	t.Run("PcmOpenAndClose", func(t *testing.T) { testPcmOpenAndClose(t, card) })
	t.Run("PcmOpenByName", func(t *testing.T) { testPcmOpenByName(t, card) })
	t.Run("PcmParams", func(t *testing.T) { testPcmParams(t, card) })
	t.Run("PcmParamsOpen", func(t *testing.T) { testPcmParamsOpen(t, card) })
	t.Run("SetConfig", func(t *testing.T) { testSetConfig(t, card) })
}

func testPcmOpenAndClose(t *testing.T, card uint) {
	testCases := []struct {
		name  string
		flags tinyalsa.PcmFlag
	}{
		{"OUT", tinyalsa.PCM_OUT},
		{"OUT_MMAP", tinyalsa.PCM_OUT | tinyalsa.PCM_MMAP},
		{"OUT_NONBLOCK", tinyalsa.PCM_OUT | tinyalsa.PCM_NONBLOCK},
		{"IN", tinyalsa.PCM_IN},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pcm, err := tinyalsa.PcmOpen(card, loopbackPlaybackDevice, tc.flags, &defaultConfig)
			require.NoError(t, err, "PcmOpen failed")
			require.True(t, pcm.IsReady(), "pcm.IsReady() returned false after successful open")

			assert.Equal(t, tc.flags, pcm.Flags())
			assert.Equal(t, pcm.Config().BufferSize(), pcm.BufferSize())

			require.NoError(t, pcm.Close())
			assert.False(t, pcm.IsReady())
			assert.NoError(t, pcm.Close(), "second Close should be a no-op")
		})
	}
}

func testPcmOpenByName(t *testing.T, card uint) {
	name := fmt.Sprintf("hw:%d,%d", card, loopbackPlaybackDevice)
	pcm, err := tinyalsa.PcmOpenByName(name, tinyalsa.PCM_OUT, &defaultConfig)
	require.NoError(t, err, "PcmOpenByName failed for a valid name")
	require.True(t, pcm.IsReady())
	require.NoError(t, pcm.Close())

	_, err = tinyalsa.PcmOpenByName("hw:0", tinyalsa.PCM_OUT, &defaultConfig)
	require.Error(t, err, "PcmOpenByName should fail for incomplete name")
}

func testPcmParams(t *testing.T, card uint) {
	params, err := tinyalsa.PcmParamsGet(card, loopbackPlaybackDevice, tinyalsa.PCM_OUT)
	require.NoError(t, err)

	assert.Equal(t, card, params.Card())
	assert.LessOrEqual(t, params.Min(tinyalsa.PCM_PARAM_CHANNELS), params.Max(tinyalsa.PCM_PARAM_CHANNELS))
	assert.LessOrEqual(t, params.Min(tinyalsa.PCM_PARAM_RATE), params.Max(tinyalsa.PCM_PARAM_RATE))
	assert.True(t, params.FormatIsSupported(tinyalsa.PCM_FORMAT_S16_LE), "loopback supports S16_LE")
	assert.True(t, params.Mask(tinyalsa.PCM_PARAM_ACCESS).Test(uint(tinyalsa.SNDRV_PCM_ACCESS_RW_INTERLEAVED)))
	assert.Contains(t, params.String(), "Format:")

	assert.NoError(t, params.Check(defaultConfig))
}

func testPcmParamsOpen(t *testing.T, card uint) {
	params, err := tinyalsa.PcmParamsGet(card, loopbackPlaybackDevice, tinyalsa.PCM_OUT)
	require.NoError(t, err)

	pcm, err := params.Open(defaultConfig)
	require.NoError(t, err)
	defer pcm.Close()

	assert.Equal(t, defaultConfig.Rate, pcm.Config().Rate)
	assert.Equal(t, defaultConfig.Channels, pcm.Config().Channels)

	tooMany := defaultConfig
	tooMany.Channels = params.Max(tinyalsa.PCM_PARAM_CHANNELS) + 1

	_, err = params.Open(tooMany)
	var bounds *tinyalsa.BoundsError
	require.ErrorAs(t, err, &bounds)
	assert.Equal(t, tinyalsa.PCM_PARAM_CHANNELS, bounds.Param)
}

func testSetConfig(t *testing.T, card uint) {
	pcm, err := tinyalsa.PcmOpen(card, loopbackPlaybackDevice, tinyalsa.PCM_OUT, nil)
	require.NoError(t, err, "PcmOpen with nil config selects the default")
	defer pcm.Close()

	assert.Equal(t, tinyalsa.DefaultConfig.Rate, pcm.Config().Rate)

	newConfig := defaultConfig
	newConfig.Rate = 44100
	newConfig.Channels = 1
	newConfig.PeriodSize = 512
	newConfig.PeriodCount = 2
	require.NoError(t, pcm.SetConfig(&newConfig))

	got := pcm.Config()
	assert.Equal(t, uint32(44100), got.Rate)
	assert.Equal(t, uint32(1), got.Channels)
	assert.Equal(t, got.BufferSize(), got.StartThreshold, "default start threshold follows the finalized buffer")
	assert.Equal(t, got.BufferSize(), got.StopThreshold)
	assert.Equal(t, uint32(0), got.SilenceThreshold)
	assert.NotZero(t, pcm.Boundary())

	invalid := newConfig
	invalid.Rate = 0
	assert.ErrorIs(t, pcm.SetConfig(&invalid), tinyalsa.ErrInvalidConfig)

	require.NoError(t, pcm.Prepare())
	assert.NoError(t, pcm.Stop())
}
