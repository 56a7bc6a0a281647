package tinyalsa_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kroesche/tinyalsa"
)

func TestNewHwParamsIsUniversal(t *testing.T) {
	p := tinyalsa.NewHwParams()

	for _, param := range tinyalsa.PcmParamList() {
		if param.IsMask() {
			m := p.Mask(param)
			require.NotNil(t, m)
			assert.True(t, m.Full(), "%s mask should allow every code", param)
			assert.Equal(t, tinyalsa.MaskMax, m.Count())

			continue
		}

		i, ok := p.Interval(param)
		require.True(t, ok)
		assert.Equal(t, uint32(0), i.Min, "%s min", param)
		assert.Equal(t, uint32(math.MaxUint32), i.Max, "%s max", param)
		assert.False(t, i.IsExact())
		assert.False(t, i.Empty)
	}

	assert.Equal(t, ^uint32(0), p.Info())
	assert.Equal(t, uint32(0), p.MsBits())
}

func TestHwParamsSetInt(t *testing.T) {
	p := tinyalsa.NewHwParams()

	p.SetInt(tinyalsa.PCM_PARAM_RATE, 44100)
	assert.Equal(t, uint32(44100), p.Int(tinyalsa.PCM_PARAM_RATE))
	assert.Equal(t, uint32(44100), p.Min(tinyalsa.PCM_PARAM_RATE))
	assert.Equal(t, uint32(44100), p.Max(tinyalsa.PCM_PARAM_RATE))

	i, ok := p.Interval(tinyalsa.PCM_PARAM_RATE)
	require.True(t, ok)
	assert.True(t, i.IsExact())

	// Only the targeted parameter changes.
	assert.Equal(t, uint32(math.MaxUint32), p.Max(tinyalsa.PCM_PARAM_CHANNELS))
	assert.Equal(t, uint32(0), p.Int(tinyalsa.PCM_PARAM_CHANNELS), "non-exact interval has no integer value")
}

func TestHwParamsMinMax(t *testing.T) {
	p := tinyalsa.NewHwParams()

	p.SetMin(tinyalsa.PCM_PARAM_PERIOD_SIZE, 256)
	p.SetMax(tinyalsa.PCM_PARAM_PERIOD_SIZE, 4096)
	assert.Equal(t, uint32(256), p.Min(tinyalsa.PCM_PARAM_PERIOD_SIZE))
	assert.Equal(t, uint32(4096), p.Max(tinyalsa.PCM_PARAM_PERIOD_SIZE))

	// Bounds never cross.
	p.SetMin(tinyalsa.PCM_PARAM_PERIOD_SIZE, 8192)
	assert.Equal(t, uint32(8192), p.Min(tinyalsa.PCM_PARAM_PERIOD_SIZE))
	assert.Equal(t, uint32(8192), p.Max(tinyalsa.PCM_PARAM_PERIOD_SIZE))

	p.SetMax(tinyalsa.PCM_PARAM_PERIOD_SIZE, 128)
	assert.Equal(t, uint32(128), p.Min(tinyalsa.PCM_PARAM_PERIOD_SIZE))
	assert.Equal(t, uint32(128), p.Max(tinyalsa.PCM_PARAM_PERIOD_SIZE))
}

func TestHwParamsSetMask(t *testing.T) {
	p := tinyalsa.NewHwParams()

	p.SetMask(tinyalsa.PCM_PARAM_FORMAT, uint(tinyalsa.SNDRV_PCM_FORMAT_S24_3LE))
	m := p.Mask(tinyalsa.PCM_PARAM_FORMAT)
	assert.Equal(t, 1, m.Count())
	assert.True(t, m.Test(uint(tinyalsa.SNDRV_PCM_FORMAT_S24_3LE)))
	assert.Equal(t, []uint{uint(tinyalsa.SNDRV_PCM_FORMAT_S24_3LE)}, m.Bits())

	// Out of range codes leave the mask untouched.
	p.SetMask(tinyalsa.PCM_PARAM_FORMAT, tinyalsa.MaskMax)
	p.SetMask(tinyalsa.PCM_PARAM_FORMAT, 1000)
	assert.Equal(t, m, p.Mask(tinyalsa.PCM_PARAM_FORMAT))

	// The returned mask is a copy.
	p.SetMask(tinyalsa.PCM_PARAM_FORMAT, uint(tinyalsa.SNDRV_PCM_FORMAT_S16_LE))
	assert.True(t, m.Test(uint(tinyalsa.SNDRV_PCM_FORMAT_S24_3LE)))
	assert.False(t, m.Test(uint(tinyalsa.SNDRV_PCM_FORMAT_S16_LE)))
}

func TestHwParamsKindMismatch(t *testing.T) {
	p := tinyalsa.NewHwParams()
	before := p.Clone()

	p.SetMask(tinyalsa.PCM_PARAM_RATE, 3)
	p.SetInt(tinyalsa.PCM_PARAM_FORMAT, 2)
	p.SetMin(tinyalsa.PCM_PARAM_ACCESS, 1)
	p.SetMax(tinyalsa.PCM_PARAM_SUBFORMAT, 1)
	p.SetInt(tinyalsa.PcmParam(99), 1)

	assert.Equal(t, before, p)
	assert.Nil(t, p.Mask(tinyalsa.PCM_PARAM_RATE))
	assert.Equal(t, uint32(0), p.Min(tinyalsa.PCM_PARAM_FORMAT))
	assert.Equal(t, uint32(0), p.Max(tinyalsa.PCM_PARAM_FORMAT))

	_, ok := p.Interval(tinyalsa.PCM_PARAM_ACCESS)
	assert.False(t, ok)

	t.Run("NilSpace", func(t *testing.T) {
		var nilParams *tinyalsa.HwParams

		nilParams.SetInt(tinyalsa.PCM_PARAM_RATE, 48000)
		nilParams.SetMin(tinyalsa.PCM_PARAM_RATE, 8000)
		nilParams.SetMax(tinyalsa.PCM_PARAM_RATE, 96000)
		nilParams.SetMask(tinyalsa.PCM_PARAM_FORMAT, 2)
		nilParams.RestrictMask(tinyalsa.PCM_PARAM_FORMAT, tinyalsa.NewMask(2))

		assert.Nil(t, nilParams.Clone())
		assert.Nil(t, nilParams.Mask(tinyalsa.PCM_PARAM_FORMAT))
		assert.Equal(t, uint32(0), nilParams.Min(tinyalsa.PCM_PARAM_RATE))
		assert.Equal(t, uint32(0), nilParams.Max(tinyalsa.PCM_PARAM_RATE))
		assert.Equal(t, uint32(0), nilParams.Int(tinyalsa.PCM_PARAM_RATE))
		assert.Equal(t, uint32(0), nilParams.Info())
		assert.Equal(t, uint32(0), nilParams.MsBits())

		_, ok := nilParams.Interval(tinyalsa.PCM_PARAM_RATE)
		assert.False(t, ok)
	})
}

func TestHwParamsClone(t *testing.T) {
	p := tinyalsa.NewHwParams()
	c := p.Clone()

	c.SetInt(tinyalsa.PCM_PARAM_CHANNELS, 2)
	c.SetMask(tinyalsa.PCM_PARAM_FORMAT, 2)

	assert.Equal(t, uint32(0), p.Int(tinyalsa.PCM_PARAM_CHANNELS))
	assert.True(t, p.Mask(tinyalsa.PCM_PARAM_FORMAT).Full())
}

func TestMask(t *testing.T) {
	m := tinyalsa.NewMask(0, 2, 63, 64, 200)
	assert.Equal(t, 3, m.Count())
	assert.Equal(t, []uint{0, 2, 63}, m.Bits())
	assert.False(t, m.Test(64))
	assert.False(t, m.Full())

	var nilMask *tinyalsa.Mask
	assert.False(t, nilMask.Test(0))
	assert.Equal(t, 0, nilMask.Count())
	assert.Empty(t, nilMask.Bits())

	p := tinyalsa.NewHwParams()
	p.RestrictMask(tinyalsa.PCM_PARAM_FORMAT, tinyalsa.NewMask(2, 6, 10))
	p.RestrictMask(tinyalsa.PCM_PARAM_FORMAT, tinyalsa.NewMask(2, 10, 32))
	assert.Equal(t, []uint{2, 10}, p.Mask(tinyalsa.PCM_PARAM_FORMAT).Bits())
}

func TestInterval(t *testing.T) {
	i := tinyalsa.Interval{Min: 10, Max: 20, OpenMin: true}
	assert.False(t, i.Contains(10))
	assert.True(t, i.Contains(11))
	assert.True(t, i.Contains(20))
	assert.False(t, i.Contains(21))

	i.OpenMax = true
	assert.False(t, i.Contains(20))

	assert.False(t, tinyalsa.Interval{Min: 5, Max: 5, Empty: true}.Contains(5))
	assert.False(t, tinyalsa.Interval{Min: 5, Max: 5}.IsExact(), "exact requires the integer flag")
	assert.True(t, tinyalsa.Interval{Min: 5, Max: 5, Integer: true}.IsExact())
}
