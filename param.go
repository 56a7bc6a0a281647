package tinyalsa

import (
	"errors"
	"fmt"
)

// ErrUnknownParameter is returned when a PcmParam is outside the enumeration.
var ErrUnknownParameter = errors.New("unknown pcm parameter")

// PcmParam identifies a negotiable hardware parameter.
type PcmParam int

const (
	PCM_PARAM_ACCESS PcmParam = iota
	PCM_PARAM_FORMAT
	PCM_PARAM_SUBFORMAT
	PCM_PARAM_SAMPLE_BITS
	PCM_PARAM_FRAME_BITS
	PCM_PARAM_CHANNELS
	PCM_PARAM_RATE
	PCM_PARAM_PERIOD_TIME
	PCM_PARAM_PERIOD_SIZE
	PCM_PARAM_PERIOD_BYTES
	PCM_PARAM_PERIODS
	PCM_PARAM_BUFFER_TIME
	PCM_PARAM_BUFFER_SIZE
	PCM_PARAM_BUFFER_BYTES
	PCM_PARAM_TICK_TIME

	pcmParamCount
)

type paramKind uint8

const (
	kindMask paramKind = iota + 1
	kindInterval
)

const (
	maskCount     = 3
	intervalCount = 12
)

type paramEntry struct {
	kind   paramKind
	slot   int // index into HwParams.masks or HwParams.intervals
	native SndPcmHwParam
	name   string
	unit   string
}

// paramTable is indexed by PcmParam.
var paramTable = [pcmParamCount]paramEntry{
	PCM_PARAM_ACCESS:       {kindMask, 0, SNDRV_PCM_HW_PARAM_ACCESS, "access", ""},
	PCM_PARAM_FORMAT:       {kindMask, 1, SNDRV_PCM_HW_PARAM_FORMAT, "format", ""},
	PCM_PARAM_SUBFORMAT:    {kindMask, 2, SNDRV_PCM_HW_PARAM_SUBFORMAT, "subformat", ""},
	PCM_PARAM_SAMPLE_BITS:  {kindInterval, 0, SNDRV_PCM_HW_PARAM_SAMPLE_BITS, "sample_bits", "bits"},
	PCM_PARAM_FRAME_BITS:   {kindInterval, 1, SNDRV_PCM_HW_PARAM_FRAME_BITS, "frame_bits", "bits"},
	PCM_PARAM_CHANNELS:     {kindInterval, 2, SNDRV_PCM_HW_PARAM_CHANNELS, "channels", ""},
	PCM_PARAM_RATE:         {kindInterval, 3, SNDRV_PCM_HW_PARAM_RATE, "rate", "Hz"},
	PCM_PARAM_PERIOD_TIME:  {kindInterval, 4, SNDRV_PCM_HW_PARAM_PERIOD_TIME, "period_time", "us"},
	PCM_PARAM_PERIOD_SIZE:  {kindInterval, 5, SNDRV_PCM_HW_PARAM_PERIOD_SIZE, "period_size", "frames"},
	PCM_PARAM_PERIOD_BYTES: {kindInterval, 6, SNDRV_PCM_HW_PARAM_PERIOD_BYTES, "period_bytes", "bytes"},
	PCM_PARAM_PERIODS:      {kindInterval, 7, SNDRV_PCM_HW_PARAM_PERIODS, "periods", ""},
	PCM_PARAM_BUFFER_TIME:  {kindInterval, 8, SNDRV_PCM_HW_PARAM_BUFFER_TIME, "buffer_time", "us"},
	PCM_PARAM_BUFFER_SIZE:  {kindInterval, 9, SNDRV_PCM_HW_PARAM_BUFFER_SIZE, "buffer_size", "frames"},
	PCM_PARAM_BUFFER_BYTES: {kindInterval, 10, SNDRV_PCM_HW_PARAM_BUFFER_BYTES, "buffer_bytes", "bytes"},
	PCM_PARAM_TICK_TIME:    {kindInterval, 11, SNDRV_PCM_HW_PARAM_TICK_TIME, "tick_time", "us"},
}

// PcmParamList lists every parameter identity in ordinal order.
func PcmParamList() []PcmParam {
	params := make([]PcmParam, 0, pcmParamCount)
	for p := PcmParam(0); p < pcmParamCount; p++ {
		params = append(params, p)
	}

	return params
}

func (p PcmParam) valid() bool {
	return p >= 0 && p < pcmParamCount
}

// IsMask reports whether p is a set of discrete codes.
func (p PcmParam) IsMask() bool {
	return p.valid() && paramTable[p].kind == kindMask
}

// IsInterval reports whether p is a numeric range.
func (p PcmParam) IsInterval() bool {
	return p.valid() && paramTable[p].kind == kindInterval
}

// Native returns the kernel code of the parameter.
func (p PcmParam) Native() (SndPcmHwParam, error) {
	if !p.valid() {
		return -1, fmt.Errorf("%w: %d", ErrUnknownParameter, int(p))
	}

	return paramTable[p].native, nil
}

// Unit returns the unit an interval parameter is measured in, or "".
func (p PcmParam) Unit() string {
	if !p.valid() {
		return ""
	}

	return paramTable[p].unit
}

func (p PcmParam) String() string {
	if !p.valid() {
		return fmt.Sprintf("PcmParam(%d)", int(p))
	}

	return paramTable[p].name
}
