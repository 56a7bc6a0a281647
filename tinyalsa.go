// Package tinyalsa negotiates hardware parameters of Linux ALSA PCM devices.
//
// A negotiation starts from the universal parameter space, in which every
// mask code and every interval value is allowed, and asks the kernel to narrow
// it down to what the device really supports. The refined space is then used
// to validate a Config before the stream is opened.
package tinyalsa

// SndPcmFormat is a native sample format code.
// These values correspond to the SNDRV_PCM_FORMAT_* constants in the ALSA kernel headers.
type SndPcmFormat int32

const (
	SNDRV_PCM_FORMAT_INVALID            SndPcmFormat = -1
	SNDRV_PCM_FORMAT_S8                 SndPcmFormat = 0
	SNDRV_PCM_FORMAT_U8                 SndPcmFormat = 1
	SNDRV_PCM_FORMAT_S16_LE             SndPcmFormat = 2
	SNDRV_PCM_FORMAT_S16_BE             SndPcmFormat = 3
	SNDRV_PCM_FORMAT_U16_LE             SndPcmFormat = 4
	SNDRV_PCM_FORMAT_U16_BE             SndPcmFormat = 5
	SNDRV_PCM_FORMAT_S24_LE             SndPcmFormat = 6
	SNDRV_PCM_FORMAT_S24_BE             SndPcmFormat = 7
	SNDRV_PCM_FORMAT_U24_LE             SndPcmFormat = 8
	SNDRV_PCM_FORMAT_U24_BE             SndPcmFormat = 9
	SNDRV_PCM_FORMAT_S32_LE             SndPcmFormat = 10
	SNDRV_PCM_FORMAT_S32_BE             SndPcmFormat = 11
	SNDRV_PCM_FORMAT_U32_LE             SndPcmFormat = 12
	SNDRV_PCM_FORMAT_U32_BE             SndPcmFormat = 13
	SNDRV_PCM_FORMAT_FLOAT_LE           SndPcmFormat = 14
	SNDRV_PCM_FORMAT_FLOAT_BE           SndPcmFormat = 15
	SNDRV_PCM_FORMAT_FLOAT64_LE         SndPcmFormat = 16
	SNDRV_PCM_FORMAT_FLOAT64_BE         SndPcmFormat = 17
	SNDRV_PCM_FORMAT_IEC958_SUBFRAME_LE SndPcmFormat = 18
	SNDRV_PCM_FORMAT_IEC958_SUBFRAME_BE SndPcmFormat = 19
	SNDRV_PCM_FORMAT_MU_LAW             SndPcmFormat = 20
	SNDRV_PCM_FORMAT_A_LAW              SndPcmFormat = 21
	SNDRV_PCM_FORMAT_IMA_ADPCM          SndPcmFormat = 22
	SNDRV_PCM_FORMAT_MPEG               SndPcmFormat = 23
	SNDRV_PCM_FORMAT_GSM                SndPcmFormat = 24
	SNDRV_PCM_FORMAT_SPECIAL            SndPcmFormat = 31
	SNDRV_PCM_FORMAT_S24_3LE            SndPcmFormat = 32
	SNDRV_PCM_FORMAT_S24_3BE            SndPcmFormat = 33
	SNDRV_PCM_FORMAT_U24_3LE            SndPcmFormat = 34
	SNDRV_PCM_FORMAT_U24_3BE            SndPcmFormat = 35
	SNDRV_PCM_FORMAT_S20_3LE            SndPcmFormat = 36
	SNDRV_PCM_FORMAT_S20_3BE            SndPcmFormat = 37
	SNDRV_PCM_FORMAT_U20_3LE            SndPcmFormat = 38
	SNDRV_PCM_FORMAT_U20_3BE            SndPcmFormat = 39
	SNDRV_PCM_FORMAT_S18_3LE            SndPcmFormat = 40
	SNDRV_PCM_FORMAT_S18_3BE            SndPcmFormat = 41
	SNDRV_PCM_FORMAT_U18_3LE            SndPcmFormat = 42
	SNDRV_PCM_FORMAT_U18_3BE            SndPcmFormat = 43
)

// sndPcmFormatNames maps the native format codes to their ALSA names.
var sndPcmFormatNames = map[SndPcmFormat]string{
	SNDRV_PCM_FORMAT_S8:                 "S8",
	SNDRV_PCM_FORMAT_U8:                 "U8",
	SNDRV_PCM_FORMAT_S16_LE:             "S16_LE",
	SNDRV_PCM_FORMAT_S16_BE:             "S16_BE",
	SNDRV_PCM_FORMAT_U16_LE:             "U16_LE",
	SNDRV_PCM_FORMAT_U16_BE:             "U16_BE",
	SNDRV_PCM_FORMAT_S24_LE:             "S24_LE",
	SNDRV_PCM_FORMAT_S24_BE:             "S24_BE",
	SNDRV_PCM_FORMAT_U24_LE:             "U24_LE",
	SNDRV_PCM_FORMAT_U24_BE:             "U24_BE",
	SNDRV_PCM_FORMAT_S32_LE:             "S32_LE",
	SNDRV_PCM_FORMAT_S32_BE:             "S32_BE",
	SNDRV_PCM_FORMAT_U32_LE:             "U32_LE",
	SNDRV_PCM_FORMAT_U32_BE:             "U32_BE",
	SNDRV_PCM_FORMAT_FLOAT_LE:           "FLOAT_LE",
	SNDRV_PCM_FORMAT_FLOAT_BE:           "FLOAT_BE",
	SNDRV_PCM_FORMAT_FLOAT64_LE:         "FLOAT64_LE",
	SNDRV_PCM_FORMAT_FLOAT64_BE:         "FLOAT64_BE",
	SNDRV_PCM_FORMAT_IEC958_SUBFRAME_LE: "IEC958_SUBFRAME_LE",
	SNDRV_PCM_FORMAT_IEC958_SUBFRAME_BE: "IEC958_SUBFRAME_BE",
	SNDRV_PCM_FORMAT_MU_LAW:             "MU_LAW",
	SNDRV_PCM_FORMAT_A_LAW:              "A_LAW",
	SNDRV_PCM_FORMAT_IMA_ADPCM:          "IMA_ADPCM",
	SNDRV_PCM_FORMAT_MPEG:               "MPEG",
	SNDRV_PCM_FORMAT_GSM:                "GSM",
	SNDRV_PCM_FORMAT_SPECIAL:            "SPECIAL",
	SNDRV_PCM_FORMAT_S24_3LE:            "S24_3LE",
	SNDRV_PCM_FORMAT_S24_3BE:            "S24_3BE",
	SNDRV_PCM_FORMAT_U24_3LE:            "U24_3LE",
	SNDRV_PCM_FORMAT_U24_3BE:            "U24_3BE",
	SNDRV_PCM_FORMAT_S20_3LE:            "S20_3LE",
	SNDRV_PCM_FORMAT_S20_3BE:            "S20_3BE",
	SNDRV_PCM_FORMAT_U20_3LE:            "U20_3LE",
	SNDRV_PCM_FORMAT_U20_3BE:            "U20_3BE",
	SNDRV_PCM_FORMAT_S18_3LE:            "S18_3LE",
	SNDRV_PCM_FORMAT_S18_3BE:            "S18_3BE",
	SNDRV_PCM_FORMAT_U18_3LE:            "U18_3LE",
	SNDRV_PCM_FORMAT_U18_3BE:            "U18_3BE",
}

// String returns the ALSA name of the format, e.g. "S16_LE".
func (f SndPcmFormat) String() string {
	if name, ok := sndPcmFormatNames[f]; ok {
		return name
	}

	return "UNKNOWN"
}

// SndPcmAccess is a native access type code (SNDRV_PCM_ACCESS_*).
type SndPcmAccess int32

const (
	SNDRV_PCM_ACCESS_MMAP_INTERLEAVED    SndPcmAccess = 0
	SNDRV_PCM_ACCESS_MMAP_NONINTERLEAVED SndPcmAccess = 1
	SNDRV_PCM_ACCESS_MMAP_COMPLEX        SndPcmAccess = 2
	SNDRV_PCM_ACCESS_RW_INTERLEAVED      SndPcmAccess = 3
	SNDRV_PCM_ACCESS_RW_NONINTERLEAVED   SndPcmAccess = 4
)

// sndPcmAccessNames is indexed by the SNDRV_PCM_ACCESS_* value.
var sndPcmAccessNames = []string{
	"MMAP_INTERLEAVED",
	"MMAP_NONINTERLEAVED",
	"MMAP_COMPLEX",
	"RW_INTERLEAVED",
	"RW_NONINTERLEAVED",
}

// SNDRV_PCM_SUBFORMAT_STD is the only subformat defined for plain PCM.
const SNDRV_PCM_SUBFORMAT_STD = 0

// sndPcmSubformatNames is indexed by the SNDRV_PCM_SUBFORMAT_* value.
var sndPcmSubformatNames = []string{
	"STD",
}

// SndPcmHwParam is a native hardware parameter code.
// These values correspond to the SNDRV_PCM_HW_PARAM_* constants.
type SndPcmHwParam int32

const (
	SNDRV_PCM_HW_PARAM_ACCESS       SndPcmHwParam = 0
	SNDRV_PCM_HW_PARAM_FORMAT       SndPcmHwParam = 1
	SNDRV_PCM_HW_PARAM_SUBFORMAT    SndPcmHwParam = 2
	SNDRV_PCM_HW_PARAM_SAMPLE_BITS  SndPcmHwParam = 8
	SNDRV_PCM_HW_PARAM_FRAME_BITS   SndPcmHwParam = 9
	SNDRV_PCM_HW_PARAM_CHANNELS     SndPcmHwParam = 10
	SNDRV_PCM_HW_PARAM_RATE         SndPcmHwParam = 11
	SNDRV_PCM_HW_PARAM_PERIOD_TIME  SndPcmHwParam = 12
	SNDRV_PCM_HW_PARAM_PERIOD_SIZE  SndPcmHwParam = 13
	SNDRV_PCM_HW_PARAM_PERIOD_BYTES SndPcmHwParam = 14
	SNDRV_PCM_HW_PARAM_PERIODS      SndPcmHwParam = 15
	SNDRV_PCM_HW_PARAM_BUFFER_TIME  SndPcmHwParam = 16
	SNDRV_PCM_HW_PARAM_BUFFER_SIZE  SndPcmHwParam = 17
	SNDRV_PCM_HW_PARAM_BUFFER_BYTES SndPcmHwParam = 18
	SNDRV_PCM_HW_PARAM_TICK_TIME    SndPcmHwParam = 19
)

// Bits of snd_interval.flags.
const (
	SNDRV_PCM_INTERVAL_OPENMIN = 1 << 0
	SNDRV_PCM_INTERVAL_OPENMAX = 1 << 1
	SNDRV_PCM_INTERVAL_INTEGER = 1 << 2
	SNDRV_PCM_INTERVAL_EMPTY   = 1 << 3
)

// SNDRV_PCM_TSTAMP_ENABLE turns on timestamps in the software parameters.
const SNDRV_PCM_TSTAMP_ENABLE = 1

// PcmFlag selects the stream direction and open mode.
type PcmFlag uint32

const (
	// PCM_OUT specifies a playback stream.
	PCM_OUT PcmFlag = 0
	// PCM_IN specifies a capture stream.
	PCM_IN PcmFlag = 0x10000000

	// PCM_MMAP requests memory-mapped interleaved access when the stream is configured.
	PCM_MMAP PcmFlag = 0x00000001
	// PCM_NONBLOCK keeps the stream file descriptor in non-blocking mode after open.
	PCM_NONBLOCK PcmFlag = 0x00000010
)

// String returns "capture" for PCM_IN streams and "playback" otherwise.
func (f PcmFlag) String() string {
	if (f & PCM_IN) != 0 {
		return "capture"
	}

	return "playback"
}
