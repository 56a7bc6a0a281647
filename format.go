package tinyalsa

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat is returned when a PcmFormat is outside the supported enumeration.
var ErrUnknownFormat = errors.New("unknown pcm format")

// PcmFormat is the abstract sample format of a stream.
// The first letter tells whether the sample is signed, the number is the amount of
// significant bits and the suffix is the byte order.
type PcmFormat int

const (
	// PCM_FORMAT_S16_LE is signed 16-bit, little endian.
	PCM_FORMAT_S16_LE PcmFormat = 0
	// PCM_FORMAT_S8 is signed 8-bit.
	PCM_FORMAT_S8 PcmFormat = 1
	// PCM_FORMAT_S16_BE is signed 16-bit, big endian.
	PCM_FORMAT_S16_BE PcmFormat = 2
	// PCM_FORMAT_S24_LE is signed 24-bit in a 32-bit container, little endian.
	PCM_FORMAT_S24_LE PcmFormat = 3
	// PCM_FORMAT_S24_BE is signed 24-bit in a 32-bit container, big endian.
	PCM_FORMAT_S24_BE PcmFormat = 4
	// PCM_FORMAT_S24_3LE is signed 24-bit packed in 3 bytes, little endian.
	PCM_FORMAT_S24_3LE PcmFormat = 5
	// PCM_FORMAT_S24_3BE is signed 24-bit packed in 3 bytes, big endian.
	PCM_FORMAT_S24_3BE PcmFormat = 6
	// PCM_FORMAT_S32_LE is signed 32-bit, little endian.
	PCM_FORMAT_S32_LE PcmFormat = 7
	// PCM_FORMAT_S32_BE is signed 32-bit, big endian.
	PCM_FORMAT_S32_BE PcmFormat = 8

	// PCM_FORMAT_MAX is the number of formats, not an actual format.
	PCM_FORMAT_MAX PcmFormat = 9
)

type formatEntry struct {
	native SndPcmFormat
	bits   uint32 // space occupied in memory
	name   string
}

// formatTable is indexed by PcmFormat.
var formatTable = [PCM_FORMAT_MAX]formatEntry{
	PCM_FORMAT_S16_LE:  {SNDRV_PCM_FORMAT_S16_LE, 16, "S16_LE"},
	PCM_FORMAT_S8:      {SNDRV_PCM_FORMAT_S8, 8, "S8"},
	PCM_FORMAT_S16_BE:  {SNDRV_PCM_FORMAT_S16_BE, 16, "S16_BE"},
	PCM_FORMAT_S24_LE:  {SNDRV_PCM_FORMAT_S24_LE, 32, "S24_LE"},
	PCM_FORMAT_S24_BE:  {SNDRV_PCM_FORMAT_S24_BE, 32, "S24_BE"},
	PCM_FORMAT_S24_3LE: {SNDRV_PCM_FORMAT_S24_3LE, 24, "S24_3LE"},
	PCM_FORMAT_S24_3BE: {SNDRV_PCM_FORMAT_S24_3BE, 24, "S24_3BE"},
	PCM_FORMAT_S32_LE:  {SNDRV_PCM_FORMAT_S32_LE, 32, "S32_LE"},
	PCM_FORMAT_S32_BE:  {SNDRV_PCM_FORMAT_S32_BE, 32, "S32_BE"},
}

// Valid reports whether f is one of the defined formats.
func (f PcmFormat) Valid() bool {
	return f >= 0 && f < PCM_FORMAT_MAX
}

// Native returns the kernel format code for f.
func (f PcmFormat) Native() (SndPcmFormat, error) {
	if !f.Valid() {
		return SNDRV_PCM_FORMAT_INVALID, fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
	}

	return formatTable[f].native, nil
}

// String returns the name of the format, e.g. "S24_3LE".
func (f PcmFormat) String() string {
	if !f.Valid() {
		return fmt.Sprintf("PcmFormat(%d)", int(f))
	}

	return formatTable[f].name
}

// MarshalText implements encoding.TextMarshaler.
func (f PcmFormat) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
	}

	return []byte(formatTable[f].name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *PcmFormat) UnmarshalText(text []byte) error {
	parsed, err := ParsePcmFormat(string(text))
	if err != nil {
		return err
	}

	*f = parsed

	return nil
}

// ParsePcmFormat parses a format name such as "S16_LE" or "s24_3le".
func ParsePcmFormat(s string) (PcmFormat, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for f := PcmFormat(0); f < PCM_FORMAT_MAX; f++ {
		if formatTable[f].name == name {
			return f, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromNative returns the abstract format for a kernel format code.
func FormatFromNative(native SndPcmFormat) (PcmFormat, error) {
	for f := PcmFormat(0); f < PCM_FORMAT_MAX; f++ {
		if formatTable[f].native == native {
			return f, nil
		}
	}

	return 0, fmt.Errorf("%w: no format for %s", ErrUnknownFormat, native)
}

// PcmFormatToBits returns the number of bits a sample occupies in memory.
// 24-bit formats in 32-bit containers return 32. Unknown formats return 0.
func PcmFormatToBits(f PcmFormat) uint32 {
	if !f.Valid() {
		return 0
	}

	return formatTable[f].bits
}

// PcmFormatFromBits picks the format for samples of the given bit depth,
// as found in a media file header. 24-bit samples map to the packed 3-byte formats.
func PcmFormatFromBits(bits uint32, bigEndian bool) (PcmFormat, error) {
	switch bits {
	case 8:
		return PCM_FORMAT_S8, nil
	case 16:
		if bigEndian {
			return PCM_FORMAT_S16_BE, nil
		}

		return PCM_FORMAT_S16_LE, nil
	case 24:
		if bigEndian {
			return PCM_FORMAT_S24_3BE, nil
		}

		return PCM_FORMAT_S24_3LE, nil
	case 32:
		if bigEndian {
			return PCM_FORMAT_S32_BE, nil
		}

		return PCM_FORMAT_S32_LE, nil
	default:
		return 0, fmt.Errorf("%w: %d bits per sample", ErrUnknownFormat, bits)
	}
}
