package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"

	"github.com/kroesche/tinyalsa"
)

// mediaSource abstracts the stream header of a media file, so WAV and MP3 input
// propose a config the same way.
type mediaSource interface {
	// Format returns the channel count and sample rate.
	Format() *audio.Format
	// BitDepth returns the bit depth of the decoded samples (e.g., 16, 24).
	BitDepth() uint16
	// IsFloat returns true if the audio format is floating-point.
	IsFloat() bool
}

// wavSource wraps the go-audio WAV decoder.
type wavSource struct {
	*wav.Decoder
}

func newWavSource(r io.ReadSeeker) (mediaSource, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		if err := decoder.Err(); err != nil {
			return nil, fmt.Errorf("invalid WAV file: %w", err)
		}

		return nil, errors.New("invalid WAV file")
	}

	return &wavSource{Decoder: decoder}, nil
}

func (w *wavSource) BitDepth() uint16 { return w.Decoder.BitDepth }
func (w *wavSource) IsFloat() bool    { return w.Decoder.WavAudioFormat == 3 } // 3 == IEEE float

// mp3Source wraps the go-mp3 decoder, which always decodes to 16-bit stereo.
type mp3Source struct {
	sampleRate int
}

func newMp3Source(r io.Reader) (mediaSource, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("invalid MP3 file: %w", err)
	}

	return &mp3Source{sampleRate: decoder.SampleRate()}, nil
}

func (m *mp3Source) Format() *audio.Format {
	return &audio.Format{NumChannels: 2, SampleRate: m.sampleRate}
}

func (m *mp3Source) BitDepth() uint16 { return 16 }
func (m *mp3Source) IsFloat() bool    { return false }

// openSource picks the decoder by file extension.
func openSource(path string) (mediaSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return newWavSource(f)
	case ".mp3":
		return newMp3Source(f)
	default:
		return nil, fmt.Errorf("unsupported media file %s, expected .wav or .mp3", path)
	}
}

// configFromSource replaces channels, rate and format of base with the header values.
func configFromSource(src mediaSource, base tinyalsa.Config) (tinyalsa.Config, error) {
	if src.IsFloat() {
		return base, errors.New("floating-point samples are not supported")
	}

	format, err := tinyalsa.PcmFormatFromBits(uint32(src.BitDepth()), false)
	if err != nil {
		return base, err
	}

	af := src.Format()
	if af == nil || af.NumChannels <= 0 || af.SampleRate <= 0 {
		return base, errors.New("media header has no channel count or sample rate")
	}

	base.Channels = uint32(af.NumChannels)
	base.Rate = uint32(af.SampleRate)
	base.Format = format

	return base, nil
}
