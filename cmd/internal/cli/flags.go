package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kroesche/tinyalsa"
)

// DeviceOptions selects a PCM stream.
type DeviceOptions struct {
	Card   uint
	Device uint
	Stream string
}

// AddDeviceFlags registers --card, --device and --stream.
func AddDeviceFlags(fs *pflag.FlagSet, o *DeviceOptions) {
	fs.UintVarP(&o.Card, "card", "c", 0, "The sound card number.")
	fs.UintVarP(&o.Device, "device", "d", 0, "The device number.")
	fs.StringVarP(&o.Stream, "stream", "s", "playback", "The stream direction ('playback' or 'capture').")
}

// Flags returns the stream flags for the selected direction.
func (o DeviceOptions) Flags() (tinyalsa.PcmFlag, error) {
	switch strings.ToLower(o.Stream) {
	case "playback", "":
		return tinyalsa.PCM_OUT, nil
	case "capture":
		return tinyalsa.PCM_IN, nil
	default:
		return 0, fmt.Errorf("invalid stream direction '%s', must be 'playback' or 'capture'", o.Stream)
	}
}

// LogOptions selects the log level and format.
type LogOptions struct {
	Level  string
	Format string
}

// AddLogFlags registers --log-level and --log-format.
func AddLogFlags(fs *pflag.FlagSet, o *LogOptions) {
	fs.StringVar(&o.Level, "log-level", "warn", "Log level (debug, info, warn, error).")
	fs.StringVar(&o.Format, "log-format", "text", "Log format (text or json).")
}

// ConfigOptions holds the stream config flags.
type ConfigOptions struct {
	Channels    uint32
	Rate        uint32
	PeriodSize  uint32
	PeriodCount uint32
	Format      string
	File        string
}

// AddConfigFlags registers the stream config flags. Defaults come from tinyalsa.DefaultConfig.
func AddConfigFlags(fs *pflag.FlagSet, o *ConfigOptions) {
	d := tinyalsa.DefaultConfig
	fs.Uint32Var(&o.Channels, "channels", d.Channels, "Number of channels.")
	fs.Uint32Var(&o.Rate, "rate", d.Rate, "Sample rate in Hz.")
	fs.Uint32Var(&o.PeriodSize, "period-size", d.PeriodSize, "Period size in frames.")
	fs.Uint32Var(&o.PeriodCount, "period-count", d.PeriodCount, "Number of periods.")
	fs.StringVar(&o.Format, "format", d.Format.String(), "Sample format (e.g. S16_LE, S24_3LE, S32_LE).")
	fs.StringVar(&o.File, "config", "", "TOML file with a [pcm] table.")
}

// Apply overrides base with the flags explicitly set on the command line.
func (o ConfigOptions) Apply(fs *pflag.FlagSet, base tinyalsa.Config) (tinyalsa.Config, error) {
	if fs.Changed("channels") {
		base.Channels = o.Channels
	}

	if fs.Changed("rate") {
		base.Rate = o.Rate
	}

	if fs.Changed("period-size") {
		base.PeriodSize = o.PeriodSize
	}

	if fs.Changed("period-count") {
		base.PeriodCount = o.PeriodCount
	}

	if fs.Changed("format") {
		format, err := tinyalsa.ParsePcmFormat(o.Format)
		if err != nil {
			return base, err
		}

		base.Format = format
	}

	return base, nil
}
