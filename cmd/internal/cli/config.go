package cli

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/kroesche/tinyalsa"
)

// pcmTable is the [pcm] table of a config file. Absent keys stay nil.
type pcmTable struct {
	Channels         *uint32             `toml:"channels"`
	Rate             *uint32             `toml:"rate"`
	PeriodSize       *uint32             `toml:"period_size"`
	PeriodCount      *uint32             `toml:"period_count"`
	Format           *tinyalsa.PcmFormat `toml:"format"`
	StartThreshold   *uint32             `toml:"start_threshold"`
	StopThreshold    *uint32             `toml:"stop_threshold"`
	SilenceThreshold *uint32             `toml:"silence_threshold"`
}

type fileConfig struct {
	PCM pcmTable `toml:"pcm"`
}

// LoadConfigFile reads the [pcm] table of path and applies the keys it sets to base.
func LoadConfigFile(path string, base tinyalsa.Config) (tinyalsa.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return ParseConfig(data, base)
}

// ParseConfig applies the [pcm] table of a TOML document to base.
func ParseConfig(data []byte, base tinyalsa.Config) (tinyalsa.Config, error) {
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return base, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	t := fc.PCM
	set := func(dst *uint32, src *uint32) {
		if src != nil {
			*dst = *src
		}
	}

	set(&base.Channels, t.Channels)
	set(&base.Rate, t.Rate)
	set(&base.PeriodSize, t.PeriodSize)
	set(&base.PeriodCount, t.PeriodCount)
	set(&base.StartThreshold, t.StartThreshold)
	set(&base.StopThreshold, t.StopThreshold)
	set(&base.SilenceThreshold, t.SilenceThreshold)

	if t.Format != nil {
		base.Format = *t.Format
	}

	return base, nil
}
