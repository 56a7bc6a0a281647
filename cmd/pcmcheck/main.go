package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kroesche/tinyalsa"
	"github.com/kroesche/tinyalsa/cmd/internal/cli"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	device cli.DeviceOptions
	config cli.ConfigOptions
	log    cli.LogOptions
	open   bool
	mmap   bool
}

func newRootCmd() *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:   "pcmcheck [media-file]",
		Short: "Check whether a PCM device can play a stream",
		Long: `Builds a stream config from a WAV or MP3 header, a TOML file and flags,
queries the capabilities of an ALSA PCM device and reports every parameter
the device cannot satisfy. With --open the stream is also opened and prepared.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := cli.NewLogger(o.log.Level, o.log.Format); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)

				return err
			}

			var media string
			if len(args) == 1 {
				media = args[0]
			}

			config, err := resolveConfig(cmd, o, media)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)

				return err
			}

			return run(cmd.OutOrStdout(), cmd.ErrOrStderr(), o, config)
		},
	}

	cli.AddDeviceFlags(cmd.Flags(), &o.device)
	cli.AddConfigFlags(cmd.Flags(), &o.config)
	cli.AddLogFlags(cmd.Flags(), &o.log)
	cmd.Flags().BoolVar(&o.open, "open", false, "Open and prepare the stream after a successful check.")
	cmd.Flags().BoolVar(&o.mmap, "mmap", false, "Request memory-mapped access when opening.")

	return cmd
}

// resolveConfig merges the sources of the candidate config.
// Precedence: flags explicitly set > TOML file > media header > tinyalsa.DefaultConfig.
func resolveConfig(cmd *cobra.Command, o options, media string) (tinyalsa.Config, error) {
	config := tinyalsa.DefaultConfig

	if media != "" {
		src, err := openSource(media)
		if err != nil {
			return config, err
		}

		if config, err = configFromSource(src, config); err != nil {
			return config, fmt.Errorf("%s: %w", media, err)
		}
	}

	if o.config.File != "" {
		var err error
		if config, err = cli.LoadConfigFile(o.config.File, config); err != nil {
			return config, err
		}
	}

	return o.config.Apply(cmd.Flags(), config)
}

func run(stdout, stderr io.Writer, o options, config tinyalsa.Config) error {
	flags, err := o.device.Flags()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)

		return err
	}

	if o.mmap {
		flags |= tinyalsa.PCM_MMAP
	}

	fmt.Fprintf(stdout, "Checking hw:%d,%d (%s): %d channels, %d Hz, %s, %d x %d frames\n",
		o.device.Card, o.device.Device, flags, config.Channels, config.Rate, config.Format,
		config.PeriodCount, config.PeriodSize)

	if err := config.Validate(); err != nil {
		report(stderr, err)

		return err
	}

	params, err := tinyalsa.NewNegotiation(o.device.Card, o.device.Device, flags).Refine()
	if err != nil {
		fmt.Fprintf(stderr, "Error getting PCM parameters: %v\n", err)

		return err
	}

	if err := params.Check(config); err != nil {
		report(stderr, err)

		return err
	}

	fmt.Fprintln(stdout, "The device supports this configuration.")

	if !o.open {
		return nil
	}

	pcm, err := params.Open(config)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening PCM device: %v\n", err)

		return err
	}
	defer pcm.Close()

	final := pcm.Config()
	fmt.Fprintf(stdout, "Opened: %d channels, %d Hz, %s, %d x %d frames, buffer %d frames, start %d, stop %d\n",
		final.Channels, final.Rate, final.Format, final.PeriodCount, final.PeriodSize,
		pcm.BufferSize(), final.StartThreshold, final.StopThreshold)

	return nil
}

// report prints every violation of a joined error on its own line.
func report(w io.Writer, err error) {
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		fmt.Fprintf(w, "  %v\n", err)

		return
	}

	for _, e := range joined.Unwrap() {
		fmt.Fprintf(w, "  %v\n", e)
	}
}
