package main

import (
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

func newRootCmd() *cobra.Command {
	var (
		device cli.DeviceOptions
		logOpt cli.LogOptions
		list   bool
	)

	cmd := &cobra.Command{
		Use:           "pcminfo",
		Short:         "Display information about an ALSA PCM device",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := cli.NewLogger(logOpt.Level, logOpt.Format); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)

				return err
			}

			if list {
				return listCards(cmd.OutOrStdout(), cmd.ErrOrStderr())
			}

			flags, err := device.Flags()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)

				return err
			}

			params, err := tinyalsa.PcmParamsGet(device.Card, device.Device, flags)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error getting PCM parameters: %v\n", err)

				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), params)

			return nil
		},
	}

	cli.AddDeviceFlags(cmd.Flags(), &device)
	cli.AddLogFlags(cmd.Flags(), &logOpt)
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List sound cards and their PCM streams.")

	return cmd
}

func listCards(stdout, stderr io.Writer) error {
	cards, err := tinyalsa.EnumerateCards()
	if err != nil {
		fmt.Fprintf(stderr, "Error enumerating sound cards: %v\n", err)

		return err
	}

	if len(cards) == 0 {
		fmt.Fprintln(stdout, "No sound cards found.")

		return nil
	}

	for _, card := range cards {
		fmt.Fprint(stdout, card)
	}

	return nil
}
