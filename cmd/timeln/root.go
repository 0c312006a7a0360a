package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Geun-Oh/timeln/internal/config"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeln [flags] [-- command [args...]]",
		Short: "timeln prefixes each line of a stream with its elapsed and delta time",
		Long: `timeln reads a line stream (stdin, a file, or the stdout of a command given after --)
and echoes each line prefixed with the time since start and since the previous timed line.
With --regex only matching lines are timed. A summary line is printed when the stream ends
or the run is interrupted; --plot also writes delta and elapsed charts.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(viper.New(), cmd.Flags(), args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), settings, stdio{
				in:  cmd.InOrStdin(),
				out: cmd.OutOrStdout(),
				err: cmd.ErrOrStderr(),
			})
		},
	}
	config.RegisterFlags(cmd.PersistentFlags())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
