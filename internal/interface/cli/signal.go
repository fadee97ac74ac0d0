package cli

import (
	"github.com/spf13/cobra"
)

func newSignalCmd() *cobra.Command {
	flags := &emitterFlags{}

	cmd := &cobra.Command{
		Use:   "signal",
		Short: "Record one heartbeat for a module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := flags.newEmitter(cmd)
			if err != nil {
				return err
			}
			// a one-shot process always writes
			if err := e.SetInterval(0); err != nil {
				return err
			}
			return e.Signal(cmd.Context())
		},
	}

	flags.register(cmd, false)
	return cmd
}

func newStopCmd() *cobra.Command {
	flags := &emitterFlags{}

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop tracking a module",
		Long:  "Delete the module's heartbeat record. The next healthcheck forgets the module.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := flags.newEmitter(cmd)
			if err != nil {
				return err
			}
			return e.Stop(cmd.Context())
		},
	}

	flags.register(cmd, false)
	return cmd
}
