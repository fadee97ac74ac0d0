package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/pulse/internal/adapter/stream"
)

func newPipeCmd() *cobra.Command {
	flags := &emitterFlags{}

	cmd := &cobra.Command{
		Use:   "pipe",
		Short: "Copy stdin to stdout, signaling liveness for every chunk",
		Long: `Copy stdin to stdout unchanged. Each chunk read proves the module is alive,
debounced to the configured interval. The module is stopped at end of input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := flags.newEmitter(cmd)
			if err != nil {
				return err
			}

			r := stream.NewHeartbeatReader(cmd.Context(), cmd.InOrStdin(), e)
			if _, err := io.Copy(cmd.OutOrStdout(), r); err != nil {
				return err
			}
			return e.Stop(context.WithoutCancel(cmd.Context()))
		},
	}

	flags.register(cmd, true)
	return cmd
}
