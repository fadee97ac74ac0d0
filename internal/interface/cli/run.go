package cli

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	flags := &emitterFlags{}
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "run -- COMMAND [ARGS...]",
		Short: "Run a command and signal liveness until it exits",
		Long: `Run COMMAND with the current stdin, stdout and stderr while heartbeats are
written at the configured interval. With --timeout, heartbeats stop after the
given duration even if COMMAND is still running, so a stuck command turns stale.
The module is stopped when COMMAND exits and pulse exits with its status.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := flags.newEmitter(cmd)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("timeout") {
				timeout = globalConfig.SignalTimeout()
			}

			child := exec.CommandContext(cmd.Context(), args[0], args[1:]...)
			child.Stdin = cmd.InOrStdin()
			child.Stdout = cmd.OutOrStdout()
			child.Stderr = cmd.ErrOrStderr()
			child.Cancel = func() error {
				return child.Process.Signal(terminateSignal())
			}
			child.WaitDelay = 10 * time.Second

			runErr := e.SignalWhile(cmd.Context(), func(ctx context.Context) error {
				return child.Run()
			}, timeout)

			if err := e.Stop(context.WithoutCancel(cmd.Context())); err != nil {
				GetLogger().Warn("stop module %s: %v", e.Module(), err)
			}

			var exitErr *exec.ExitError
			if errors.As(runErr, &exitErr) {
				code := exitErr.ExitCode()
				if code < 0 {
					code = 1
				}
				return &ExitError{Code: code}
			}
			return runErr
		},
	}

	flags.register(cmd, true)
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "stop heartbeats after this long (default from settings, 0 = never)")
	return cmd
}

func terminateSignal() os.Signal {
	return ShutdownSignals()[len(ShutdownSignals())-1]
}
