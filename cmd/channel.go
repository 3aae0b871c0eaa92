package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/bnema/shelf/internal/adapters/channel/console"
	"github.com/spf13/cobra"
)

func newChannelCmd(app *app) *cobra.Command {
	var (
		script string
		linger time.Duration
	)

	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Run the chat channel on stdin or on a script",
		Long: `Run the line based chat channel. Every input line reads "<user>: <text>".
Commands start with "!" (!info, !guardar, !listar, !lector, !prev, !next,
!pick, !update, !cancel); any other text answers an open chapter prompt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := app.start(cmd, &console.MessageHandles{})
			if err != nil {
				return err
			}
			defer func() { _ = t.close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			go t.registry.RunSweeper(ctx, app.cfg.Sessions.SweepInterval)

			var input io.Reader = cmd.InOrStdin()
			if script != "" {
				f, err := os.Open(script)
				if err != nil {
					return fmt.Errorf("open channel script: %w", err)
				}
				defer f.Close()
				input = f
			}

			channel := console.NewChannel(t.service, t.coordinator, t.capture, cmd.OutOrStdout(), app.clock, app.logger)
			if err := channel.Run(ctx, input); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			// Keep timers alive so prompts left open can still time out.
			if linger > 0 {
				select {
				case <-ctx.Done():
				case <-time.After(linger):
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&script, "script", "", "Read channel lines from this file instead of stdin")
	cmd.Flags().DurationVar(&linger, "linger", 0, "Wait this long after input ends so pending prompts can expire")

	return cmd
}
