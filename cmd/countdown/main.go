package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carecircle/internal/config"
	"carecircle/internal/countdown"

	"github.com/spf13/cobra"
)

type options struct {
	baseURL  string
	timeout  time.Duration
	timezone string
	once     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}
	base := config.Default()
	if cfg, err := config.Load(config.GetConfigEnv(), "config"); err == nil {
		base = cfg
	}
	defaults := base.Countdown

	cmd := &cobra.Command{
		Use:   "countdown",
		Short: "Live countdown to today's medication reminders",
		Long: "Fetches the medication reminders from a Care Circle server once and shows the time left " +
			"until each one, refreshed every second. Press Enter to reload the list.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.baseURL, "url", defaults.BaseURL, "Care Circle server base URL")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", defaults.FetchTimeout, "timeout for fetching the reminder list")
	cmd.Flags().StringVar(&opts.timezone, "timezone", base.Reminders.Timezone,
		"zone reminder times are read in; keep it equal to the server's reminders.timezone")
	cmd.Flags().BoolVar(&opts.once, "once", false, "render a single frame and exit")
	return cmd
}

func run(ctx context.Context, opts options, in io.Reader, out io.Writer) error {
	source, err := countdown.NewHTTPSource(opts.baseURL, opts.timeout)
	if err != nil {
		return err
	}
	loc, err := config.ReminderConfig{Timezone: opts.timezone}.Location()
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", opts.timezone, err)
	}
	renderer := countdown.NewRenderer(source, countdown.WithLocation(loc))

	if opts.once {
		if err := renderer.Activate(ctx); err != nil {
			renderer.Render(time.Now()).Print(out)
			return err
		}
		return renderer.Render(time.Now()).Print(out)
	}

	reload := make(chan struct{})
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case reload <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		if err := renderer.Activate(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(out, "fetch failed: %v\n", err)
		}

		viewCtx, cancel := context.WithCancel(ctx)
		go func() {
			select {
			case <-reload:
				cancel()
			case <-viewCtx.Done():
			}
		}()

		renderer.Run(viewCtx, func(v countdown.View) {
			fmt.Fprint(out, "\033[H\033[2J")
			fmt.Fprintf(out, "Care Circle medication countdown  %s\n\n", time.Now().In(loc).Format("15:04:05"))
			v.Print(out)
			fmt.Fprintln(out, "\nPress Enter to reload, Ctrl+C to quit.")
		})
		cancel()

		if ctx.Err() != nil {
			return nil
		}
	}
}
