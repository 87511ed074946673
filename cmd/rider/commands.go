package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Cycleroom.influxDB/internal/client"
	"github.com/spf13/cobra"
)

type options struct {
	server  string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "rider",
		Short:        "Cycle room rider client",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.server, "server", "s", "http://localhost:8000", "API base URL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "HTTP request timeout")

	root.AddCommand(
		newBikesCmd(opts),
		newSelectCmd(opts),
		newWatchCmd(opts),
	)
	return root
}

func newBikesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "bikes",
		Short: "List the bikes you can pick",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bikes, err := client.NewSubmitter(opts.server, opts.timeout).LoadBikes(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, b := range bikes {
				fmt.Fprintf(out, "%s\t%s\n", b.EquipmentID, b.Name)
			}
			return nil
		},
	}
}

func newSelectCmd(opts *options) *cobra.Command {
	var name, bike string
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Bind your name to a bike",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := client.NewSubmitter(opts.server, opts.timeout).Submit(cmd.Context(), name, bike)
			switch {
			case errors.Is(err, client.ErrValidation):
				return fmt.Errorf("please enter your name and select a bike")
			case err != nil:
				return fmt.Errorf("failed to submit selection: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s is on bike %s\n", name, bike)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "your name")
	cmd.Flags().StringVarP(&bike, "bike", "b", "", "equipment id")
	return cmd
}

func newWatchCmd(opts *options) *cobra.Command {
	var bike string
	var size int
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow live telemetry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, err := client.LiveURL(opts.server, bike)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			window := client.NewWindow(size)
			err = client.Watch(ctx, addr, func(p client.Point) error {
				window.Add(p)
				printPoint(cmd.OutOrStdout(), p, window)
				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&bike, "bike", "b", "", "only this equipment id")
	cmd.Flags().IntVarP(&size, "window", "w", client.DefaultWindowSize, "points kept for the rolling average")
	return cmd
}

func printPoint(out io.Writer, p client.Point, w *client.Window) {
	points := w.Snapshot()
	var sum float64
	for _, pt := range points {
		sum += pt.Metrics.Power
	}
	fmt.Fprintf(out, "%s  bike %-6s %6.1f W %5.1f rpm  gear %2d  avg %6.1f W (%d)\n",
		p.ReceivedAt.Format("15:04:05"), p.Metrics.EquipmentID, p.Metrics.Power, p.Metrics.Cadence,
		p.Metrics.Gear, sum/float64(len(points)), len(points))
}
