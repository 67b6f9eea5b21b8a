package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/loopblock/loopblock/pkg/client"
	"github.com/spf13/cobra"
)

var (
	probeURL   string
	probeDelay time.Duration
)

// probeCmd demonstrates starvation against a running server.
var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Show a fast request waiting behind a slow one",
	Long: `Send GET /slow to a running server, then GET / shortly after, and report
how long each took. On loopblock the fast request is only answered once the
slow one has finished.

Example:
  loopblock probe --url http://localhost:3000 --delay 100ms`,
	Run: runProbe,
}

func init() {
	probeCmd.Flags().StringVar(&probeURL, "url", "http://localhost:3000", "server base URL")
	probeCmd.Flags().DurationVar(&probeDelay, "delay", 100*time.Millisecond, "wait between sending /slow and /")
}

func runProbe(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Probing %s (this takes as long as /slow blocks)...\n\n", probeURL)

	res, err := client.NewClient(probeURL).Probe(context.Background(), probeDelay)
	if err != nil {
		exitError("probe failed: %v", err)
	}
	printProbe(out, res)
}

func printProbe(w io.Writer, res *client.ProbeResult) {
	table := newTable(w)
	table.SetHeader([]string{"Request", "Sent at", "Status", "Latency"})

	table.Append([]string{"GET /slow", "0s", fmt.Sprint(res.Slow.StatusCode), res.Slow.Elapsed.Round(time.Millisecond).String()})
	table.Append([]string{"GET /", res.Delay.String(), fmt.Sprint(res.Fast.StatusCode), res.Fast.Elapsed.Round(time.Millisecond).String()})
	table.Render()

	fmt.Fprintln(w)
	if res.Starved() {
		color.New(color.FgRed).Fprintf(w, "GET / waited %s for GET /slow to release the dispatch loop.\n", res.Fast.Elapsed.Round(time.Millisecond))
	} else {
		color.New(color.FgGreen).Fprintln(w, "GET / was answered while GET /slow was still running.")
	}
	fmt.Fprintf(w, "Total wall time: %s\n", res.Total.Round(time.Millisecond))
}
