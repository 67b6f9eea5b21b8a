// Package cli provides the command-line interface for loopblock.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is reported by the version command.
const version = "0.1.0"

var cfgFile string

// rootCmd represents the base command. Without a subcommand it serves.
var rootCmd = &cobra.Command{
	Use:   "loopblock",
	Short: "loopblock - a server that shows how one blocking handler stalls everyone",
	Long: `loopblock is a small HTTP server whose request handlers all run on a
single dispatch loop.

  GET /       answers immediately
  GET /slow   spins on the CPU for a fixed duration before answering

While /slow is running, every other request waits, because the loop is busy
and nothing can preempt it.

Examples:
  loopblock                          # Start the server on port 3000
  loopblock serve --port 8080        # Start the server on another port
  loopblock serve --slow-duration 2s # Make /slow block for 2 seconds
  loopblock routes                   # List the routes
  loopblock config show              # Show the effective configuration`,
	Run: runServe,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/loopblock/config.yaml)")
	addServeFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "loopblock version %s\n", version)
	},
}

// exitError prints an error message and exits.
func exitError(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
