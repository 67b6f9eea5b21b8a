package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/loopblock/loopblock/internal/api"
	"github.com/loopblock/loopblock/internal/config"
	"github.com/loopblock/loopblock/internal/logging"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveCmd starts the server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the server",
	Long: `Start the loopblock server.

The server answers:
  GET /       immediately
  GET /slow   after busy-waiting for the configured duration

Every handler runs on the same dispatch loop, so a request to /slow delays
all requests that arrive while it runs.

Example:
  loopblock serve --port 3000 --slow-duration 10s`,
	Run: runServe,
}

func init() {
	addServeFlags(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("port", "p", config.DefaultPort, "port to listen on")
	cmd.Flags().Duration("slow-duration", config.DefaultSlowDuration, "how long /slow keeps the dispatch loop busy")
}

// loadConfig loads the configuration with cmd's flags taking precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	if f := cmd.Flags().Lookup("port"); f != nil {
		if err := v.BindPFlag("server.port", f); err != nil {
			return nil, err
		}
	}
	if f := cmd.Flags().Lookup("slow-duration"); f != nil {
		if err := v.BindPFlag("slow.duration", f); err != nil {
			return nil, err
		}
	}
	return config.Load(v, cfgFile)
}

func runServe(cmd *cobra.Command, args []string) {
	logger := logging.NewConsole()

	cfg, err := loadConfig(cmd)
	if err != nil {
		logger.Errorf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Handle graceful shutdown
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	go func() {
		select {
		case sig := <-stop:
			cancel(errors.Errorf("Received %s", signalName(sig)))
		case <-ctx.Done():
		}
	}()

	if err := serve(ctx, cfg, logger, color.Output); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

// serve runs the server until ctx is cancelled, then shuts it down and
// waits for in-flight requests. The cancellation cause is logged.
func serve(ctx context.Context, cfg *config.Config, logger *logging.Logger, out io.Writer) error {
	server := api.New(cfg, logger)

	if err := server.Listen(); err != nil {
		return errors.Wrap(err, "failed to start server")
	}

	printBanner(out, logger, cfg)

	served := make(chan error, 1)
	go func() {
		served <- server.Serve()
	}()

	select {
	case err := <-served:
		return err
	case <-ctx.Done():
	}

	logger.Infof("%v, shutting down...", context.Cause(ctx))

	// No deadline: requests already being handled run to completion.
	if err := server.Shutdown(context.Background()); err != nil {
		return errors.Wrap(err, "error during shutdown")
	}
	if err := <-served; err != nil {
		return err
	}

	logger.Successf("Server stopped")
	return nil
}

func printBanner(out io.Writer, logger *logging.Logger, cfg *config.Config) {
	rule := color.New(color.FgCyan).Sprint(strings.Repeat("─", 60))
	heading := color.New(color.FgYellow)

	fmt.Fprintln(out)
	fmt.Fprintln(out, rule)
	logger.Log(logging.Server, "Go server started on http://localhost:%d", cfg.Server.Port)
	fmt.Fprintln(out, rule)

	fmt.Fprintln(out)
	heading.Fprintln(out, "• Available routes:")
	for _, r := range api.Routes(cfg.Slow.Duration) {
		logger.Log(r.Category, "%s %s - %s", r.Method, r.Path, r.Description)
	}

	fmt.Fprintln(out)
	logger.Warnf("Problem: every handler shares one dispatch loop, so a blocking request stalls all others!")
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out)
}

func signalName(sig os.Signal) string {
	switch sig {
	case os.Interrupt:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return sig.String()
	}
}
