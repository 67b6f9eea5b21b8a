package cli

import (
	"github.com/loopblock/loopblock/internal/api"
	"github.com/loopblock/loopblock/internal/config"
	"github.com/spf13/cobra"
)

// routeView is the JSON/YAML shape of a route.
type routeView struct {
	Kind        string `json:"kind" yaml:"kind"`
	Method      string `json:"method" yaml:"method"`
	Path        string `json:"path" yaml:"path"`
	Description string `json:"description" yaml:"description"`
}

// routesCmd lists the routes the server answers.
var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the server routes",
	Long: `List the routes the server answers. Every other path returns 404.

Example:
  loopblock routes
  loopblock routes --slow-duration 2s --json`,
	Run: runRoutes,
}

func init() {
	routesCmd.Flags().Duration("slow-duration", config.DefaultSlowDuration, "how long /slow keeps the dispatch loop busy")
	routesCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	routesCmd.Flags().BoolVar(&outputYAML, "yaml", false, "output as YAML")
}

func runRoutes(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		exitError("failed to load config: %v", err)
	}

	routes := api.Routes(cfg.Slow.Duration)
	views := make([]routeView, 0, len(routes))
	for _, r := range routes {
		views = append(views, routeView{Kind: string(r.Category), Method: r.Method, Path: r.Path, Description: r.Description})
	}

	printed, err := printFormatted(cmd.OutOrStdout(), views)
	if err != nil {
		exitError("failed to encode routes: %v", err)
	}
	if !printed {
		renderRoutes(cmd.OutOrStdout(), routes)
	}
}
