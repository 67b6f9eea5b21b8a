package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/loopblock/loopblock/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd groups the commands that inspect the port and slow duration settings.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the server configuration",
	Long: `Inspect the two settings loopblock understands: the listening port and
how long GET /slow keeps the dispatch loop busy.

Settings come from, highest precedence first: serve flags, the
LOOPBLOCK_SERVER_PORT / LOOPBLOCK_SLOW_DURATION environment variables,
config.yaml, built-in defaults (port 3000, 10s).`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective port and slow duration",
	Run:   runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "List where config.yaml is looked up",
	Run:   runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config.yaml with the default port and slow duration",
	Run:   runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

// defaultConfig is written by config init.
const defaultConfig = `# loopblock configuration

server:
  port: 3000

# How long GET /slow keeps the dispatch loop busy.
slow:
  duration: 10s
`

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		exitError("failed to load config: %v", err)
	}

	data, err := yaml.Marshal(configView(cfg))
	if err != nil {
		exitError("failed to marshal config: %v", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
}

// configView renders durations as strings rather than nanosecond counts.
func configView(cfg *config.Config) map[string]interface{} {
	return map[string]interface{}{
		"server": map[string]interface{}{"port": cfg.Server.Port},
		"slow":   map[string]interface{}{"duration": cfg.Slow.Duration.String()},
	}
}

func runConfigPath(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	if cfgFile != "" {
		fmt.Fprintf(out, "%s (--config)\n", cfgFile)
		return
	}

	table := newTable(out)
	table.SetHeader([]string{"Path", "Present"})
	for _, dir := range config.SearchDirs() {
		p := filepath.Join(dir, "config.yaml")
		present := "no"
		if _, err := os.Stat(p); err == nil {
			present = "yes"
		}
		table.Append([]string{p, present})
	}
	table.Render()
}

func runConfigInit(cmd *cobra.Command, args []string) {
	dir, err := config.Dir()
	if err != nil {
		exitError("failed to get home directory: %v", err)
	}
	configPath := filepath.Join(dir, "config.yaml")

	if err := os.MkdirAll(dir, 0755); err != nil {
		exitError("failed to create config directory: %v", err)
	}
	if _, err := os.Stat(configPath); err == nil {
		exitError("config file already exists: %s", configPath)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		exitError("failed to write config file: %v", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", configPath)
}
