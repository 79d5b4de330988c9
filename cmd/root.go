// Package cmd implements the loadwright CLI surface: a thin Cobra
// wrapper around the analysis core that a human or a script can drive
// directly, without standing up the HTTP layer.
package cmd

import (
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"loadwright/internal/analysis"
	"loadwright/internal/config"
	"loadwright/internal/masterlist"
)

var rootCmd = &cobra.Command{
	Use:   "loadwright",
	Short: "Analyze a Bethesda-game mod list for conflicts and suggest a load order",
	Long:  `loadwright joins a user mod list against a curated masterlist to surface incompatibilities, missing requirements, load-order problems, and system-resource pressure.`,
}

// Execute initializes the root command tree and delegates to Cobra for
// argument parsing and subcommand dispatch.
func Execute() {
	if !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("NO_COLOR") != "" {
		pterm.DisableStyling()
		pterm.RawOutput = true
	}
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("cache-root", "", "Override the masterlist cache root directory")
	rootCmd.PersistentFlags().Int("freshness-days", 0, "Override the masterlist freshness window in days")
}

// resolveOptions layers persistent-flag overrides over environment and
// documented defaults: flags win last.
func resolveOptions(cmd *cobra.Command) config.Options {
	opts := config.FromEnvironment()

	cacheRoot, _ := cmd.Flags().GetString("cache-root")
	freshnessDays, _ := cmd.Flags().GetInt("freshness-days")

	return opts.Override(config.Options{
		CacheRoot:           cacheRoot,
		FreshnessWindowDays: freshnessDays,
	})
}

// buildCoordinator wires an ML Store with the resolved cache/freshness
// options into a fresh Analysis Coordinator.
func buildCoordinator(opts config.Options) *analysis.Coordinator {
	freshness := time.Duration(opts.FreshnessWindowDays) * 24 * time.Hour
	store := masterlist.NewStore(opts.CacheRoot, freshness, masterlist.DefaultSource(defaultMasterlistBaseURL))
	return analysis.NewCoordinator(store)
}

// defaultMasterlistBaseURL is the canonical upstream masterlist host. A
// deployment that curates its own masterlists overrides this by pointing
// CACHE_ROOT at a pre-seeded cache and relying on the freshness window
// never forcing a live fetch.
const defaultMasterlistBaseURL = "https://masterlists.loadwright.dev"
