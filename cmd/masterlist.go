package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var masterlistCmd = &cobra.Command{
	Use:   "masterlist",
	Short: "Inspect or refresh cached masterlist data for a game",
}

var masterlistInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the cached masterlist version and freshness for a game",
	RunE:  runMasterlistInfo,
}

var masterlistRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force a re-download of a game's masterlist",
	RunE:  runMasterlistRefresh,
}

var masterlistVersionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List pinned historical masterlist versions cached on disk",
	RunE:  runMasterlistVersions,
}

func init() {
	for _, c := range []*cobra.Command{masterlistInfoCmd, masterlistRefreshCmd, masterlistVersionsCmd} {
		c.Flags().String("game", "", "Game ID (see the games command)")
		_ = c.MarkFlagRequired("game")
	}
	masterlistCmd.AddCommand(masterlistInfoCmd, masterlistRefreshCmd, masterlistVersionsCmd)
	rootCmd.AddCommand(masterlistCmd)
}

func runMasterlistInfo(cmd *cobra.Command, args []string) error {
	game, _ := cmd.Flags().GetString("game")
	coordinator := buildCoordinator(resolveOptions(cmd))

	version, degraded, err := coordinator.MasterlistInfo(cmd.Context(), game)
	if err != nil {
		return err
	}

	if pterm.RawOutput {
		fmt.Printf("version=%s degraded=%t\n", version, degraded)
		return nil
	}

	status := pterm.Green("fresh")
	if degraded {
		status = pterm.Red("degraded")
	}
	pterm.Printf("%s: version %s (%s)\n", game, version, status)
	return nil
}

func runMasterlistRefresh(cmd *cobra.Command, args []string) error {
	game, _ := cmd.Flags().GetString("game")
	coordinator := buildCoordinator(resolveOptions(cmd))

	var (
		version  string
		degraded bool
		err      error
	)

	if pterm.RawOutput {
		pterm.Info.Printf("refreshing masterlist for %s...\n", game)
		version, degraded, err = coordinator.Refresh(cmd.Context(), game)
	} else {
		spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("refreshing masterlist for %s...", game))
		version, degraded, err = coordinator.Refresh(cmd.Context(), game)
		if err != nil {
			spinner.Fail("refresh failed")
		} else if degraded {
			spinner.Warning(fmt.Sprintf("refresh degraded, serving cached version %s", version))
		} else {
			spinner.Success(fmt.Sprintf("refreshed to version %s", version))
		}
	}

	return err
}

func runMasterlistVersions(cmd *cobra.Command, args []string) error {
	game, _ := cmd.Flags().GetString("game")
	coordinator := buildCoordinator(resolveOptions(cmd))

	versions, err := coordinator.ListMasterlistVersions(game)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		pterm.Println("no pinned versions cached")
		return nil
	}
	for _, v := range versions {
		pterm.Println(v)
	}
	return nil
}
