package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"loadwright/internal/analysis"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List supported games and their plugin-count thresholds",
	RunE: func(cmd *cobra.Command, args []string) error {
		games := analysis.SupportedGames()

		if pterm.RawOutput {
			for _, g := range games {
				fmt.Printf("%s\t%s\tplugin_soft=%d\tplugin_hard=%d\tlight_soft=%d\tlight_hard=%d\n",
					g.ID, g.DisplayName, g.PluginSoft, g.PluginHard, g.LightSoft, g.LightHard)
			}
			return nil
		}

		tableData := pterm.TableData{
			{"ID", "Name", "Plugin Soft", "Plugin Hard", "Light Soft", "Light Hard"},
		}
		for _, g := range games {
			tableData = append(tableData, []string{
				g.ID, g.DisplayName,
				fmt.Sprintf("%d", g.PluginSoft), fmt.Sprintf("%d", g.PluginHard),
				fmt.Sprintf("%d", g.LightSoft), fmt.Sprintf("%d", g.LightHard),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
	},
}

func init() {
	rootCmd.AddCommand(gamesCmd)
}
