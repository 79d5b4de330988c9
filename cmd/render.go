package cmd

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"loadwright/internal/conflict"
	"loadwright/internal/report"
)

// renderReport prints a CanonicalReport as a rich table when attached to a
// terminal, falling back to the raw-output path pterm.RawOutput selects
// for piped or CI invocations.
func renderReport(rep *report.CanonicalReport) {
	header := fmt.Sprintf("Analysis %s for %s (masterlist %s)", rep.RequestID, rep.Game, rep.MasterlistVersion)
	if rep.Degraded {
		header += " [degraded: serving stale masterlist]"
	}
	if rep.DeadlineExceeded {
		header += " [partial: deadline exceeded]"
	}

	if pterm.RawOutput {
		pterm.Println(header)
	} else {
		pterm.DefaultSection.Println(header)
	}

	pterm.Printf("list: %d entries, %d enabled, %d disabled\n",
		rep.ListSummary.TotalEntries, rep.ListSummary.EnabledCount, rep.ListSummary.DisabledCount)

	renderFindings("Errors", rep.FindingsBySeverity.Errors, pterm.FgRed)
	renderFindings("Warnings", rep.FindingsBySeverity.Warnings, pterm.FgYellow)
	renderFindings("Info", rep.FindingsBySeverity.Info, pterm.FgGray)

	if rep.InfoCapped {
		pterm.Warning.Printf("info findings truncated: %d dropped\n", rep.DroppedInfo)
	}

	if len(rep.SuggestedOrder) > 0 {
		if pterm.RawOutput {
			pterm.Println("\nSuggested order:")
			pterm.Println(strings.Join(rep.SuggestedOrder, "\n"))
		} else {
			tableData := pterm.TableData{{"#", "Mod"}}
			for i, name := range rep.SuggestedOrder {
				tableData = append(tableData, []string{fmt.Sprintf("%d", i+1), name})
			}
			_ = pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
		}
	}

	pterm.Printf("\nimpact: total pressure %d across %d plugins, %d light plugins",
		rep.ImpactReport.TotalPressure, rep.ImpactReport.PluginCountEnabled, rep.ImpactReport.LightPluginCountEnabled)
	if rep.ImpactReport.HardwarePressureComputed {
		pterm.Printf(" (hardware pressure: %s)", rep.ImpactReport.HardwarePressure)
	}
	pterm.Println()
}

func renderFindings(label string, findings []conflict.Finding, color pterm.Color) {
	if len(findings) == 0 {
		return
	}
	pterm.Println()
	pterm.NewStyle(color, pterm.Bold).Printf("%s (%d)\n", label, len(findings))
	for _, f := range findings {
		line := fmt.Sprintf("  [%s] %s", f.Kind, f.Message)
		if f.Remediation != nil && f.Remediation.SuggestedAction != "" {
			line += " -> " + f.Remediation.SuggestedAction
		}
		pterm.NewStyle(color).Println(line)
	}
}
