package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"loadwright/internal/analysis"
	"loadwright/internal/impact"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a mod list and print a conflict report with a suggested load order",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("game", "", "Game ID to analyze against (see the games command)")
	analyzeCmd.Flags().String("game-version", "", "Installed game version, for minimum_game_version checks")
	analyzeCmd.Flags().String("input", "-", "Path to the mod list, or - for stdin")
	analyzeCmd.Flags().String("hardware-tier", "", "Optional hardware tier label for the impact report")
	analyzeCmd.Flags().Float64("vram-gb", 0, "Optional available VRAM in gigabytes, for hardware-pressure advisory")
	analyzeCmd.Flags().Int("info-cap", 0, "Override the info-finding cap (default 12)")
	analyzeCmd.Flags().String("masterlist-version", "", "Pin analysis to a specific cached masterlist version")
	analyzeCmd.Flags().Int("heaviest-n", 0, "Override how many heaviest contributors the impact report ranks (default 10)")
	analyzeCmd.Flags().Bool("json", false, "Emit the canonical report as JSON instead of a rendered table")
	_ = analyzeCmd.MarkFlagRequired("game")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	game, _ := cmd.Flags().GetString("game")
	gameVersion, _ := cmd.Flags().GetString("game-version")
	inputPath, _ := cmd.Flags().GetString("input")
	hardwareTier, _ := cmd.Flags().GetString("hardware-tier")
	vramGB, _ := cmd.Flags().GetFloat64("vram-gb")
	infoCap, _ := cmd.Flags().GetInt("info-cap")
	masterlistVersion, _ := cmd.Flags().GetString("masterlist-version")
	heaviestN, _ := cmd.Flags().GetInt("heaviest-n")
	asJSON, _ := cmd.Flags().GetBool("json")

	raw, err := readInput(inputPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(2)
	}

	var profile *impact.HardwareProfile
	if vramGB > 0 {
		profile = &impact.HardwareProfile{Tier: hardwareTier, VRAMGB: vramGB}
	}

	opts := resolveOptions(cmd)
	coordinator := buildCoordinator(opts)

	effectiveHeaviestN := opts.HeaviestN
	if heaviestN > 0 {
		effectiveHeaviestN = heaviestN
	}
	effectiveInfoCap := opts.InfoCap
	if infoCap > 0 {
		effectiveInfoCap = infoCap
	}

	req := analysis.Request{
		RawList:           raw,
		Game:              game,
		GameVersion:       gameVersion,
		HardwareProfile:   profile,
		InfoCap:           effectiveInfoCap,
		HeaviestN:         effectiveHeaviestN,
		MasterlistVersion: masterlistVersion,
	}

	rep, err := coordinator.Analyze(cmd.Context(), req)
	if err != nil {
		var analysisErr *analysis.Error
		if errors.As(err, &analysisErr) {
			pterm.Error.Println(analysisErr.Message)
			switch analysisErr.Kind {
			case analysis.KindValidationError:
				os.Exit(2)
			case analysis.KindSourceUnavailable:
				os.Exit(3)
			default:
				os.Exit(1)
			}
		}
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
	} else {
		renderReport(rep)
	}

	if rep.DeadlineExceeded {
		os.Exit(4)
	}
	return nil
}

func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading mod list from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading mod list from %s: %w", path, err)
	}
	return string(data), nil
}
