package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unowned-ai/reverie/pkg/analysis"
	"github.com/unowned-ai/reverie/pkg/tui"
)

// chartsWidth is the plot width used by the charts command.
const chartsWidth = 60

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the journal analysis report",
	Long:  `Prints statistics, emotions, sentiment, common themes, frequent words, recent dreams and insights.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		j, closer, _, err := openJournal(cmd.Context())
		if err != nil {
			return err
		}
		defer closer()

		stats := analysis.Aggregate(j.All())
		fmt.Fprint(cmd.OutOrStdout(), analysis.Report(stats, analysis.Insights(stats)))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the analysis report to a text file",
	Long: `Writes the analysis report, headed with the export time, to a text file.

With no --out the file is written to the current directory as
dream_analysis_YYYYMMDD_HHMMSS.txt. If --out names a directory the file is
created inside it, otherwise --out is used as the file path. Use --out - to
print to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		j, closer, _, err := openJournal(cmd.Context())
		if err != nil {
			return err
		}
		defer closer()

		now := time.Now()
		stats := analysis.Aggregate(j.All())
		content, err := analysis.Export(stats, analysis.Insights(stats), now)
		if errors.Is(err, analysis.ErrNothingToExport) {
			return errors.New("no dreams to export")
		}
		if err != nil {
			return err
		}

		if out == "-" {
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		}

		path := exportPath(out, now)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		logger.Info("exported analysis", zap.String("path", path), zap.Int("dreams", stats.Total))
		fmt.Fprintf(cmd.OutOrStdout(), "Analysis exported to %s\n", path)
		return nil
	},
}

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Print sleep quality, emotion and theme charts",
	Long:  `Renders the sleep quality sparkline, the emotion timeline and the emotion and theme frequency bars to the terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		j, closer, _, err := openJournal(cmd.Context())
		if err != nil {
			return err
		}
		defer closer()

		if j.Len() == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No dreams recorded yet.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), tui.Charts(j, chartsWidth))
		return nil
	},
}

// exportPath resolves the --out flag into the file to write.
func exportPath(out string, now time.Time) string {
	name := analysis.ExportFileName(now)
	if out == "" {
		return name
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, name)
	}
	return out
}

func initReportCmds() {
	exportCmd.Flags().String("out", "", "Output file or directory (default: current directory, '-' for stdout)")
}
