package main

import (
	"github.com/spf13/cobra"

	"github.com/unowned-ai/reverie/pkg/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Show terminal UI",
	Long:  `Display an interactive terminal UI for recording dreams and browsing the journal, report and charts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		j, closer, storeName, err := openJournal(cmd.Context())
		if err != nil {
			return err
		}
		defer closer()

		return tui.ShowTUI(j, storeName)
	},
}
