package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/reverie/pkg/dreams"
)

var dreamsCmd = &cobra.Command{
	Use:   "dreams",
	Short: "Record, list and search dreams",
	Long:  `Provides commands for recording new dreams and browsing the journal.`,
}

var createDreamCmd = &cobra.Command{
	Use:   "create",
	Short: "Record a new dream",
	Long: `Records a new dream. Sentiment is computed from the description and the
journal is saved to the configured store.

Example:
  reverie dreams create --title "Flying" --description "I was flying over the sea" \
    --emotion Excited --tags "flying, sea" --quality 8 --lucid`,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		emotion, _ := cmd.Flags().GetString("emotion")
		tags, _ := cmd.Flags().GetString("tags")
		lucid, _ := cmd.Flags().GetBool("lucid")
		quality, _ := cmd.Flags().GetInt("quality")

		j, closer, _, err := openJournal(cmd.Context())
		if err != nil {
			return err
		}
		defer closer()

		res, err := j.Create(cmd.Context(), dreams.Input{
			Title:        title,
			Description:  description,
			Emotion:      emotion,
			Lucid:        lucid,
			Tags:         tags,
			SleepQuality: quality,
		})
		if dreams.IsValidation(err) {
			return err
		}

		var pe *dreams.PersistenceError
		if err != nil && !errors.As(err, &pe) {
			return err
		}

		printDream(cmd.OutOrStdout(), res.Dream)
		if pe != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: dream %d is recorded for this session only.\n", res.Dream.ID)
			return fmt.Errorf("could not save journal: %w", pe.Err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nDream %d saved.\n", res.Dream.ID)
		return nil
	},
}

var listDreamsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all dreams",
	Long:  `Lists every dream in the order it was recorded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		j, closer, _, err := openJournal(cmd.Context())
		if err != nil {
			return err
		}
		defer closer()

		return printDreams(cmd, j.All(), asJSON, "No dreams recorded yet.")
	},
}

var searchDreamsCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search dreams by keyword",
	Long: `Finds dreams whose title, description or tags contain QUERY, ignoring case.

Example:
  reverie dreams search water
  reverie dreams search "old house" --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		j, closer, _, err := openJournal(cmd.Context())
		if err != nil {
			return err
		}
		defer closer()

		return printDreams(cmd, j.Search(args[0]), asJSON, fmt.Sprintf("No dreams match '%s'.", args[0]))
	},
}

func printDreams(cmd *cobra.Command, ds []dreams.Dream, asJSON bool, emptyMsg string) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if ds == nil {
			ds = []dreams.Dream{}
		}
		return enc.Encode(ds)
	}

	if len(ds) == 0 {
		fmt.Fprintln(out, emptyMsg)
		return nil
	}
	fmt.Fprintf(out, "%-4s %-19s %-10s %-5s %s\n", "ID", "DATE", "EMOTION", "LUCID", "TITLE")
	for _, d := range ds {
		lucid := "no"
		if d.Lucid {
			lucid = "yes"
		}
		fmt.Fprintf(out, "%-4d %-19s %-10s %-5s %s\n", d.ID, d.Date, d.EmotionLabel(), lucid, d.Title)
	}
	return nil
}

func initDreamsCmd() {
	createDreamCmd.Flags().String("title", "", "Title of the dream (required)")
	createDreamCmd.Flags().String("description", "", "What happened in the dream (required)")
	createDreamCmd.Flags().String("emotion", "", "Dominant emotion, e.g. Happy, Scared, Peaceful")
	createDreamCmd.Flags().String("tags", "", "Comma-separated tags, e.g. \"flying, water\"")
	createDreamCmd.Flags().Bool("lucid", false, "Mark the dream as lucid")
	createDreamCmd.Flags().Int("quality", dreams.DefaultSleepQuality, "Sleep quality from 1 to 10")

	listDreamsCmd.Flags().Bool("json", false, "Print dreams as JSON")
	searchDreamsCmd.Flags().Bool("json", false, "Print matches as JSON")

	dreamsCmd.AddCommand(createDreamCmd, listDreamsCmd, searchDreamsCmd)
}
