package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/paddock/internal/render"
)

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of races to list")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent races and the last result",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		races, err := store.Races().Recent(ctx, historyLimit)
		if err != nil {
			return err
		}
		if len(races) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No races run yet")
			return nil
		}

		horses, err := store.Horses().List(ctx)
		if err != nil {
			return err
		}
		names, _ := namesOf(horses)

		out := render.NewConsole(cmd.OutOrStdout())
		out.Races(races, names)

		results, err := store.Races().GetResults(ctx, races[0].ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Last race (seed %d):\n", races[0].Seed)
		out.Results(results, names)

		bets, err := store.Bets().GetByRaceID(ctx, races[0].ID)
		if err != nil {
			return err
		}
		if len(bets) > 0 {
			out.Bets(bets, names)
		}
		return nil
	},
}
