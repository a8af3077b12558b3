package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/paddock/internal/render"
	"github.com/yourusername/paddock/internal/service"
)

var (
	champSeed int64
	champBets []string
)

func init() {
	championshipCmd.Flags().Int64Var(&champSeed, "seed", 0, "Series seed; round n races with seed+n (0 picks one from the clock)")
	championshipCmd.Flags().StringArrayVar(&champBets, "bet", nil, "Bet placed on every round as MARKET:HORSE[/SECOND]:STAKE, repeatable")
	rootCmd.AddCommand(championshipCmd)
}

var championshipCmd = &cobra.Command{
	Use:   "championship",
	Short: "Run a points series over a fixed field",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := ensureStable(ctx); err != nil {
			return err
		}

		seed := seedOrNow(champSeed)
		field, err := svc.ChampionshipField(ctx, seed)
		if err != nil {
			return err
		}
		names, _ := namesOf(field)
		out := render.NewConsole(cmd.OutOrStdout())

		runner := svc.NewChampionshipRunner(seed)
		runner.BeforeRound = func(ctx context.Context, card *service.Card) error {
			fmt.Fprintf(cmd.OutOrStdout(), "\nRound %d (seed %d)\n", card.Seed-seed, card.Seed)
			out.Terrain(card.Track)
			out.OddsBoard(card.Entrants, card.Pack)
			return placeSlips(ctx, card, champBets)
		}

		series, err := svc.NewSeries(field, runner)
		if err != nil {
			return err
		}

		for !series.Complete() {
			round, err := series.Next(ctx)
			if err != nil {
				return err
			}
			out.Results(round.Results, names)
			out.Standings(series.Standings())
		}

		for _, report := range runner.Reports {
			if len(report.Bets) > 0 {
				out.Bets(report.Bets, names)
			}
		}

		result, err := svc.CompleteChampionship(ctx, series, seed)
		if err != nil {
			return err
		}
		champion := series.Champion()
		fmt.Fprintf(cmd.OutOrStdout(), "Champion: %s with %d points\n", champion.Name, champion.Points)
		fmt.Fprintf(cmd.OutOrStdout(), "Organiser prize: %s\n", result.Prize.StringFixed(2))
		fmt.Fprintf(cmd.OutOrStdout(), "Wallet: %s\n", svc.Wallet().Balance().StringFixed(2))
		return nil
	},
}
