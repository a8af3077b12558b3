package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/paddock/internal/render"
	"github.com/yourusername/paddock/internal/service"
	"github.com/yourusername/paddock/internal/simulation"
)

var (
	raceSeed      int64
	raceType      string
	raceFieldSize int
	raceWatch     float64
	raceBets      []string
)

func init() {
	raceCmd.Flags().Int64Var(&raceSeed, "seed", 0, "Race seed (0 picks one from the clock)")
	raceCmd.Flags().StringVar(&raceType, "type", "standard", "Race type: standard or championship")
	raceCmd.Flags().IntVar(&raceFieldSize, "field", 0, "Maximum runners (0 uses the configured field size)")
	raceCmd.Flags().Float64Var(&raceWatch, "watch", 0, "Print positions at this many ticks per second (0 disables)")
	raceCmd.Flags().StringArrayVar(&raceBets, "bet", nil, "Bet as MARKET:HORSE[/SECOND]:STAKE, repeatable")
	rootCmd.AddCommand(raceCmd)
}

var raceCmd = &cobra.Command{
	Use:   "race",
	Short: "Price and run a single race",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := ensureStable(ctx); err != nil {
			return err
		}

		rt, err := parseRaceType(raceType)
		if err != nil {
			return err
		}

		card, err := svc.PrepareCard(ctx, service.CardOptions{
			Seed:      seedOrNow(raceSeed),
			RaceType:  rt,
			FieldSize: raceFieldSize,
		})
		if err != nil {
			return err
		}

		out := render.NewConsole(cmd.OutOrStdout())
		fmt.Fprintf(cmd.OutOrStdout(), "Race %s (seed %d, %s)\n", card.RaceID, card.Seed, card.RaceType)
		out.Terrain(card.Track)
		out.OddsBoard(card.Entrants, card.Pack)

		if err := placeSlips(ctx, card, raceBets); err != nil {
			return err
		}

		names, symbols := namesOf(card.Field)
		var observer service.Observer
		if raceWatch > 0 {
			svc.SetPace(raceWatch)
			observer = func(tick int, clock float64, states []simulation.RunnerState) {
				out.Tick(clock, states, symbols)
			}
		}

		report, err := svc.RunRace(ctx, card, observer)
		if err != nil {
			return err
		}

		out.Results(report.Results, names)
		if len(report.Bets) > 0 {
			out.Bets(report.Bets, names)
		}
		for _, h := range report.Retired {
			fmt.Fprintf(cmd.OutOrStdout(), "%s retired at age %d\n", h.Name, h.Age)
		}
		for _, h := range report.Rookies {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) joins the stable\n", h.Name, h.Symbol)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wallet: %s\n", svc.Wallet().Balance().StringFixed(2))
		return nil
	},
}

var (
	oddsSeed   int64
	oddsType   string
	oddsExacta bool
)

func init() {
	oddsCmd.Flags().Int64Var(&oddsSeed, "seed", 0, "Race seed (0 picks one from the clock)")
	oddsCmd.Flags().StringVar(&oddsType, "type", "standard", "Race type: standard or championship")
	oddsCmd.Flags().BoolVar(&oddsExacta, "exacta", false, "Also print the EXACTA grid")
	rootCmd.AddCommand(oddsCmd)
}

var oddsCmd = &cobra.Command{
	Use:   "odds",
	Short: "Show the priced book for a seed without running the race",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := ensureStable(ctx); err != nil {
			return err
		}

		rt, err := parseRaceType(oddsType)
		if err != nil {
			return err
		}
		card, err := svc.PrepareCard(ctx, service.CardOptions{Seed: seedOrNow(oddsSeed), RaceType: rt})
		if err != nil {
			return err
		}

		out := render.NewConsole(cmd.OutOrStdout())
		fmt.Fprintf(cmd.OutOrStdout(), "Seed %d, overround %.3f\n", card.Seed, card.Pack.Overround())
		out.Terrain(card.Track)
		out.OddsBoard(card.Entrants, card.Pack)
		if oddsExacta {
			out.ExactaGrid(card.Entrants, card.Pack)
		}
		return nil
	},
}
