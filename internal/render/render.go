// Package render prints paddock data as terminal tables.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"

	"github.com/yourusername/paddock/internal/calibration"
	"github.com/yourusername/paddock/internal/championship"
	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/odds"
	"github.com/yourusername/paddock/internal/simulation"
	"github.com/yourusername/paddock/internal/terrain"
)

// Console writes tables to an output stream
type Console struct {
	out io.Writer
}

// NewConsole creates a console writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Terrain prints the segment layout in running order
func (c *Console) Terrain(track terrain.Track) {
	types := make([]string, len(track.Segments))
	for i, s := range track.Segments {
		types[i] = string(s.Type)
	}
	fmt.Fprintf(c.out, "Terrain (%d x %.0fm): %s\n", len(track.Segments), track.SegmentLength, strings.Join(types, " > "))
}

// OddsBoard prints each entrant's race-day stats and prices
func (c *Console) OddsBoard(entrants []models.Entrant, pack *odds.Pack) {
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Horse", "Age", "Speed", "Stamina", "Accel", "Form", "Fair %", "WIN", "PLACE")

	for i, e := range entrants {
		win, _ := pack.Win(e.HorseID)
		place, _ := pack.Place(e.HorseID)
		table.Append(
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%s (%s)", e.Name, e.Symbol),
			fmt.Sprintf("%d", e.Age),
			fmt.Sprintf("%.2f", e.Stats.Speed),
			fmt.Sprintf("%.2f", e.Stats.Stamina),
			fmt.Sprintf("%.2f", e.Stats.Acceleration),
			fmt.Sprintf("x%.3f", e.Stats.FormMod),
			fmt.Sprintf("%.1f", pack.FairProbability(e.HorseID)*100),
			fmt.Sprintf("%.2f", win),
			fmt.Sprintf("%.2f", place),
		)
	}
	table.Render()
	fmt.Fprintf(c.out, "  Overround %.3f\n", pack.Overround())
}

// ExactaGrid prints EXACTA prices with the winner down the side and the
// runner-up across the top
func (c *Console) ExactaGrid(entrants []models.Entrant, pack *odds.Pack) {
	header := []any{"1st \\ 2nd"}
	for _, e := range entrants {
		header = append(header, e.Symbol)
	}

	table := tablewriter.NewWriter(c.out)
	table.Header(header...)
	for _, first := range entrants {
		row := []any{first.Symbol}
		for _, second := range entrants {
			if first.HorseID == second.HorseID {
				row = append(row, "-")
				continue
			}
			price, _ := pack.Exacta(first.HorseID, second.HorseID)
			row = append(row, fmt.Sprintf("%.2f", price))
		}
		table.Append(row...)
	}
	table.Render()
}

// Results prints the finishing order
func (c *Console) Results(results []models.FinisherResult, names map[uuid.UUID]string) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Pos", "Horse", "Time", "Gap", "Splits", "Note")

	for _, r := range results {
		gap := "-"
		if r.Position > 1 && len(results) > 0 {
			gap = fmt.Sprintf("+%.2f", r.FinishTime-results[0].FinishTime)
		}
		note := ""
		if r.Injured {
			note = "injured"
		}
		table.Append(
			fmt.Sprintf("%d", r.Position),
			names[r.HorseID],
			fmt.Sprintf("%.2f", r.FinishTime),
			gap,
			formatSplits(r.Splits),
			note,
		)
	}
	table.Render()
}

// Races prints completed races, newest first
func (c *Console) Races(races []*models.Race, names map[uuid.UUID]string) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Race", "Run at", "Type", "Seed", "Winner")

	for _, r := range races {
		winner := names[r.WinnerID]
		if winner == "" {
			winner = "-"
		}
		table.Append(
			r.ID.String()[:8],
			r.RunAt.Format("2006-01-02 15:04:05"),
			string(r.RaceType),
			fmt.Sprintf("%d", r.Seed),
			winner,
		)
	}
	table.Render()
}

func formatSplits(splits []float64) string {
	parts := make([]string, len(splits))
	for i, s := range splits {
		parts[i] = fmt.Sprintf("%.1f", s)
	}
	return strings.Join(parts, " ")
}

// Bets prints bets with their settlement
func (c *Console) Bets(bets []*models.Bet, names map[uuid.UUID]string) {
	if len(bets) == 0 {
		return
	}
	table := tablewriter.NewWriter(c.out)
	table.Header("Market", "Selection", "Stake", "Odds", "Status", "Payout")

	for _, b := range bets {
		selection := names[b.HorseID]
		if b.SecondHorseID != nil {
			selection += " / " + names[*b.SecondHorseID]
		}
		table.Append(
			string(b.Market),
			selection,
			b.Stake.StringFixed(2),
			b.Odds.StringFixed(2),
			string(b.Status),
			b.Payout.StringFixed(2),
		)
	}
	table.Render()
}

// Stable prints the horse roster
func (c *Console) Stable(horses []*models.Horse) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Horse", "Sym", "Age", "Speed", "Stamina", "Accel", "Runs", "Wins", "Win %", "Status")

	for _, h := range horses {
		table.Append(
			h.Name,
			h.Symbol,
			fmt.Sprintf("%d", h.Age),
			fmt.Sprintf("%.2f", h.BaseSpeed),
			fmt.Sprintf("%.2f", h.BaseStamina),
			fmt.Sprintf("%.2f", h.BaseAcceleration),
			fmt.Sprintf("%d", h.RacesRun),
			fmt.Sprintf("%d", h.Wins),
			fmt.Sprintf("%.0f", h.WinRate()*100),
			horseStatus(h),
		)
	}
	table.Render()
}

func horseStatus(h *models.Horse) string {
	switch {
	case h.Retired:
		return "retired"
	case h.IsInjured():
		return fmt.Sprintf("%s (sev %d, %d to go)", h.Injury.Type, h.Injury.Severity, h.Injury.RacesRemaining)
	default:
		return "fit"
	}
}

// Standings prints a championship points table
func (c *Console) Standings(standings []championship.Standing) {
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Horse", "Points", "Wins")

	for i, s := range standings {
		table.Append(
			fmt.Sprintf("%d", i+1),
			s.Name,
			fmt.Sprintf("%d", s.Points),
			fmt.Sprintf("%d", s.Wins),
		)
	}
	table.Render()
}

// Calibration prints simulated win rates against fair probabilities
func (c *Console) Calibration(report *calibration.Report) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Horse", "Fair %", "Won %", "Dev", "Mean time", "Std", "Injuries")

	for _, h := range report.Horses {
		table.Append(
			h.Name,
			fmt.Sprintf("%.1f", h.FairProbability*100),
			fmt.Sprintf("%.1f", h.WinRate*100),
			fmt.Sprintf("%+.3f", h.Deviation),
			fmt.Sprintf("%.2f", h.MeanFinishTime),
			fmt.Sprintf("%.2f", h.StdFinishTime),
			fmt.Sprintf("%d", h.Injuries),
		)
	}
	table.Render()
	fmt.Fprintf(c.out, "  %d races from seed %d | max deviation %.3f | injury rate %.3f | mean ticks %.1f | %dms\n",
		report.Runs, report.BaseSeed, report.MaxDeviation, report.InjuryRate, report.MeanTicks, report.ElapsedMillis)
}

// Tick prints one line of positions for watch mode
func (c *Console) Tick(clock float64, states []simulation.RunnerState, symbols map[uuid.UUID]string) {
	var b strings.Builder
	fmt.Fprintf(&b, "t=%5.1fs", clock)
	for _, s := range states {
		mark := ""
		switch {
		case s.Finished:
			mark = "|"
		case s.Injured:
			mark = "!"
		case s.Exhausted:
			mark = "~"
		}
		fmt.Fprintf(&b, "  %s %6.1fm%s", symbols[s.HorseID], s.Position, mark)
	}
	fmt.Fprintln(c.out, b.String())
}
