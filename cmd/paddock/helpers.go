package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/paddock/internal/betting"
	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/service"
	"github.com/yourusername/paddock/internal/stable"
)

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// ensureStable seeds the default roster into an empty stable
func ensureStable(ctx context.Context) error {
	n, err := svc.SeedStable(ctx, stable.DefaultRoster())
	if err != nil {
		return err
	}
	if n > 0 {
		appLog.WithField("horses", n).Info("Seeded default stable")
	}
	return nil
}

// seedOrNow returns the flag value, or a clock-derived seed when unset
func seedOrNow(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

func parseRaceType(s string) (models.RaceType, error) {
	switch strings.ToLower(s) {
	case "", "standard":
		return models.RaceTypeStandard, nil
	case "championship":
		return models.RaceTypeChampionship, nil
	}
	return "", fmt.Errorf("unknown race type %q", s)
}

// resolveHorse matches a runner by symbol or name, case-insensitively
func resolveHorse(field []*models.Horse, ref string) (uuid.UUID, error) {
	for _, h := range field {
		if strings.EqualFold(h.Symbol, ref) || strings.EqualFold(h.Name, ref) {
			return h.ID, nil
		}
	}
	return uuid.Nil, fmt.Errorf("%q is not running: %w", ref, models.ErrRunnerNotFound)
}

// parseSlip reads MARKET:HORSE[/SECOND]:STAKE, e.g. "win:T:10" or
// "exacta:Thunder/Storm:5"
func parseSlip(field []*models.Horse, spec string) (betting.Slip, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return betting.Slip{}, fmt.Errorf("bet %q must look like MARKET:HORSE[/SECOND]:STAKE", spec)
	}

	slip := betting.Slip{Market: models.MarketType(strings.ToUpper(parts[0]))}

	stake, err := decimal.NewFromString(parts[2])
	if err != nil {
		return betting.Slip{}, fmt.Errorf("bet %q: invalid stake: %w", spec, err)
	}
	slip.Stake = stake

	horses := strings.SplitN(parts[1], "/", 2)
	if slip.HorseID, err = resolveHorse(field, horses[0]); err != nil {
		return betting.Slip{}, err
	}
	if len(horses) == 2 {
		second, err := resolveHorse(field, horses[1])
		if err != nil {
			return betting.Slip{}, err
		}
		slip.SecondHorseID = &second
	}
	return slip, nil
}

// placeSlips places every --bet against a priced card
func placeSlips(ctx context.Context, card *service.Card, specs []string) error {
	for _, spec := range specs {
		slip, err := parseSlip(card.Field, spec)
		if err != nil {
			return err
		}
		if _, err := svc.PlaceBet(ctx, card.RaceID, slip); err != nil {
			return fmt.Errorf("bet %q refused: %w", spec, err)
		}
	}
	return nil
}

func namesOf(horses []*models.Horse) (names, symbols map[uuid.UUID]string) {
	names = make(map[uuid.UUID]string, len(horses))
	symbols = make(map[uuid.UUID]string, len(horses))
	for _, h := range horses {
		names[h.ID] = h.Name
		symbols[h.ID] = h.Symbol
	}
	return names, symbols
}
