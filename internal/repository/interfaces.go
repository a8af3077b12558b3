package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yourusername/paddock/internal/models"
)

// HorseRepository defines the interface for horse data access. Reads attach
// the horse's active injury.
type HorseRepository interface {
	Create(ctx context.Context, horse *models.Horse) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Horse, error)
	GetByName(ctx context.Context, name string) (*models.Horse, error)
	List(ctx context.Context) ([]*models.Horse, error)
	ListActive(ctx context.Context) ([]*models.Horse, error)
	Update(ctx context.Context, horse *models.Horse) error
	Count(ctx context.Context) (int, error)
}

// InjuryRepository stores at most one active injury per horse
type InjuryRepository interface {
	// Set stores the injury, or clears it when the injury is nil or healed
	Set(ctx context.Context, horseID uuid.UUID, injury *models.Injury) error
	Get(ctx context.Context, horseID uuid.UUID) (*models.Injury, error)
	ActiveByHorse(ctx context.Context) (map[uuid.UUID]*models.Injury, error)
}

// RaceRepository defines the interface for race data access
type RaceRepository interface {
	// Record stores a completed race with its finishers atomically
	Record(ctx context.Context, race *models.Race, results []models.FinisherResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Race, error)
	GetResults(ctx context.Context, raceID uuid.UUID) ([]models.FinisherResult, error)
	Recent(ctx context.Context, limit int) ([]*models.Race, error)
	// RecentPositions returns the horse's finishing positions, newest first
	RecentPositions(ctx context.Context, horseID uuid.UUID, limit int) ([]int, error)
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	Create(ctx context.Context, bet *models.Bet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error)
	GetByRaceID(ctx context.Context, raceID uuid.UUID) ([]*models.Bet, error)
	Update(ctx context.Context, bet *models.Bet) error
	GetPendingBets(ctx context.Context) ([]*models.Bet, error)
	// NetProfit sums payout minus stake across settled bets
	NetProfit(ctx context.Context) (decimal.Decimal, error)
}

// ChampionshipRepository stores completed series
type ChampionshipRepository interface {
	Record(ctx context.Context, result *models.ChampionshipResult) error
	// PrizeTotal sums the organiser prizes paid so far
	PrizeTotal(ctx context.Context) (decimal.Decimal, error)
}

// Store bundles the repositories a backend provides
type Store interface {
	Horses() HorseRepository
	Injuries() InjuryRepository
	Races() RaceRepository
	Bets() BetRepository
	Championships() ChampionshipRepository
	// WithTx runs fn in one transaction. Repository calls made with the
	// context handed to fn join it; nested calls reuse the outer transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Close() error
}
