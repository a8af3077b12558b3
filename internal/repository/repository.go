package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/paddock/internal/database"
)

// Repositories holds the PostgreSQL repository implementations
type Repositories struct {
	db     *database.DB
	Horse  HorseRepository
	Injury InjuryRepository
	Race   RaceRepository
	Bet    BetRepository
	Series ChampionshipRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		db:     db,
		Horse:  NewPostgresHorseRepository(db),
		Injury: NewPostgresInjuryRepository(db),
		Race:   NewPostgresRaceRepository(db),
		Bet:    NewPostgresBetRepository(db),
		Series: NewPostgresChampionshipRepository(db),
	}, nil
}

func (r *Repositories) Horses() HorseRepository { return r.Horse }
func (r *Repositories) Injuries() InjuryRepository { return r.Injury }
func (r *Repositories) Races() RaceRepository { return r.Race }
func (r *Repositories) Bets() BetRepository { return r.Bet }
func (r *Repositories) Championships() ChampionshipRepository { return r.Series }

// WithTx runs fn inside a database transaction
func (r *Repositories) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.WithTransaction(ctx, fn)
}

// Close releases the connection pool
func (r *Repositories) Close() error {
	r.db.Close()
	return nil
}
