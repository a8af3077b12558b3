package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChampionshipResult is a completed series and the organiser prize it paid
type ChampionshipResult struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	ChampionID  uuid.UUID       `db:"champion_id" json:"champion_id"`
	Points      int             `db:"points" json:"points"`
	Rounds      int             `db:"rounds" json:"rounds"`
	BaseSeed    int64           `db:"base_seed" json:"base_seed"`
	Prize       decimal.Decimal `db:"prize" json:"prize"`
	CompletedAt time.Time       `db:"completed_at" json:"completed_at"`
}
