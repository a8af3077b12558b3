// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
	"github.com/yourusername/paddock/internal/models"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogBetPlacement logs a bet placement event.
func (al *AuditLogger) LogBetPlacement(bet *models.Bet) {
	fields := logrus.Fields{
		"bet_id":    bet.ID.String(),
		"race_id":   bet.RaceID.String(),
		"market":    string(bet.Market),
		"horse_id":  bet.HorseID.String(),
		"stake":     bet.Stake.String(),
		"odds":      bet.Odds.String(),
		"timestamp": bet.PlacedAt.Unix(),
	}
	if bet.SecondHorseID != nil {
		fields["second_horse_id"] = bet.SecondHorseID.String()
	}
	al.WithFields(fields).Info("Bet placement recorded")
}

// LogBetSettlement logs a bet settlement.
func (al *AuditLogger) LogBetSettlement(bet *models.Bet) {
	al.WithFields(logrus.Fields{
		"bet_id":      bet.ID.String(),
		"race_id":     bet.RaceID.String(),
		"market":      string(bet.Market),
		"stake":       bet.Stake.String(),
		"payout":      bet.Payout.String(),
		"profit_loss": bet.ProfitLoss().String(),
	}).Info("Bet settled")
}

// LogStableChange logs a lifecycle change to a horse such as injury or retirement.
func (al *AuditLogger) LogStableChange(horse *models.Horse, change string, details map[string]interface{}) {
	al.WithFields(logrus.Fields{
		"horse_id":   horse.ID.String(),
		"horse_name": horse.Name,
		"change":     change,
		"details":    details,
	}).Info("Stable change recorded")
}

// LogWalletChange logs a wallet balance movement.
func (al *AuditLogger) LogWalletChange(oldBalance, newBalance, reason string) {
	al.WithFields(logrus.Fields{
		"old_balance": oldBalance,
		"new_balance": newBalance,
		"reason":      reason,
	}).Info("Wallet balance changed")
}
