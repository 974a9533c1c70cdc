package notification

import (
	"context"
	"log/slog"
)

const (
	// KindDeposit indicates funds were added to a wallet.
	KindDeposit = "deposit"
	// KindWithdrawal indicates funds were removed from a wallet.
	KindWithdrawal = "withdrawal"
)

// Message describes a balance-affecting event.
type Message struct {
	Kind     string
	UserID   string
	Currency string
	Amount   string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a stub implementation that writes notifications to the logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification",
		"kind", message.Kind,
		"user_id", message.UserID,
		"currency", message.Currency,
		"amount", message.Amount,
	)
	return nil
}
