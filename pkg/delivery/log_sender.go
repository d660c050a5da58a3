package delivery

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/authcore/pkg/logger"
)

// LogSender records that a delivery happened without delivering anything.
// The code itself is never logged.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a sender that only logs deliveries.
func NewLogSender(l *slog.Logger) *LogSender {
	if l == nil {
		l = logger.Noop()
	}
	return &LogSender{logger: l}
}

// SendCode logs the delivery metadata.
func (s *LogSender) SendCode(ctx context.Context, msg CodeMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "one-time code delivery",
		logger.Channel(string(msg.Channel)),
		logger.Purpose(msg.Purpose),
		slog.String("to", msg.To),
		logger.Component("delivery"),
	)
	return nil
}
