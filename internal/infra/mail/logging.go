package mail

import (
	"context"

	"go.uber.org/zap"

	"github.com/fahim-cse12/AutoDiagon/internal/core/port"
	"github.com/fahim-cse12/AutoDiagon/internal/infra/logger"
)

// LoggingSender writes messages to the log instead of delivering them. Used
// in environments without a configured SMTP relay.
type LoggingSender struct {
	log *zap.Logger
}

func NewLoggingSender(log *zap.Logger) *LoggingSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingSender{log: log}
}

func (s *LoggingSender) Send(_ context.Context, msg port.Message) error {
	recipients := make([]string, 0, len(msg.To))
	for _, to := range msg.To {
		recipients = append(recipients, logger.MaskEmail(to))
	}
	s.log.Info("mail delivery skipped, no smtp relay configured",
		zap.Strings("to", recipients),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}

var _ port.MailSender = (*LoggingSender)(nil)
