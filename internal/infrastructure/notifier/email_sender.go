package notifier

import (
	"context"

	"github.com/zignal-platform/zignal-api/internal/domain/notifications"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
)

type logEmailSender struct {
	logger logger.Logger
}

// NewLogEmailSender creates an EmailSender that records the message in the log
// instead of handing it to a mail provider.
func NewLogEmailSender(logger logger.Logger) notifications.EmailSender {
	return &logEmailSender{logger: logger}
}

func (s *logEmailSender) Send(_ context.Context, to string, n *notifications.Notification) error {
	s.logger.Info("Security email to ", to, ": ", n.Title, " - ", n.Message)
	return nil
}
