package email

import (
	"context"

	"github.com/rs/zerolog/log"
)

// LogSender only logs outgoing mail; used in development
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg *Message) error {
	log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("html_bytes", len(msg.HTMLContent)).
		Msg("email sent (dev mode)")
	return nil
}
