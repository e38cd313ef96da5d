// Package notify shows a desktop notification when a long run finishes.
package notify

import (
	"github.com/gen2brain/beeep"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/watchstats/internal/duration"
	"github.com/sells-group/watchstats/internal/locale"
)

// AppName is shown as the notification sender.
const AppName = "watchstats"

// SendFunc delivers one notification.
type SendFunc func(title, message string) error

// Notifier sends notifications when enabled. A disabled Notifier is a no-op.
type Notifier struct {
	enabled bool
	send    SendFunc
}

// New creates a Notifier backed by the desktop notification service.
func New(enabled bool) *Notifier {
	beeep.AppName = AppName
	return &Notifier{enabled: enabled, send: func(title, message string) error {
		return beeep.Notify(title, message, "")
	}}
}

// NewWithSender creates a Notifier that delivers through send.
func NewWithSender(enabled bool, send SendFunc) *Notifier {
	return &Notifier{enabled: enabled, send: send}
}

// EnrichmentDone reports the number of durations found and their average.
// Delivery failures are logged and returned; callers may ignore them.
func (n *Notifier) EnrichmentDone(cat *locale.Catalog, enriched int, average float64) error {
	if n == nil || !n.enabled {
		return nil
	}
	title := cat.Label("enrich_done_title")
	body := cat.Sprintf(cat.Label("enrich_done_body"), enriched, duration.Clock(int(average)))
	if err := n.send(title, body); err != nil {
		zap.L().Warn("notify: delivery failed", zap.Error(err))
		return eris.Wrap(err, "notify: send")
	}
	return nil
}
