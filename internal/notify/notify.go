// Package notify sends local desktop notifications.
package notify

import (
	"github.com/gen2brain/beeep"
	log "github.com/sirupsen/logrus"
)

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(title, body string)
}

// Desktop notifies through the notification daemon of the host. Failures
// are only logged: a CI runner has no desktop.
type Desktop struct {
	notify func(title, body string) error
}

func NewDesktop() *Desktop {
	return &Desktop{notify: func(title, body string) error {
		return beeep.Notify(title, body, "")
	}}
}

func (d *Desktop) Notify(title, body string) {
	if err := d.notify(title, body); err != nil {
		log.WithError(err).Debug("desktop notification failed")
	}
}
