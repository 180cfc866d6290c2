package mail

import "github.com/sirupsen/logrus"

// Dispatcher sends mail off the request path. Sends are fire-and-forget:
// a delivery failure is logged and never rolls back the state change that
// triggered it.
type Dispatcher struct {
	mailer Mailer
	queue  chan Message
}

func NewDispatcher(mailer Mailer) *Dispatcher {
	d := &Dispatcher{
		mailer: mailer,
		queue:  make(chan Message, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for msg := range d.queue {
		if err := d.mailer.Send(msg); err != nil {
			logrus.WithFields(logrus.Fields{
				"kind":      msg.Kind,
				"recipient": msg.Recipient,
			}).Errorf("mail send failed: %v", err)
		}
	}
}

func (d *Dispatcher) Dispatch(msg Message) {
	select {
	case d.queue <- msg:
	default:
		// queue full, drop rather than stall the API
		logrus.WithField("kind", msg.Kind).Warn("mail queue full, dropping message")
	}
}
