// Package email dispatches verification and password-reset mail. Delivery
// is fanned out over a fixed set of workers sharded by recipient, so mail
// to the same address is delivered in order. The delivery backend logs the
// message and its link; real SMTP sits behind the Deliverer interface.
package email

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

type kind string

const (
	kindVerification kind = "verification"
	kindReset        kind = "password_reset"
)

type message struct {
	kind        kind
	to          string
	displayName string
	token       string
}

// Deliverer performs the actual mail delivery.
type Deliverer interface {
	Deliver(ctx context.Context, to, subject, body string) error
}

// Dispatcher implements ports.MailSender by enqueueing messages onto
// per-recipient-sharded worker channels.
type Dispatcher struct {
	workers   []chan message
	deliverer Deliverer
	baseURL   string
	log       zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, deliverer Deliverer, baseURL string, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan message, numWorkers),
		deliverer: deliverer,
		baseURL:   baseURL,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan message, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// SendVerification enqueues a verification mail carrying the confirm link.
func (d *Dispatcher) SendVerification(_ context.Context, to, displayName, token string) error {
	d.enqueue(message{kind: kindVerification, to: to, displayName: displayName, token: token})
	return nil
}

// SendPasswordReset enqueues a reset notification.
func (d *Dispatcher) SendPasswordReset(_ context.Context, to string) error {
	d.enqueue(message{kind: kindReset, to: to})
	return nil
}

func (d *Dispatcher) enqueue(msg message) {
	d.workers[d.shardIndex(msg.to)] <- msg
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			subject, body := d.render(msg)
			if err := d.deliverer.Deliver(ctx, msg.to, subject, body); err != nil {
				d.log.Error().Err(err).
					Str("to", msg.to).
					Str("kind", string(msg.kind)).
					Int("worker_id", id).
					Msg("mail delivery failed")
			}
		}
	}
}

func (d *Dispatcher) render(msg message) (subject, body string) {
	switch msg.kind {
	case kindVerification:
		link := fmt.Sprintf("%s/verify-email?token=%s&email=%s", d.baseURL, msg.token, msg.to)
		return "Confirm your email",
			fmt.Sprintf("Hello %s, follow the link to confirm your address: %s", msg.displayName, link)
	default:
		return "Password reset",
			"If you requested a password reset, follow the instructions in your account."
	}
}

// LogDeliverer writes mail to the log instead of sending it.
type LogDeliverer struct {
	Log zerolog.Logger
}

func (l LogDeliverer) Deliver(_ context.Context, to, subject, body string) error {
	l.Log.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("mail delivered (log backend)")
	return nil
}
