package poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTopic = "checkout-outbox"
	groupID      = "cart-store-consumer"
)

var (
	ErrMalformedEvent = errors.New("malformed checkout event")
	ErrOtherOwner     = errors.New("checkout belongs to another cart")
)

// CartClearer empties the cart once its checkout has completed.
type CartClearer interface {
	ClearCart(ctx context.Context) error
}

// CheckoutCompletedEvent is the part of the checkout outbox payload the cart cares about.
type CheckoutCompletedEvent struct {
	CheckoutID string `json:"checkout_id"`
	UserID     string `json:"user_id"`
}

// Poller consumes checkout events and clears the cart of the configured owner.
type Poller struct {
	cart    CartClearer
	ownerID string
	reader  *kafka.Reader
	log     *logrus.Entry
}

func NewPoller(cart CartClearer, ownerID, topic string, log *logrus.Entry, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{
		cart:    cart,
		ownerID: ownerID,
		reader:  reader,
		log:     log,
	}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		p.pollOnce(ctx)
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		p.log.WithError(err).Error("error closing kafka reader")
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	m, err := p.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		p.log.WithError(err).Error("error reading message")
		return
	}

	entry := p.log.WithFields(logrus.Fields{
		"partition": m.Partition,
		"offset":    m.Offset,
	})
	switch err := p.handle(ctx, m.Value); {
	case err == nil:
		entry.Info("cart cleared after checkout")
	case errors.Is(err, ErrOtherOwner):
		entry.Debug("skipping checkout of another cart")
	default:
		entry.WithError(err).Warn("failed to process checkout event")
	}
}

func (p *Poller) handle(ctx context.Context, value []byte) error {
	var event CheckoutCompletedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if event.UserID == "" {
		return fmt.Errorf("%w: missing user_id", ErrMalformedEvent)
	}
	checkoutID, err := uuid.Parse(event.CheckoutID)
	if err != nil {
		return fmt.Errorf("%w: invalid checkout_id %q", ErrMalformedEvent, event.CheckoutID)
	}
	if event.UserID != p.ownerID {
		return ErrOtherOwner
	}

	if err := p.cart.ClearCart(ctx); err != nil {
		return fmt.Errorf("clear cart for checkout %s: %w", checkoutID, err)
	}
	return nil
}
