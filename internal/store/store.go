package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/fjod/rocketshoes-cart/internal/domain"
	"github.com/fjod/rocketshoes-cart/internal/persistence"
	"github.com/sirupsen/logrus"
)

// DefaultStorageKey is the key the storefront has always used for the cart blob.
const DefaultStorageKey = "@RocketShoes:cart"

const (
	opAdd    = "add"
	opRemove = "remove"
	opUpdate = "update"
	opClear  = "clear"
)

// StockQuerier returns the quantity currently available for a product.
type StockQuerier interface {
	GetStock(ctx context.Context, productID int64) (domain.Stock, error)
}

// ProductQuerier returns product metadata.
type ProductQuerier interface {
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
}

// Storage is the part of persistence.Storage the store needs.
// Get must return persistence.ErrNotFound for a missing key.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Notifier receives user-facing error messages.
type Notifier interface {
	NotifyError(message string)
}

type Option func(*CartStore)

func WithStorageKey(key string) Option {
	return func(s *CartStore) { s.key = key }
}

func WithMessages(m Messages) Option {
	return func(s *CartStore) { s.messages = m }
}

func WithLogger(log *logrus.Entry) Option {
	return func(s *CartStore) { s.log = log }
}

// WithSerializedMutations makes mutations run one at a time. Without it, overlapping
// calls may each start from the same cart and the last one to commit wins.
func WithSerializedMutations() Option {
	return func(s *CartStore) { s.serialize = true }
}

// CartStore holds the cart, validates mutations against stock and writes every
// committed cart to storage before swapping it in.
type CartStore struct {
	storage  Storage
	stock    StockQuerier
	products ProductQuerier
	notifier Notifier

	key       string
	messages  Messages
	log       *logrus.Entry
	serialize bool

	opMu sync.Mutex

	mu   sync.RWMutex
	cart domain.Cart
}

// NewCartStore loads the persisted cart once. A missing, unreadable or invalid blob
// yields an empty cart.
func NewCartStore(
	ctx context.Context,
	storage Storage,
	stock StockQuerier,
	products ProductQuerier,
	notifier Notifier,
	opts ...Option,
) *CartStore {
	s := &CartStore{
		storage:  storage,
		stock:    stock,
		products: products,
		notifier: notifier,
		key:      DefaultStorageKey,
		messages: EnglishMessages,
		log:      logrus.NewEntry(logrus.StandardLogger()).WithField("component", "cart-store"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.cart = s.load(ctx)
	return s
}

func (s *CartStore) load(ctx context.Context) domain.Cart {
	data, err := s.storage.Get(ctx, s.key)
	if errors.Is(err, persistence.ErrNotFound) {
		return domain.Cart{}
	}
	if err != nil {
		s.log.WithError(err).Warn("failed to read stored cart, starting empty")
		return domain.Cart{}
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		s.log.WithError(err).Warn("stored cart is not valid JSON, starting empty")
		return domain.Cart{}
	}
	if err := cart.Validate(); err != nil {
		s.log.WithError(err).Warn("stored cart is inconsistent, starting empty")
		return domain.Cart{}
	}

	s.log.WithField("items", len(cart)).Info("loaded stored cart")
	return cart.Clone()
}

// GetCart returns a snapshot of the current cart.
func (s *CartStore) GetCart() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

// AddProduct adds one unit of productID, creating the entry from catalog metadata
// when the product is not in the cart yet.
func (s *CartStore) AddProduct(ctx context.Context, productID int64) error {
	defer s.begin()()

	stock, err := s.stock.GetStock(ctx, productID)
	if err != nil {
		return s.fail(opAdd, productID, s.messages.AddFailed, ErrOperationFailed, fmt.Errorf("get stock: %w", err))
	}
	if stock.Amount < 1 {
		return s.fail(opAdd, productID, s.messages.OutOfStock, ErrOutOfStock, nil)
	}

	next := s.snapshot()
	if i := next.IndexOf(productID); i == -1 {
		product, err := s.products.GetProduct(ctx, productID)
		if err != nil {
			return s.fail(opAdd, productID, s.messages.AddFailed, ErrOperationFailed, fmt.Errorf("get product: %w", err))
		}
		entry := domain.NewEntry(product)
		// keyed by the requested id whatever the catalog echoes back
		entry.ProductID = productID
		next = append(next, entry)
	} else {
		if next[i].Amount >= stock.Amount {
			return s.fail(opAdd, productID, s.messages.OutOfStock, ErrOutOfStock, nil)
		}
		next[i].Amount++
	}

	if err := s.commit(ctx, opAdd, productID, next); err != nil {
		return s.fail(opAdd, productID, s.messages.AddFailed, ErrOperationFailed, err)
	}
	return nil
}

// RemoveProduct drops the entry for productID.
func (s *CartStore) RemoveProduct(ctx context.Context, productID int64) error {
	defer s.begin()()

	current := s.snapshot()
	next := make(domain.Cart, 0, len(current))
	for _, e := range current {
		if e.ProductID != productID {
			next = append(next, e)
		}
	}
	if len(next) == len(current) {
		return s.fail(opRemove, productID, s.messages.RemoveFailed, ErrProductNotInCart, nil)
	}

	if err := s.commit(ctx, opRemove, productID, next); err != nil {
		return s.fail(opRemove, productID, s.messages.RemoveFailed, ErrOperationFailed, err)
	}
	return nil
}

// UpdateProductAmount sets the amount of an existing entry. Amounts below 1 are
// ignored without notification; an id that is not in the cart changes nothing.
func (s *CartStore) UpdateProductAmount(ctx context.Context, productID int64, amount int) error {
	if amount < 1 {
		return nil
	}
	defer s.begin()()

	stock, err := s.stock.GetStock(ctx, productID)
	if err != nil {
		return s.fail(opUpdate, productID, s.messages.UpdateFailed, ErrOperationFailed, fmt.Errorf("get stock: %w", err))
	}
	if stock.Amount < amount {
		return s.fail(opUpdate, productID, s.messages.OutOfStock, ErrOutOfStock, nil)
	}

	next := s.snapshot()
	for i := range next {
		if next[i].ProductID == productID {
			next[i].Amount = amount
		}
	}

	if err := s.commit(ctx, opUpdate, productID, next); err != nil {
		return s.fail(opUpdate, productID, s.messages.UpdateFailed, ErrOperationFailed, err)
	}
	return nil
}

// ClearCart empties the cart.
func (s *CartStore) ClearCart(ctx context.Context) error {
	defer s.begin()()

	if err := s.commit(ctx, opClear, 0, domain.Cart{}); err != nil {
		return s.fail(opClear, 0, s.messages.ClearFailed, ErrOperationFailed, err)
	}
	return nil
}

func (s *CartStore) begin() func() {
	if !s.serialize {
		return func() {}
	}
	s.opMu.Lock()
	return s.opMu.Unlock
}

func (s *CartStore) snapshot() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

// commit persists next and only then makes it the current cart.
func (s *CartStore) commit(ctx context.Context, op string, productID int64, next domain.Cart) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.storage.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}

	s.mu.Lock()
	s.cart = next
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"op":         op,
		"product_id": productID,
		"items":      len(next),
	}).Debug("cart committed")
	return nil
}

func (s *CartStore) fail(op string, productID int64, message string, kind, cause error) error {
	s.notifier.NotifyError(message)

	entry := s.log.WithFields(logrus.Fields{
		"op":         op,
		"product_id": productID,
		"reason":     kind.Error(),
	})
	if cause != nil {
		entry = entry.WithError(cause)
	}
	entry.Info("cart operation aborted")

	return &OperationError{
		Op:        op,
		ProductID: productID,
		Message:   message,
		Kind:      kind,
		Err:       cause,
	}
}
