package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/fjod/rocketshoes-cart/internal/domain"
	"github.com/fjod/rocketshoes-cart/internal/persistence"
	"github.com/stretchr/testify/require"
)

// mockStock implements StockQuerier for testing
type mockStock struct {
	mu      sync.Mutex
	amounts map[int64]int
	err     error
	calls   int
}

func newMockStock(amounts map[int64]int) *mockStock {
	return &mockStock{amounts: amounts}
}

func (m *mockStock) GetStock(_ context.Context, productID int64) (domain.Stock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return domain.Stock{}, m.err
	}
	amount, ok := m.amounts[productID]
	if !ok {
		return domain.Stock{}, fmt.Errorf("stock for product %d not found", productID)
	}
	return domain.Stock{ProductID: productID, Amount: amount}, nil
}

func (m *mockStock) set(productID int64, amount int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.amounts[productID] = amount
}

func (m *mockStock) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockProducts implements ProductQuerier for testing
type mockProducts struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (m *mockProducts) GetProduct(_ context.Context, productID int64) (domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return domain.Product{}, m.err
	}
	return testProduct(productID), nil
}

func (m *mockProducts) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func testProduct(id int64) domain.Product {
	return domain.Product{
		ID:       id,
		Title:    fmt.Sprintf("Tênis %d", id),
		Price:    float64(id) * 100.5,
		ImageURL: fmt.Sprintf("https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis%d.jpg", id),
	}
}

func testEntry(id int64, amount int) domain.CartEntry {
	e := domain.NewEntry(testProduct(id))
	e.Amount = amount
	return e
}

// failingStorage reads from an inner storage but rejects every write
type failingStorage struct {
	persistence.Storage
}

func (f failingStorage) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

// brokenStorage fails every read
type brokenStorage struct {
	*persistence.MemoryStorage
}

func (b *brokenStorage) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("io error")
}

// gatedStorage parks every Set until the test releases it
type gatedStorage struct {
	*persistence.MemoryStorage
	entered chan struct{}
	release chan struct{}
}

func newGatedStorage() *gatedStorage {
	return &gatedStorage{
		MemoryStorage: persistence.NewMemoryStorage(),
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
}

func (g *gatedStorage) Set(ctx context.Context, key string, value []byte) error {
	g.entered <- struct{}{}
	<-g.release
	return g.MemoryStorage.Set(ctx, key, value)
}

func seedCart(t *testing.T, s Storage, cart domain.Cart) {
	t.Helper()
	data, err := json.Marshal(cart)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), DefaultStorageKey, data))
}

func persistedCart(t *testing.T, s Storage) domain.Cart {
	t.Helper()
	data, err := s.Get(context.Background(), DefaultStorageKey)
	if errors.Is(err, persistence.ErrNotFound) {
		return nil
	}
	require.NoError(t, err)
	var cart domain.Cart
	require.NoError(t, json.Unmarshal(data, &cart))
	return cart
}

func persistedBlob(t *testing.T, s Storage) []byte {
	t.Helper()
	data, err := s.Get(context.Background(), DefaultStorageKey)
	if errors.Is(err, persistence.ErrNotFound) {
		return nil
	}
	require.NoError(t, err)
	return data
}
