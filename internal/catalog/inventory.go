package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/fjod/rocketshoes-cart/internal/domain"
)

// Inventory is an in-memory product and stock book. It answers the same queries as
// Client and backs the development catalog server.
type Inventory struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	stocks   map[int64]int
}

func NewInventory() *Inventory {
	return &Inventory{
		products: make(map[int64]domain.Product),
		stocks:   make(map[int64]int),
	}
}

// SetProduct adds or replaces a product together with its stock level
func (i *Inventory) SetProduct(p domain.Product, stock int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.products[p.ID] = p
	i.stocks[p.ID] = stock
}

// SetStock changes the stock level of a known product
func (i *Inventory) SetStock(productID int64, amount int) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.products[productID]; !ok {
		return fmt.Errorf("%w: product %d", ErrNotFound, productID)
	}
	if amount < 0 {
		return fmt.Errorf("stock for product %d cannot be negative", productID)
	}
	i.stocks[productID] = amount
	return nil
}

func (i *Inventory) GetStock(_ context.Context, productID int64) (domain.Stock, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	amount, ok := i.stocks[productID]
	if !ok {
		return domain.Stock{}, fmt.Errorf("%w: stock %d", ErrNotFound, productID)
	}
	return domain.Stock{ProductID: productID, Amount: amount}, nil
}

func (i *Inventory) GetProduct(_ context.Context, productID int64) (domain.Product, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	p, ok := i.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: product %d", ErrNotFound, productID)
	}
	return p, nil
}

// Products returns every product ordered by id
func (i *Inventory) Products() []domain.Product {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]domain.Product, 0, len(i.products))
	for _, p := range i.products {
		out = append(out, p)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}
