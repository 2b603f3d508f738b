package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateProduct = errors.New("duplicate product in cart")
	ErrInvalidAmount    = errors.New("cart entry amount must be at least 1")
)

// CartEntry is one distinct product in the cart together with the requested amount.
// JSON names match the blob written by the storefront so existing carts keep loading.
type CartEntry struct {
	ProductID   int64   `json:"id" bson:"product_id"`
	Title       string  `json:"title" bson:"title"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64 `json:"price" bson:"price"`
	ImageURL    string  `json:"image" bson:"image"`
	Amount      int     `json:"amount" bson:"amount"`
}

// Cart is ordered by insertion and unique by ProductID.
type Cart []CartEntry

// Clone returns a copy that shares no backing array with c.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// IndexOf returns the position of productID or -1.
func (c Cart) IndexOf(productID int64) int {
	for i := range c {
		if c[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) Validate() error {
	seen := make(map[int64]struct{}, len(c))
	for _, e := range c {
		if _, ok := seen[e.ProductID]; ok {
			return fmt.Errorf("%w: product %d", ErrDuplicateProduct, e.ProductID)
		}
		seen[e.ProductID] = struct{}{}
		if e.Amount < 1 {
			return fmt.Errorf("%w: product %d has %d", ErrInvalidAmount, e.ProductID, e.Amount)
		}
	}
	return nil
}

// NewEntry builds a cart entry for p with amount 1.
func NewEntry(p Product) CartEntry {
	return CartEntry{
		ProductID:   p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Amount:      1,
	}
}
