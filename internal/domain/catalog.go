package domain

// Product is the metadata the catalog returns for one product
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image"`
}

// Stock is the available quantity for one product at the time it was fetched
type Stock struct {
	ProductID int64 `json:"id"`
	Amount    int   `json:"amount"`
}
