package models

import "time"

// Product is a catalog item. Category holds the owning category's id; the
// colors list is ordered and may be empty.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         Money     `json:"price"`
	Image         string    `json:"image"`
	Category      string    `json:"category"`
	Material      string    `json:"material"`
	Colors        []string  `json:"colors"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"review_count"`
	IsNew         bool      `json:"is_new"`
	IsBestSeller  bool      `json:"is_best_seller"`
	StockQuantity int       `json:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
