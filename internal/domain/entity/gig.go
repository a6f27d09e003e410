package entity

import "time"

// Gig is a service listing offered by a seller.
type Gig struct {
	ID          string    `json:"id" firestore:"id"`
	SellerID    string    `json:"seller_id" firestore:"sellerId"`
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description" firestore:"description"`
	Category    string    `json:"category" firestore:"category"`
	PriceSOL    float64   `json:"price_sol" firestore:"priceSol"`
	ImageURLs   []string  `json:"image_urls,omitempty" firestore:"imageUrls,omitempty"`
	Status      string    `json:"status" firestore:"status"` // "active", "paused", "archived"
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}
