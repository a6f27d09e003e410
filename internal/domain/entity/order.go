package entity

import "time"

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusActive    = "active"
	OrderStatusDelivered = "delivered"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order is a buyer's purchase of a gig. Every order owns exactly one
// chat, created together with the order.
type Order struct {
	ID        string    `json:"id" firestore:"id"`
	GigID     string    `json:"gig_id" firestore:"gigId"`
	BuyerID   string    `json:"buyer_id" firestore:"buyerId"`
	SellerID  string    `json:"seller_id" firestore:"sellerId"`
	ChatID    string    `json:"chat_id,omitempty" firestore:"chatId,omitempty"`
	PriceSOL  float64   `json:"price_sol" firestore:"priceSol"`
	Status    string    `json:"status" firestore:"status"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
