package entity

import "time"

// Chat is the conversation attached to a single order. Membership is
// fixed at creation time: exactly the order's buyer and seller.
type Chat struct {
	ID            string    `json:"id" firestore:"id"`
	OrderID       string    `json:"order_id" firestore:"orderId"`
	BuyerID       string    `json:"buyer_id" firestore:"buyerId"`
	SellerID      string    `json:"seller_id" firestore:"sellerId"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" firestore:"updatedAt"`
	LastMessage   string    `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt time.Time `json:"last_message_at" firestore:"lastMessageAt"`
	// Map of userID to unread count
	UnreadCount map[string]int `json:"unread_count" firestore:"unreadCount"`
}

// HasParticipant reports whether userID is the chat's buyer or seller.
func (c *Chat) HasParticipant(userID string) bool {
	return userID == c.BuyerID || userID == c.SellerID
}

// OtherParticipant returns the counterparty of userID, or "" if userID
// is not a participant.
func (c *Chat) OtherParticipant(userID string) string {
	switch userID {
	case c.BuyerID:
		return c.SellerID
	case c.SellerID:
		return c.BuyerID
	}
	return ""
}
