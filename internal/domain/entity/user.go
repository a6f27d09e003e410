package entity

import "time"

type User struct {
	ID            string    `json:"id" firestore:"id"`
	Email         string    `json:"email" firestore:"email"`
	Username      string    `json:"username" firestore:"username"`
	Bio           string    `json:"bio,omitempty" firestore:"bio,omitempty"`
	AvatarURL     string    `json:"avatar_url,omitempty" firestore:"avatarUrl,omitempty"`
	WalletAddress string    `json:"wallet_address,omitempty" firestore:"walletAddress,omitempty"` // Solana address, stored as an opaque string
	Rating        float64   `json:"rating" firestore:"rating"`
	ReviewCount   int       `json:"review_count" firestore:"reviewCount"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" firestore:"updatedAt"`
}
