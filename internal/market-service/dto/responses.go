package dto

import "time"

type MarketResponse struct {
	MarketID  string    `json:"marketId"`
	Creator   string    `json:"creator,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	YesStake  float64   `json:"yesStake"`
	NoStake   float64   `json:"noStake"`
	Deadline  time.Time `json:"deadline"`
	Resolved  bool      `json:"resolved"`
	Outcome   string    `json:"outcome,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserResponse struct {
	WalletAddress string    `json:"walletAddress"`
	CreatedAt     time.Time `json:"createdAt"`
	LastLogin     time.Time `json:"lastLogin"`
}

type CommentResponse struct {
	CommentID string    `json:"commentId"`
	MarketID  string    `json:"marketId"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Upvotes   int       `json:"upvotes"`
	Downvotes int       `json:"downvotes"`
	CreatedAt time.Time `json:"createdAt"`
}
