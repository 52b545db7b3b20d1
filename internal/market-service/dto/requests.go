package dto

type CreateMarketRequest struct {
	Title                string  `json:"title"`
	Content              string  `json:"content"`
	Deadline             string  `json:"deadline"` // RFC3339 ou "2006-01-02"; normalizado p/ fim do dia
	InitialStake         float64 `json:"initialStake,omitempty"`
	CreatorWalletAddress string  `json:"creatorWalletAddress,omitempty"`
}

type ResolveMarketRequest struct {
	Outcome string `json:"outcome"` // "yes" | "no"
}

type ConnectUserRequest struct {
	WalletAddress string `json:"walletAddress"`
}

type CreateCommentRequest struct {
	MarketID string `json:"marketId"`
	Author   string `json:"author"`
	Content  string `json:"content"`
}

type VoteCommentRequest struct {
	CommentID    string `json:"commentId"`
	VoterAddress string `json:"voterAddress"`
	Vote         string `json:"vote"` // "up" | "down"
}
