package models

import "time"

// Claim statuses. pending is the only non-terminal state; approve and reject
// are decisions recorded with a timestamp, cancel is claimer-initiated.
const (
	ClaimStatusPending   = "pending"
	ClaimStatusApproved  = "approved"
	ClaimStatusRejected  = "rejected"
	ClaimStatusCancelled = "cancelled"
)

// Claim decisions accepted by the decide endpoint.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// Claim represents a request by a user to receive (part of) a post's offering.
type Claim struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	PostID            uint       `json:"post_id" gorm:"index"`
	ClaimerID         uint       `json:"claimer_id" gorm:"index"`
	Message           string     `json:"message,omitempty"`
	RequestedQuantity string     `json:"requested_quantity"` // Same free-text convention as Post.Quantity
	Status            string     `json:"status" gorm:"size:20;default:pending;index"`
	DecidedAt         *time.Time `json:"decided_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at" gorm:"index"`

	Post    *Post `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Claimer *User `json:"-" gorm:"foreignKey:ClaimerID"`
}

// CreateClaimRequest defines the request body for claiming a post
type CreateClaimRequest struct {
	RequestedQuantity string `json:"requested_quantity" validate:"omitempty,max=255"`
	Message           string `json:"message" validate:"omitempty,max=1000"`
}

// DecideClaimRequest defines the request body for the owner's decision
type DecideClaimRequest struct {
	Decision string `json:"decision" validate:"required"`
}

// ClaimWithPost is a claim joined with its post and the post owner's email,
// shown to the claimer in the "my claims" view
type ClaimWithPost struct {
	Claim
	PostTitle    string     `json:"post_title"`
	PostLocation string     `json:"post_location"`
	PostExpires  *time.Time `json:"post_expires_at,omitempty"`
	OwnerEmail   string     `json:"owner_email"`
}

// ClaimWithClaimer is a claim joined with the claimer's contact email, shown
// to the post owner
type ClaimWithClaimer struct {
	Claim
	PostTitle    string `json:"post_title,omitempty"`
	ClaimerEmail string `json:"claimer_email"`
}
