package models

import (
	"encoding/json"
	"time"
)

// Post statuses. A post only moves forward: active -> claimed -> completed,
// or active -> expired.
const (
	PostStatusActive    = "active"
	PostStatusClaimed   = "claimed"
	PostStatusExpired   = "expired"
	PostStatusCompleted = "completed"
)

// Post represents a listing of surplus food offered by a user.
type Post struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	UserID            uint       `json:"user_id" gorm:"index;constraint:OnDelete:CASCADE"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Category          string     `json:"category" gorm:"size:50"`
	Quantity          string     `json:"quantity"` // Free-text, e.g. "5 kg" or "3 boxes"
	EstimatedWeightKg float64    `json:"estimated_weight_kg"`
	DietaryJSON       string     `json:"dietary_json"` // JSON-encoded list of dietary tags
	Location          string     `json:"location"`
	PickupWindowStart *time.Time `json:"pickup_window_start,omitempty"`
	PickupWindowEnd   *time.Time `json:"pickup_window_end,omitempty"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	Status            string     `json:"status" gorm:"size:20;default:active;index"`
	ImageURL          string     `json:"image_url,omitempty"`
	CreatedAt         time.Time  `json:"created_at" gorm:"index"`

	Owner *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// SetDietaryTags stores tags as the JSON-encoded dietary column.
func (p *Post) SetDietaryTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	p.DietaryJSON = string(b)
}

// DietaryTags decodes the dietary column back into a tag list.
func (p *Post) DietaryTags() []string {
	var tags []string
	if err := json.Unmarshal([]byte(p.DietaryJSON), &tags); err != nil {
		return nil
	}
	return tags
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title             string   `json:"title" form:"title" validate:"required,min=1,max=255"`
	Description       string   `json:"description" form:"description" validate:"required,min=1"`
	Category          string   `json:"category" form:"category" validate:"omitempty,max=50"`
	Quantity          string   `json:"quantity" form:"quantity" validate:"required,max=255"`
	EstimatedWeightKg float64  `json:"estimated_weight_kg" form:"estimated_weight_kg" validate:"omitempty,gte=0"`
	DietaryTags       []string `json:"dietary_tags" form:"diet"`
	Location          string   `json:"location" form:"location" validate:"required,max=255"`
	PickupWindowStart string   `json:"pickup_window_start" form:"pickup_window_start" validate:"omitempty"`
	PickupWindowEnd   string   `json:"pickup_window_end" form:"pickup_window_end" validate:"omitempty"`
	ExpiresAt         string   `json:"expires_at" form:"expires_at" validate:"omitempty"`
}

// UpdatePostStatusRequest defines the request body for a status change
type UpdatePostStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PostWithOwner is a post joined with the owning user's contact email
type PostWithOwner struct {
	Post
	OwnerEmail string `json:"owner_email"`
}

// ClaimsSummary holds per-post claim counts for the owner's dashboard
type ClaimsSummary struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// OwnedPost is a post enriched with its claims summary for the "my posts" view
type OwnedPost struct {
	Post
	ClaimsSummary ClaimsSummary `json:"claims_summary"`
}
