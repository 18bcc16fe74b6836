package models

import "time"

// GlobalStats are the site-wide dashboard counters
type GlobalStats struct {
	AvailableNow         int64   `json:"available_now"`
	SuccessfullyShared   int64   `json:"successfully_shared"`
	TotalPosts           int64   `json:"total_posts"`
	FoodWastePreventedKg float64 `json:"food_waste_prevented_kg"`
}

// UserStats are the per-user dashboard counters
type UserStats struct {
	PostsCreated   int64      `json:"posts_created"`
	PostsShared    int64      `json:"posts_shared"`
	WeightSharedKg float64    `json:"weight_shared_kg"`
	ClaimsMade     int64      `json:"claims_made"`
	ClaimsAccepted int64      `json:"claims_accepted"`
	ClaimsRejected int64      `json:"claims_rejected"`
	JoinDate       *time.Time `json:"join_date,omitempty"`
}
