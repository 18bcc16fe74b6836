package repositories

import (
	"time"

	"github.com/ecobite/backend/internal/models"
	"gorm.io/gorm"
)

// ClaimRepository defines the interface for claim data operations
type ClaimRepository interface {
	CreateClaim(claim *models.Claim) error
	GetClaimByID(id uint) (*models.Claim, error)
	ListClaimsByClaimer(claimerID uint) ([]models.ClaimWithPost, error)
	ListClaimsForOwner(ownerID uint) ([]models.ClaimWithClaimer, error)
	ListClaimsByPost(postID uint) ([]models.ClaimWithClaimer, error)
	UpdateClaimStatus(id uint, status string, decidedAt *time.Time) error
}

// PostgresClaimRepository implements ClaimRepository for PostgreSQL
type PostgresClaimRepository struct {
	db *gorm.DB
}

// NewPostgresClaimRepository creates a new PostgresClaimRepository
func NewPostgresClaimRepository(db *gorm.DB) *PostgresClaimRepository {
	return &PostgresClaimRepository{db: db}
}

// CreateClaim creates a new claim in PostgreSQL
func (r *PostgresClaimRepository) CreateClaim(claim *models.Claim) error {
	return r.db.Create(claim).Error
}

// GetClaimByID retrieves a claim by ID from PostgreSQL
func (r *PostgresClaimRepository) GetClaimByID(id uint) (*models.Claim, error) {
	var claim models.Claim
	if err := r.db.First(&claim, id).Error; err != nil {
		return nil, err
	}
	return &claim, nil
}

// ListClaimsByClaimer retrieves the claims a user has made, newest first,
// joined with post details and the post owner's contact email.
func (r *PostgresClaimRepository) ListClaimsByClaimer(claimerID uint) ([]models.ClaimWithPost, error) {
	var claims []models.ClaimWithPost
	err := r.db.Model(&models.Claim{}).
		Select("claims.*, posts.title AS post_title, posts.location AS post_location, "+
			"posts.expires_at AS post_expires, users.email AS owner_email").
		Joins("JOIN posts ON posts.id = claims.post_id").
		Joins("JOIN users ON users.id = posts.user_id").
		Where("claims.claimer_id = ?", claimerID).
		Order("claims.created_at DESC").
		Find(&claims).Error
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ListClaimsForOwner retrieves the claims on all of a user's posts, newest
// first, joined with the post title and each claimer's contact email.
func (r *PostgresClaimRepository) ListClaimsForOwner(ownerID uint) ([]models.ClaimWithClaimer, error) {
	var claims []models.ClaimWithClaimer
	err := r.db.Model(&models.Claim{}).
		Select("claims.*, posts.title AS post_title, users.email AS claimer_email").
		Joins("JOIN posts ON posts.id = claims.post_id").
		Joins("JOIN users ON users.id = claims.claimer_id").
		Where("posts.user_id = ?", ownerID).
		Order("claims.created_at DESC").
		Find(&claims).Error
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ListClaimsByPost retrieves all claims on one post with claimer emails,
// shown to the post owner on the detail view.
func (r *PostgresClaimRepository) ListClaimsByPost(postID uint) ([]models.ClaimWithClaimer, error) {
	var claims []models.ClaimWithClaimer
	err := r.db.Model(&models.Claim{}).
		Select("claims.*, users.email AS claimer_email").
		Joins("JOIN users ON users.id = claims.claimer_id").
		Where("claims.post_id = ?", postID).
		Order("claims.created_at DESC").
		Find(&claims).Error
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// UpdateClaimStatus sets a claim's status, and its decision timestamp when
// one is supplied (approve/reject set it, cancel does not).
func (r *PostgresClaimRepository) UpdateClaimStatus(id uint, status string, decidedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if decidedAt != nil {
		updates["decided_at"] = decidedAt
	}
	return r.db.Model(&models.Claim{}).Where("id = ?", id).Updates(updates).Error
}
