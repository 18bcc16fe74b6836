package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/ecobite/backend/internal/models"
	"github.com/ecobite/backend/internal/repositories"
	"gorm.io/gorm"
)

// Engine enforces the claim state machine and keeps post quantity/status
// consistent with claim decisions. Every operation runs as one database
// transaction: validate, mutate one or two rows, commit. On any error the
// whole operation rolls back and stored state is unchanged.
type Engine struct {
	db *gorm.DB
}

// NewEngine creates a new Engine over the shared store handle.
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// postStatusTransitions is the closed transition table for posts. A post only
// moves forward; a missing entry means the transition is rejected.
var postStatusTransitions = map[string][]string{
	models.PostStatusActive:    {models.PostStatusClaimed, models.PostStatusExpired, models.PostStatusCompleted},
	models.PostStatusClaimed:   {models.PostStatusCompleted},
	models.PostStatusExpired:   {},
	models.PostStatusCompleted: {},
}

// CreateClaim validates the post and inserts a pending claim. The post itself
// is not mutated.
func (e *Engine) CreateClaim(postID, claimerID uint, requestedQuantity, message string) (*models.Claim, error) {
	var claim *models.Claim

	err := e.db.Transaction(func(tx *gorm.DB) error {
		postRepo := repositories.NewPostgresPostRepository(tx)

		post, err := postRepo.GetPostByID(postID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("post %d: %w", postID, ErrNotFound)
			}
			return err
		}

		if post.UserID == claimerID {
			return fmt.Errorf("cannot claim own post: %w", ErrInvalidOperation)
		}
		if post.Status != models.PostStatusActive {
			return fmt.Errorf("post not available: %w", ErrInvalidOperation)
		}
		if post.ExpiresAt != nil && !post.ExpiresAt.After(time.Now()) {
			return fmt.Errorf("post expired: %w", ErrInvalidOperation)
		}

		claim = &models.Claim{
			PostID:            postID,
			ClaimerID:         claimerID,
			Message:           message,
			RequestedQuantity: requestedQuantity,
			Status:            models.ClaimStatusPending,
		}
		return repositories.NewPostgresClaimRepository(tx).CreateClaim(claim)
	})
	if err != nil {
		return nil, err
	}
	return claim, nil
}

// DecideClaim applies the owner's approve/reject decision to a pending claim.
// On approval the post quantity is decremented by the requested amount when
// both quantities carry a parseable magnitude; when the remainder reaches
// zero the post is marked claimed. Unparseable quantities skip the
// adjustment and leave the post untouched.
func (e *Engine) DecideClaim(claimID, deciderID uint, decision string) (*models.Claim, error) {
	if decision != models.DecisionApprove && decision != models.DecisionReject {
		return nil, fmt.Errorf("decision must be %q or %q: %w",
			models.DecisionApprove, models.DecisionReject, ErrInvalidOperation)
	}

	var claim *models.Claim

	err := e.db.Transaction(func(tx *gorm.DB) error {
		claimRepo := repositories.NewPostgresClaimRepository(tx)
		postRepo := repositories.NewPostgresPostRepository(tx)

		var err error
		claim, err = claimRepo.GetClaimByID(claimID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("claim %d: %w", claimID, ErrNotFound)
			}
			return err
		}

		post, err := postRepo.GetPostByID(claim.PostID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("post %d: %w", claim.PostID, ErrNotFound)
			}
			return err
		}

		if post.UserID != deciderID {
			return fmt.Errorf("only the post owner may decide a claim: %w", ErrForbidden)
		}
		// Terminal states are immutable: a second decision must not change
		// the stored status.
		if claim.Status != models.ClaimStatusPending {
			return fmt.Errorf("claim already %s: %w", claim.Status, ErrInvalidOperation)
		}

		newStatus := models.ClaimStatusRejected
		if decision == models.DecisionApprove {
			newStatus = models.ClaimStatusApproved
			if post.Status != models.PostStatusActive {
				return fmt.Errorf("post not available: %w", ErrInvalidOperation)
			}
		}

		now := time.Now()
		if err := claimRepo.UpdateClaimStatus(claimID, newStatus, &now); err != nil {
			return err
		}
		claim.Status = newStatus
		claim.DecidedAt = &now

		if newStatus != models.ClaimStatusApproved {
			return nil
		}

		postQty, okPost := ParseQuantity(post.Quantity)
		reqQty, okReq := ParseQuantity(claim.RequestedQuantity)
		if !okPost || !okReq {
			// Best-effort policy: unparseable quantities skip the adjustment.
			return nil
		}

		remaining := postQty - reqQty
		if remaining <= 0 {
			return postRepo.UpdateQuantityAndStatus(post.ID, "0", models.PostStatusClaimed)
		}
		return postRepo.UpdateQuantityAndStatus(post.ID, FormatQuantity(remaining), post.Status)
	})
	if err != nil {
		return nil, err
	}
	return claim, nil
}

// CancelClaim marks a claim cancelled on behalf of its claimer. The cancel is
// unconditional: an already-decided claim can still be cancelled (kept from
// current product behavior). The post is never mutated.
func (e *Engine) CancelClaim(claimID, requesterID uint) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		claimRepo := repositories.NewPostgresClaimRepository(tx)

		claim, err := claimRepo.GetClaimByID(claimID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("claim %d: %w", claimID, ErrNotFound)
			}
			return err
		}
		if claim.ClaimerID != requesterID {
			return fmt.Errorf("only the claimer may cancel a claim: %w", ErrForbidden)
		}
		return claimRepo.UpdateClaimStatus(claimID, models.ClaimStatusCancelled, nil)
	})
}

// UpdatePostStatus applies an owner-initiated status change, restricted to
// the forward transition table. Setting the current status again is a no-op
// success.
func (e *Engine) UpdatePostStatus(postID, requesterID uint, newStatus string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		postRepo := repositories.NewPostgresPostRepository(tx)

		post, err := postRepo.GetPostByID(postID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("post %d: %w", postID, ErrNotFound)
			}
			return err
		}
		if post.UserID != requesterID {
			return fmt.Errorf("only the post owner may change its status: %w", ErrForbidden)
		}

		if newStatus == post.Status {
			return nil
		}
		allowed, known := postStatusTransitions[post.Status]
		if !known {
			return fmt.Errorf("post has unknown status %q: %w", post.Status, ErrInvalidOperation)
		}
		if _, target := postStatusTransitions[newStatus]; !target {
			return fmt.Errorf("unknown status %q: %w", newStatus, ErrInvalidOperation)
		}
		legal := false
		for _, s := range allowed {
			if s == newStatus {
				legal = true
				break
			}
		}
		if !legal {
			return fmt.Errorf("cannot move post from %s to %s: %w", post.Status, newStatus, ErrInvalidOperation)
		}

		return postRepo.UpdatePostStatus(postID, newStatus)
	})
}
