package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/ecobite/backend/internal/models"
	"github.com/ecobite/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Test User", Email: email, Password: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, ownerID uint, quantity, status string, expiresAt *time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:      ownerID,
		Title:       "Surplus apples",
		Description: "Fresh from the market",
		Category:    "Fruit",
		Quantity:    quantity,
		Location:    "Downtown",
		Status:      status,
		ExpiresAt:   expiresAt,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func reloadClaim(t *testing.T, db *gorm.DB, id uint) *models.Claim {
	t.Helper()
	var claim models.Claim
	require.NoError(t, db.First(&claim, id).Error)
	return &claim
}

func reloadPost(t *testing.T, db *gorm.DB, id uint) *models.Post {
	t.Helper()
	var post models.Post
	require.NoError(t, db.First(&post, id).Error)
	return &post
}

func TestCreateClaim(t *testing.T) {
	db := testutil.OpenDB(t)
	engine := NewEngine(db)
	owner := seedUser(t, db, "owner@example.com")
	claimer := seedUser(t, db, "claimer@example.com")
	post := seedPost(t, db, owner.ID, "5 kg", models.PostStatusActive, nil)

	claim, err := engine.CreateClaim(post.ID, claimer.ID, "2 kg", "I want some")
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusPending, claim.Status)
	assert.Nil(t, claim.DecidedAt)
	assert.Equal(t, post.ID, claim.PostID)
	assert.Equal(t, claimer.ID, claim.ClaimerID)

	// No side effect on the post.
	assert.Equal(t, "5 kg", reloadPost(t, db, post.ID).Quantity)
	assert.Equal(t, models.PostStatusActive, reloadPost(t, db, post.ID).Status)
}

func TestCreateClaimOwnPost(t *testing.T) {
	db := testutil.OpenDB(t)
	engine := NewEngine(db)
	owner := seedUser(t, db, "owner@example.com")
	post := seedPost(t, db, owner.ID, "5 kg", models.PostStatusActive, nil)

	_, err := engine.CreateClaim(post.ID, owner.ID, "1", "")
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestCreateClaimPostNotFound(t *testing.T) {
	db := testutil.OpenDB(t)
	engine := NewEngine(db)
	claimer := seedUser(t, db, "claimer@example.com")

	_, err := engine.CreateClaim(12345, claimer.ID, "1", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateClaimPostNotActive(t *testing.T) {
	db := testutil.OpenDB(t)
	engine := NewEngine(db)
	owner := seedUser(t, db, "owner@example.com")
	claimer := seedUser(t, db, "claimer@example.com")
	post := seedPost(t, db, owner.ID, "5 kg", models.PostStatusClaimed, nil)

	_, err := engine.CreateClaim(post.ID, claimer.ID, "1", "")
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestCreateClaimExpiredPost(t *testing.T) {
	db := testutil.OpenDB(t)
	engine := NewEngine(db)
	owner := seedUser(t, db, "owner@example.com")
	claimer := seedUser(t, db, "claimer@example.com")
	past := time.Now().Add(-time.Hour)
	post := seedPost(t, db, owner.ID, "5 kg", models.PostStatusActive, &past)

	_, err := engine.CreateClaim(post.ID, claimer.ID, "1", "")
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestDecideClaimForbidden(t *testing.T) {
	db := testutil.OpenDB(t)
	engine := NewEngine(db)
	owner := seedUser(t, db, "owner@example.com")
	claimer := seedUser(t, db, "claimer@example.com")
	stranger := seedUser(t, db, "stranger@example.com")
	post := seedPost(t, db, owner.ID, "5 kg", models.PostStatusActive, nil)

	claim, err := engine.CreateClaim(post.ID, claimer.ID, "1 kg", "")
	require.NoError(t, err)

	_, err = engine.DecideClaim(claim.ID, stranger.ID, models.DecisionApprove)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = engine.DecideClaim(claim.ID, claimer.ID, models.DecisionApprove)
	assert.ErrorIs(t, err, ErrForbidden)

	assert.Equal(t, models.ClaimStatusPending, reloadClaim(t, db, claim.ID).Status)
}

func TestDecideClaimNotFound(t *testing.T) {
	db := testutil.OpenDB(t)
	engine := NewEngine(db)
	owner := seedUser(t, db, "owner@example.com")

	_, err := engine.DecideClaim(999, owner.ID, models.DecisionApprove)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecideClaimInvalidDecision(t *testing.T) {
	db := testutil.OpenDB(t)
	engine := NewEngine(db)

	_, err := engine.DecideClaim(1, 1, "maybe")
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestDecideClaimReject(t *testing.T) {
	db := testutil.OpenDB(t)
	engine := NewEngine(db)
	owner := seedUser(t, db, "owner@example.com")
	claimer := seedUser(t, db, "claimer@example.com")
	post := seedPost(t, db, owner.ID, "5 kg", models.PostStatusActive, nil)

	claim, err := engine.CreateClaim(post.ID, claimer.ID, "2 kg", "")
	require.NoError(t, err)

	decided, err := engine.DecideClaim(claim.ID, owner.ID, models.DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusRejected, decided.Status)
	assert.NotNil(t, decided.DecidedAt)

	// Reject never touches the post.
	got := reloadPost(t, db, post.ID)
	assert.Equal(t, "5 kg", got.Quantity)
	assert.Equal(t, models.PostStatusActive, got.Status)
}

func TestDecideClaimTerminalStatesImmutable(t *testing.T) {
	db := testutil.OpenDB(t)
	engine := NewEngine(db)
	owner := seedUser(t, db, "owner@example.com")
	claimer := seedUser(t, db, "claimer@example.com")
	post := seedPost(t, db, owner.ID, "10", models.PostStatusActive, nil)

	claim, err := engine.CreateClaim(post.ID, claimer.ID, "4", "")
	require.NoError(t, err)

	_, err = engine.DecideClaim(claim.ID, owner.ID, models.DecisionReject)
	require.NoError(t, err)

	// A second decision must not change the stored status.
	_, err = engine.DecideClaim(claim.ID, owner.ID, models.DecisionApprove)
	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Equal(t, models.ClaimStatusRejected, reloadClaim(t, db, claim.ID).Status)
}

func TestDecideClaimApprovePartialQuantity(t *testing.T) {
	db := testutil.OpenDB(t)
	engine := NewEngine(db)
	owner := seedUser(t, db, "owner@example.com")
	claimer := seedUser(t, db, "claimer@example.com")
	post := seedPost(t, db, owner.ID, "10", models.PostStatusActive, nil)

	claim, err := engine.CreateClaim(post.ID, claimer.ID, "4", "")
	require.NoError(t, err)

	decided, err := engine.DecideClaim(claim.ID, owner.ID, models.DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusApproved, decided.Status)

	got := reloadPost(t, db, post.ID)
	assert.Equal(t, "6", got.Quantity)
	assert.Equal(t, models.PostStatusActive, got.Status)
}

func TestDecideClaimApproveFullQuantity(t *testing.T) {
	db := testutil.OpenDB(t)
	engine := NewEngine(db)
	owner := seedUser(t, db, "owner@example.com")
	claimer := seedUser(t, db, "claimer@example.com")
	post := seedPost(t, db, owner.ID, "4", models.PostStatusActive, nil)

	claim, err := engine.CreateClaim(post.ID, claimer.ID, "4", "")
	require.NoError(t, err)

	_, err = engine.DecideClaim(claim.ID, owner.ID, models.DecisionApprove)
	require.NoError(t, err)

	got := reloadPost(t, db, post.ID)
	assert.Equal(t, "0", got.Quantity)
	assert.Equal(t, models.PostStatusClaimed, got.Status)
}

func TestDecideClaimApproveUnparseableQuantity(t *testing.T) {
	db := testutil.OpenDB(t)
	engine := NewEngine(db)
	owner := seedUser(t, db, "owner@example.com")
	claimer := seedUser(t, db, "claimer@example.com")
	post := seedPost(t, db, owner.ID, "a few bags", models.PostStatusActive, nil)

	claim, err := engine.CreateClaim(post.ID, claimer.ID, "2 kg", "")
	require.NoError(t, err)

	decided, err := engine.DecideClaim(claim.ID, owner.ID, models.DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusApproved, decided.Status)

	// Quantity adjustment is skipped and the post stays untouched.
	got := reloadPost(t, db, post.ID)
	assert.Equal(t, "a few bags", got.Quantity)
	assert.Equal(t, models.PostStatusActive, got.Status)
}

// Scenario: Post quantity "5 kg", claim "2 kg" -> approval leaves "3" and the
// post active. A second post claimed in full flips to claimed with "0".
func TestApprovalScenarios(t *testing.T) {
	db := testutil.OpenDB(t)
	engine := NewEngine(db)
	owner := seedUser(t, db, "owner@example.com")
	claimer := seedUser(t, db, "claimer@example.com")

	partial := seedPost(t, db, owner.ID, "5 kg", models.PostStatusActive, nil)
	claim, err := engine.CreateClaim(partial.ID, claimer.ID, "2 kg", "")
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusPending, claim.Status)

	_, err = engine.DecideClaim(claim.ID, owner.ID, models.DecisionApprove)
	require.NoError(t, err)
	got := reloadPost(t, db, partial.ID)
	assert.Equal(t, "3", got.Quantity)
	assert.Equal(t, models.PostStatusActive, got.Status)

	full := seedPost(t, db, owner.ID, "5 kg", models.PostStatusActive, nil)
	claim2, err := engine.CreateClaim(full.ID, claimer.ID, "5 kg", "")
	require.NoError(t, err)

	_, err = engine.DecideClaim(claim2.ID, owner.ID, models.DecisionApprove)
	require.NoError(t, err)
	got = reloadPost(t, db, full.ID)
	assert.Equal(t, "0", got.Quantity)
	assert.Equal(t, models.PostStatusClaimed, got.Status)
}

func TestDecideClaimAtomicity(t *testing.T) {
	db := testutil.OpenDB(t)
	engine := NewEngine(db)
	owner := seedUser(t, db, "owner@example.com")
	claimer := seedUser(t, db, "claimer@example.com")
	post := seedPost(t, db, owner.ID, "10", models.PostStatusActive, nil)

	claim, err := engine.CreateClaim(post.ID, claimer.ID, "4", "")
	require.NoError(t, err)

	// Force the post-quantity write (the second mutation in the
	// transaction) to fail after the claim-status write succeeded.
	require.NoError(t, db.Callback().Update().Before("gorm:update").
		Register("test_fail_posts", func(tx *gorm.DB) {
			if tx.Statement != nil && tx.Statement.Table == "posts" {
				tx.AddError(errors.New("injected write failure"))
			}
		}))
	defer db.Callback().Update().Remove("test_fail_posts")

	_, err = engine.DecideClaim(claim.ID, owner.ID, models.DecisionApprove)
	require.Error(t, err)

	// Neither mutation may be observable after rollback.
	assert.Equal(t, models.ClaimStatusPending, reloadClaim(t, db, claim.ID).Status)
	got := reloadPost(t, db, post.ID)
	assert.Equal(t, "10", got.Quantity)
	assert.Equal(t, models.PostStatusActive, got.Status)
}

func TestCancelClaim(t *testing.T) {
	db := testutil.OpenDB(t)
	engine := NewEngine(db)
	owner := seedUser(t, db, "owner@example.com")
	claimer := seedUser(t, db, "claimer@example.com")
	post := seedPost(t, db, owner.ID, "5 kg", models.PostStatusActive, nil)

	claim, err := engine.CreateClaim(post.ID, claimer.ID, "1 kg", "")
	require.NoError(t, err)

	// Only the claimer may cancel.
	err = engine.CancelClaim(claim.ID, owner.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, engine.CancelClaim(claim.ID, claimer.ID))
	got := reloadClaim(t, db, claim.ID)
	assert.Equal(t, models.ClaimStatusCancelled, got.Status)
	assert.Nil(t, got.DecidedAt)
}

func TestCancelClaimNotFound(t *testing.T) {
	db := testutil.OpenDB(t)
	engine := NewEngine(db)

	err := engine.CancelClaim(999, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Cancelling an already-decided claim is permitted by current product
// behavior; the decision timestamp survives.
func TestCancelClaimAfterDecision(t *testing.T) {
	db := testutil.OpenDB(t)
	engine := NewEngine(db)
	owner := seedUser(t, db, "owner@example.com")
	claimer := seedUser(t, db, "claimer@example.com")
	post := seedPost(t, db, owner.ID, "5 kg", models.PostStatusActive, nil)

	claim, err := engine.CreateClaim(post.ID, claimer.ID, "1 kg", "")
	require.NoError(t, err)
	_, err = engine.DecideClaim(claim.ID, owner.ID, models.DecisionReject)
	require.NoError(t, err)

	require.NoError(t, engine.CancelClaim(claim.ID, claimer.ID))
	got := reloadClaim(t, db, claim.ID)
	assert.Equal(t, models.ClaimStatusCancelled, got.Status)
	assert.NotNil(t, got.DecidedAt)
}

func TestUpdatePostStatus(t *testing.T) {
	db := testutil.OpenDB(t)
	engine := NewEngine(db)
	owner := seedUser(t, db, "owner@example.com")
	stranger := seedUser(t, db, "stranger@example.com")
	post := seedPost(t, db, owner.ID, "5 kg", models.PostStatusActive, nil)

	// Not found / forbidden.
	err := engine.UpdatePostStatus(999, owner.ID, models.PostStatusClaimed)
	assert.ErrorIs(t, err, ErrNotFound)
	err = engine.UpdatePostStatus(post.ID, stranger.ID, models.PostStatusClaimed)
	assert.ErrorIs(t, err, ErrForbidden)

	// Unknown status strings are rejected.
	err = engine.UpdatePostStatus(post.ID, owner.ID, "banana")
	assert.ErrorIs(t, err, ErrInvalidOperation)

	// Same-status update is a no-op success.
	require.NoError(t, engine.UpdatePostStatus(post.ID, owner.ID, models.PostStatusActive))

	// Forward transitions succeed.
	require.NoError(t, engine.UpdatePostStatus(post.ID, owner.ID, models.PostStatusClaimed))
	assert.Equal(t, models.PostStatusClaimed, reloadPost(t, db, post.ID).Status)
	require.NoError(t, engine.UpdatePostStatus(post.ID, owner.ID, models.PostStatusCompleted))

	// Backward transitions are rejected.
	err = engine.UpdatePostStatus(post.ID, owner.ID, models.PostStatusActive)
	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Equal(t, models.PostStatusCompleted, reloadPost(t, db, post.ID).Status)
}

// Approval requires the post to still be active: once a post is fully
// claimed, remaining pending claims can only be rejected.
func TestDecideClaimApproveInactivePost(t *testing.T) {
	db := testutil.OpenDB(t)
	engine := NewEngine(db)
	owner := seedUser(t, db, "owner@example.com")
	first := seedUser(t, db, "first@example.com")
	second := seedUser(t, db, "second@example.com")
	post := seedPost(t, db, owner.ID, "4", models.PostStatusActive, nil)

	c1, err := engine.CreateClaim(post.ID, first.ID, "4", "")
	require.NoError(t, err)
	c2, err := engine.CreateClaim(post.ID, second.ID, "2", "")
	require.NoError(t, err)

	_, err = engine.DecideClaim(c1.ID, owner.ID, models.DecisionApprove)
	require.NoError(t, err)
	require.Equal(t, models.PostStatusClaimed, reloadPost(t, db, post.ID).Status)

	_, err = engine.DecideClaim(c2.ID, owner.ID, models.DecisionApprove)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	// Rejecting the leftover claim still works.
	decided, err := engine.DecideClaim(c2.ID, owner.ID, models.DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusRejected, decided.Status)
}
