package repositories

import (
	"log/slog"
	"time"

	"github.com/ecobite/backend/internal/models"
	"gorm.io/gorm"
)

// StatsRepository computes read-only dashboard rollups over posts and
// claims. Both methods degrade to zero-valued results on any read failure so
// that dashboards stay renderable; the failure is logged, never propagated.
type StatsRepository interface {
	GlobalStats() models.GlobalStats
	UserStats(userID uint) models.UserStats
}

// PostgresStatsRepository implements StatsRepository for PostgreSQL
type PostgresStatsRepository struct {
	db *gorm.DB
}

// NewPostgresStatsRepository creates a new PostgresStatsRepository
func NewPostgresStatsRepository(db *gorm.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{db: db}
}

// sharedStatuses are the post statuses counted as successfully shared.
var sharedStatuses = []string{models.PostStatusClaimed, models.PostStatusCompleted}

// GlobalStats computes the site-wide counters
func (r *PostgresStatsRepository) GlobalStats() models.GlobalStats {
	var stats models.GlobalStats

	err := r.db.Model(&models.Post{}).
		Where("status = ?", models.PostStatusActive).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Count(&stats.AvailableNow).Error
	if err != nil {
		slog.Warn("stats: global rollup failed", "error", err)
		return models.GlobalStats{}
	}

	if err := r.db.Model(&models.Post{}).
		Where("status IN ?", sharedStatuses).
		Count(&stats.SuccessfullyShared).Error; err != nil {
		slog.Warn("stats: global rollup failed", "error", err)
		return models.GlobalStats{}
	}

	if err := r.db.Model(&models.Post{}).Count(&stats.TotalPosts).Error; err != nil {
		slog.Warn("stats: global rollup failed", "error", err)
		return models.GlobalStats{}
	}

	var weight *float64
	if err := r.db.Model(&models.Post{}).
		Where("status IN ?", sharedStatuses).
		Select("SUM(estimated_weight_kg)").
		Scan(&weight).Error; err != nil {
		slog.Warn("stats: global rollup failed", "error", err)
		return models.GlobalStats{}
	}
	if weight != nil {
		stats.FoodWastePreventedKg = *weight
	}

	return stats
}

// UserStats computes the counters for one user's dashboard
func (r *PostgresStatsRepository) UserStats(userID uint) models.UserStats {
	var stats models.UserStats

	if err := r.db.Model(&models.Post{}).
		Where("user_id = ?", userID).
		Count(&stats.PostsCreated).Error; err != nil {
		slog.Warn("stats: user rollup failed", "user_id", userID, "error", err)
		return models.UserStats{}
	}

	if err := r.db.Model(&models.Post{}).
		Where("user_id = ? AND status IN ?", userID, sharedStatuses).
		Count(&stats.PostsShared).Error; err != nil {
		slog.Warn("stats: user rollup failed", "user_id", userID, "error", err)
		return models.UserStats{}
	}

	var weight *float64
	if err := r.db.Model(&models.Post{}).
		Where("user_id = ? AND status IN ?", userID, sharedStatuses).
		Select("SUM(estimated_weight_kg)").
		Scan(&weight).Error; err != nil {
		slog.Warn("stats: user rollup failed", "user_id", userID, "error", err)
		return models.UserStats{}
	}
	if weight != nil {
		stats.WeightSharedKg = *weight
	}

	if err := r.db.Model(&models.Claim{}).
		Where("claimer_id = ?", userID).
		Count(&stats.ClaimsMade).Error; err != nil {
		slog.Warn("stats: user rollup failed", "user_id", userID, "error", err)
		return models.UserStats{}
	}

	if err := r.db.Model(&models.Claim{}).
		Where("claimer_id = ? AND status = ?", userID, models.ClaimStatusApproved).
		Count(&stats.ClaimsAccepted).Error; err != nil {
		slog.Warn("stats: user rollup failed", "user_id", userID, "error", err)
		return models.UserStats{}
	}

	if err := r.db.Model(&models.Claim{}).
		Where("claimer_id = ? AND status = ?", userID, models.ClaimStatusRejected).
		Count(&stats.ClaimsRejected).Error; err != nil {
		slog.Warn("stats: user rollup failed", "user_id", userID, "error", err)
		return models.UserStats{}
	}

	var user models.User
	if err := r.db.First(&user, userID).Error; err == nil {
		joined := user.CreatedAt
		stats.JoinDate = &joined
	}

	return stats
}
