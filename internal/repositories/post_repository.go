package repositories

import (
	"time"

	"github.com/ecobite/backend/internal/models"
	"gorm.io/gorm"
)

// Filter values accepted by ListPosts. Empty fields are ignored.
const (
	FilterStatusAvailable = "available"
	FilterStatusClaimed   = "claimed"
	FilterStatusExpired   = "expired"

	SortNewest     = "newest"
	SortEndingSoon = "endingSoon"
)

// PostFilter narrows and orders the public post listing
type PostFilter struct {
	Status   string // available | claimed | expired
	Search   string // substring over title + description
	Category string
	Dietary  string // substring match over the dietary tag column
	Sort     string // newest (default) | endingSoon
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetPostWithOwner(id uint) (*models.PostWithOwner, error)
	ListPosts(filter PostFilter) ([]models.PostWithOwner, error)
	ListPostsByOwner(ownerID uint) ([]models.OwnedPost, error)
	UpdatePostStatus(id uint, status string) error
	UpdateQuantityAndStatus(id uint, quantity, status string) error
	DeletePost(id uint) error
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a new post in PostgreSQL
func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetPostByID retrieves a post by ID from PostgreSQL
func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPostWithOwner retrieves a post joined with the owner's contact email
func (r *PostgresPostRepository) GetPostWithOwner(id uint) (*models.PostWithOwner, error) {
	var post models.PostWithOwner
	err := r.db.Model(&models.Post{}).
		Select("posts.*, users.email AS owner_email").
		Joins("JOIN users ON users.id = posts.user_id").
		Where("posts.id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts retrieves the filtered public listing, joined with each owner's
// contact email. Results always carry an explicit sort key.
func (r *PostgresPostRepository) ListPosts(filter PostFilter) ([]models.PostWithOwner, error) {
	q := r.db.Model(&models.Post{}).
		Select("posts.*, users.email AS owner_email").
		Joins("JOIN users ON users.id = posts.user_id")

	switch filter.Status {
	case FilterStatusAvailable:
		q = q.Where("posts.status = ?", models.PostStatusActive).
			Where("posts.expires_at IS NULL OR posts.expires_at > ?", time.Now())
	case FilterStatusClaimed:
		q = q.Where("posts.status = ?", models.PostStatusClaimed)
	case FilterStatusExpired:
		q = q.Where("posts.status = ? OR posts.expires_at <= ?", models.PostStatusExpired, time.Now())
	}

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("posts.title LIKE ? OR posts.description LIKE ?", like, like)
	}
	if filter.Category != "" {
		q = q.Where("posts.category = ?", filter.Category)
	}
	if filter.Dietary != "" {
		q = q.Where("posts.dietary_json LIKE ?", "%"+filter.Dietary+"%")
	}

	if filter.Sort == SortEndingSoon {
		q = q.Order("posts.expires_at ASC")
	} else {
		q = q.Order("posts.created_at DESC")
	}

	var posts []models.PostWithOwner
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListPostsByOwner retrieves a user's own posts, newest first, each enriched
// with its pending/approved/rejected claim counts.
func (r *PostgresPostRepository) ListPostsByOwner(ownerID uint) ([]models.OwnedPost, error) {
	var posts []models.Post
	err := r.db.Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	owned := make([]models.OwnedPost, 0, len(posts))
	for _, p := range posts {
		var summary models.ClaimsSummary
		err := r.db.Model(&models.Claim{}).
			Select(
				"COUNT(CASE WHEN status = ? THEN 1 END) AS pending, "+
					"COUNT(CASE WHEN status = ? THEN 1 END) AS approved, "+
					"COUNT(CASE WHEN status = ? THEN 1 END) AS rejected",
				models.ClaimStatusPending, models.ClaimStatusApproved, models.ClaimStatusRejected).
			Where("post_id = ?", p.ID).
			Scan(&summary).Error
		if err != nil {
			return nil, err
		}
		owned = append(owned, models.OwnedPost{Post: p, ClaimsSummary: summary})
	}
	return owned, nil
}

// UpdatePostStatus sets a post's status
func (r *PostgresPostRepository) UpdatePostStatus(id uint, status string) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).Update("status", status).Error
}

// UpdateQuantityAndStatus sets a post's quantity and status in one write,
// used by the lifecycle engine inside its transaction
func (r *PostgresPostRepository) UpdateQuantityAndStatus(id uint, quantity, status string) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).
		Updates(map[string]interface{}{"quantity": quantity, "status": status}).Error
}

// DeletePost deletes a post by ID from PostgreSQL
func (r *PostgresPostRepository) DeletePost(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}
