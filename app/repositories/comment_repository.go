package repositories

import (
	"context"

	"quill/app/models"

	"gorm.io/gorm"
)

// GormCommentRepository implements CommentRepository using gorm
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return translate(r.db.WithContext(ctx).Omit("Author", "Post").Create(comment).Error)
}

// ListByPost retrieves the comments of a post ordered by ID
func (r *GormCommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("id").Find(&comments).Error
	if err != nil {
		return nil, translate(err)
	}
	return comments, nil
}
