package services

import (
	"context"
	"fmt"

	"quill/app/models"
	"quill/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	userRepo    repositories.UserRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

// CreateComment stores a comment by author on the post with postID
func (s *CommentService) CreateComment(ctx context.Context, postID int, author *models.User, form *models.CommentForm) (*models.Comment, error) {
	if errs := models.ValidateForm(form); errs != nil {
		return nil, errs
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{Text: form.Comment}
	if err := comment.SetPost(post); err != nil {
		return nil, err
	}
	if err := comment.SetAuthor(author); err != nil {
		return nil, err
	}
	if err := comment.Validate(); err != nil {
		return nil, fmt.Errorf("invalid comment: %w", err)
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListPostComments retrieves the comments of one post, oldest first, with authors attached
func (s *CommentService) ListPostComments(ctx context.Context, postID int) ([]*models.Comment, error) {
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	ids := make([]int, len(comments))
	for i, c := range comments {
		ids[i] = c.AuthorID
	}
	authors, err := loadersFor(ctx, s.userRepo).LoadUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get comment authors: %v", err)
	}
	for _, c := range comments {
		c.Author = authors[c.AuthorID]
	}
	return comments, nil
}
