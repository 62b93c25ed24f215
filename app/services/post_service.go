package services

import (
	"context"
	"fmt"
	"time"

	"quill/app/dataloader"
	"quill/app/models"
	"quill/app/repositories"
)

// PostService handles business logic for blog posts
type PostService struct {
	postRepo repositories.PostRepository
	userRepo repositories.UserRepository
	now      func() time.Time
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// SetClock replaces the time source used to date new posts.
func (s *PostService) SetClock(now func() time.Time) {
	s.now = now
}

// ListPosts retrieves every post with its author attached
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int, len(posts))
	for i, p := range posts {
		ids[i] = p.AuthorID
	}
	authors, err := loadersFor(ctx, s.userRepo).LoadUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get authors: %v", err)
	}
	for _, p := range posts {
		p.Author = authors[p.AuthorID]
	}
	return posts, nil
}

// GetPost retrieves a post by ID with its author attached
func (s *PostService) GetPost(ctx context.Context, id int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	authors, err := loadersFor(ctx, s.userRepo).LoadUsers(ctx, []int{post.AuthorID})
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %v", err)
	}
	post.Author = authors[post.AuthorID]
	return post, nil
}

// CreatePost validates the form and stores a post written by author, dated today.
func (s *PostService) CreatePost(ctx context.Context, author *models.User, form *models.PostForm) (*models.Post, error) {
	if errs := models.ValidateForm(form); errs != nil {
		return nil, errs
	}

	post := &models.Post{}
	post.Apply(form)
	post.Stamp(s.now())
	if err := post.SetAuthor(author); err != nil {
		return nil, err
	}
	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("invalid post: %w", err)
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost overwrites an existing post from the form. The editor becomes the
// post's author.
func (s *PostService) UpdatePost(ctx context.Context, id int, editor *models.User, form *models.PostForm) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if errs := models.ValidateForm(form); errs != nil {
		return nil, errs
	}

	post.Apply(form)
	if err := post.SetAuthor(editor); err != nil {
		return nil, err
	}
	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("invalid post: %w", err)
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost deletes a post and its comments
func (s *PostService) DeletePost(ctx context.Context, id int) error {
	if _, err := s.postRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, id)
}

// loadersFor returns the request's loaders, or a private set when the caller
// did not install any.
func loadersFor(ctx context.Context, users repositories.UserRepository) *dataloader.Loaders {
	if l := dataloader.For(ctx); l != nil {
		return l
	}
	return dataloader.NewLoaders(users)
}
