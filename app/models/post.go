package models

import (
	"errors"
	"time"
)

// DateLayout is the "Month Day, Year" format posts are stamped with.
const DateLayout = "January 02, 2006"

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	return validate.Struct(p)
}

// Stamp sets the display date from now when it is missing.
func (p *Post) Stamp(now time.Time) {
	if p.Date == "" {
		p.Date = now.Format(DateLayout)
	}
}

// SetAuthor assigns the post to user and updates AuthorID.
func (p *Post) SetAuthor(user *User) error {
	if user == nil {
		return errors.New("author cannot be nil")
	}
	p.Author = user
	p.AuthorID = user.ID
	return nil
}

// Apply copies the editable fields of form onto the post.
func (p *Post) Apply(form *PostForm) {
	p.Title = form.Title
	p.Subtitle = form.Subtitle
	p.ImgURL = form.ImgURL
	p.Body = form.Body
}
