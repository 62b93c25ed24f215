package models

import "time"

// Role names the capability set of a user account.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleReader Role = "reader"
)

// User is a registered account. Posts and comments reference it by ID only.
type User struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email" validate:"required,email,max=100"`
	Password  string    `gorm:"size:100;not null" json:"-" validate:"required"`
	Name      string    `gorm:"size:1000;not null" json:"name" validate:"required,max=1000"`
	Role      Role      `gorm:"size:20;not null;default:reader" json:"role" validate:"oneof=admin reader"`
	CreatedAt time.Time `json:"created_at"`
}

// Post is a blog entry. Date is the display string captured at creation time.
type Post struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"size:250;uniqueIndex;not null" json:"title" validate:"required,max=250"`
	Subtitle string `gorm:"size:250;not null" json:"subtitle" validate:"required,max=250"`
	Date     string `gorm:"size:250;not null" json:"date" validate:"required"`
	Body     string `gorm:"type:text;not null" json:"body" validate:"required"`
	ImgURL   string `gorm:"column:img_url;size:250;not null" json:"img_url" validate:"required,url,max=250"`
	AuthorID int    `gorm:"index;not null" json:"author_id" validate:"required,gt=0"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty" validate:"-"`
}

// Comment is a reader's response to a post.
type Comment struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Text     string `gorm:"type:text;not null" json:"text" validate:"required"`
	AuthorID int    `gorm:"index;not null" json:"author_id" validate:"required,gt=0"`
	PostID   int    `gorm:"index;not null" json:"post_id" validate:"required,gt=0"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty" validate:"-"`
	Post     *Post  `gorm:"foreignKey:PostID" json:"-" validate:"-"`
}

func (Post) TableName() string { return "blog_posts" }
