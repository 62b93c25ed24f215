package models

// PostManager is implemented by principals that may create, edit and delete posts.
type PostManager interface {
	CanManagePosts() bool
}

// CanManagePosts reports whether the user holds the administrator role.
func (u *User) CanManagePosts() bool {
	return u != nil && u.Role == RoleAdmin
}

// Validate checks if the user meets all validation requirements
func (u *User) Validate() error {
	return validate.Struct(u)
}
