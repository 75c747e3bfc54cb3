package model

// User is an account that can sign in and act on requests. Authentication is
// handled upstream; this module only stores identity and role membership.
type User struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Active      bool   `json:"active"`
	CreatedTime int64  `json:"created_time"`
	UpdatedTime int64  `json:"updated_time"`
}

// Role groups permissions under a name.
type Role struct {
	RoleID      string   `json:"role_id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	CreatedTime int64    `json:"created_time"`
	UpdatedTime int64    `json:"updated_time"`
}

// UserRequest is the API payload for creating or updating a user.
type UserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Active   *bool  `json:"active"`
}

// RoleRequest is the API payload for creating or updating a role.
type RoleRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// RoleAssignmentRequest assigns or revokes a role for a user.
type RoleAssignmentRequest struct {
	RoleID string `json:"role_id"`
}
