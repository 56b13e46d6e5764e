package models

// Roles known to the backend
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Building is the site a staff member (or admin) is attached to
type Building struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// User is the record returned by the backend on login/signup/profile update.
// It is owned by the session and always replaced as a whole.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	Role         string    `json:"role"` // admin or staff
	ProfileImage string    `json:"profileImage,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	Building     *Building `json:"building,omitempty"`
}

// IsStaff reports whether the user is a staff member
func (u *User) IsStaff() bool {
	return u != nil && u.Role == RoleStaff
}

// SignupRequest represents the request body for signup
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UpdateProfileRequest is sent to the admin profile endpoint.
// Password and ProfileImage are only sent when set.
type UpdateProfileRequest struct {
	Username     string `json:"username"`
	OldPassword  string `json:"oldPassword,omitempty"`
	Password     string `json:"password,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// UpdateProfileResponse carries the replacement user record
type UpdateProfileResponse struct {
	Admin *User `json:"admin"`
}
