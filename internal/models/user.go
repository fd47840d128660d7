package models

import (
	"time"
)

// User roles. Admins may delete ratings and read the event log.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Auth providers accepted at registration.
const (
	AuthProviderEmail  = "email"
	AuthProviderGoogle = "google"
	AuthProviderApple  = "apple"
)

// Genders accepted on profile updates.
var ValidGenders = []string{"male", "female", "custom", "N/A"}

// User represents an account in the directory.
//
// PasswordHash, EmailVerificationToken, AccountStatus and TrustScore are
// restricted fields: they never marshal into API responses. TrustScore is
// exposed only through PublicProfile.
type User struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	Handle                 string     `gorm:"uniqueIndex;not null" json:"handle"`
	DisplayName            string     `gorm:"not null" json:"displayName"`
	Email                  string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash           string     `gorm:"not null" json:"-"`
	AuthProvider           string     `gorm:"default:email" json:"authProvider"`
	Avatar                 string     `json:"avatar"`
	Description            string     `json:"description"`
	Gender                 string     `gorm:"default:N/A" json:"gender"`
	BirthDate              *time.Time `json:"birthDate"`
	Location               string     `json:"location"`
	IsHidden               bool       `gorm:"default:false" json:"isHidden"`
	TrustScore             float64    `gorm:"default:1" json:"-"`
	Role                   string     `gorm:"default:user;index" json:"role"`
	EmailVerificationToken string     `json:"-"`
	EmailVerified          bool       `gorm:"default:false" json:"emailVerified"`
	AccountStatus          bool       `gorm:"default:false" json:"-"`
	LastLogin              *time.Time `json:"lastLogin"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicProfile is the shape returned for profile lookups by handle.
// Unlike User it carries the trust score.
type PublicProfile struct {
	ID          uint      `json:"id"`
	Handle      string    `json:"handle"`
	DisplayName string    `json:"displayName"`
	Avatar      string    `json:"avatar"`
	Description string    `json:"description"`
	Gender      string    `json:"gender"`
	TrustScore  float64   `json:"trustScore"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Public projects the user into its public profile shape.
func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		ID:          u.ID,
		Handle:      u.Handle,
		DisplayName: u.DisplayName,
		Avatar:      u.Avatar,
		Description: u.Description,
		Gender:      u.Gender,
		TrustScore:  u.TrustScore,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
	}
}
