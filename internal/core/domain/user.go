package domain

import "time"

// Role is the permission level of an authenticated actor.
type Role string

const (
	RoleCitizen  Role = "citizen"
	RoleOfficial Role = "official"
	RoleAdmin    Role = "admin"
)

// IsValidRole reports whether r is one of the three defined roles.
func IsValidRole(r Role) bool {
	return r == RoleCitizen || r == RoleOfficial || r == RoleAdmin
}

// IdentityDocument is an identity record attached to a user profile.
type IdentityDocument struct {
	Type       string `json:"type" bson:"type"`
	Number     string `json:"number" bson:"number"`
	IssueDate  string `json:"issue_date" bson:"issue_date"`
	ExpiryDate string `json:"expiry_date" bson:"expiry_date"`
	FileURL    string `json:"file_url,omitempty" bson:"file_url,omitempty"`
}

// Filiation holds civil-status details declared by the user.
type Filiation struct {
	FatherName  string `json:"father_name" bson:"father_name"`
	MotherName  string `json:"mother_name" bson:"mother_name"`
	BirthPlace  string `json:"birth_place" bson:"birth_place"`
	BirthDate   string `json:"birth_date" bson:"birth_date"`
	Nationality string `json:"nationality" bson:"nationality"`
}

// User models an account on the platform. Users are never hard-deleted;
// admins deactivate them via IsActive instead.
type User struct {
	ID               string            `json:"id" bson:"_id"`
	Email            string            `json:"email" bson:"email"`
	PasswordHash     string            `json:"-" bson:"password_hash"`
	FirstName        string            `json:"first_name" bson:"first_name"`
	LastName         string            `json:"last_name" bson:"last_name"`
	Phone            string            `json:"phone" bson:"phone"`
	Address          string            `json:"address,omitempty" bson:"address,omitempty"`
	City             string            `json:"city,omitempty" bson:"city,omitempty"`
	Region           string            `json:"region,omitempty" bson:"region,omitempty"`
	Role             Role              `json:"role" bson:"role"`
	IsVerified       bool              `json:"is_verified" bson:"is_verified"`
	IsActive         bool              `json:"is_active" bson:"is_active"`
	IdentityDocument *IdentityDocument `json:"identity_document,omitempty" bson:"identity_document,omitempty"`
	Filiation        *Filiation        `json:"filiation,omitempty" bson:"filiation,omitempty"`
	ProfilePicture   string            `json:"profile_picture,omitempty" bson:"profile_picture,omitempty"`
	CreatedAt        time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at" bson:"updated_at"`
}

// FullName returns the display name snapshotted into comments and history.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
