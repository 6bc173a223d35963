package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can register with. "admin" exists in the enum but is never
// self-assignable through the public API.
const (
	RoleStudent = "student"
	RoleAlumni  = "alumni"
	RoleAdmin   = "admin"
)

type SocialLinks struct {
	LinkedIn string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	GitHub   string `bson:"github,omitempty" json:"github,omitempty"`
	Twitter  string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Website  string `bson:"website,omitempty" json:"website,omitempty"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email" validate:"required,email"`
	Password     string             `bson:"password,omitempty" json:"-"`
	Role         string             `bson:"role" json:"role"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`
	ProfilePhoto string             `bson:"profile_photo,omitempty" json:"profilePhoto,omitempty"`

	// Student-scope fields, unused for alumni accounts.
	Program      string   `bson:"program,omitempty" json:"program,omitempty"`
	Year         string   `bson:"year,omitempty" json:"year,omitempty"`
	Section      string   `bson:"section,omitempty" json:"section,omitempty"`
	GPA          string   `bson:"gpa,omitempty" json:"gpa,omitempty"`
	Address      string   `bson:"address,omitempty" json:"address,omitempty"`
	Interests    []string `bson:"interests,omitempty" json:"interests,omitempty"`
	Achievements []string `bson:"achievements,omitempty" json:"achievements,omitempty"`

	SocialLinks     SocialLinks `bson:"social_links,omitempty" json:"socialLinks,omitempty"`
	ProfileComplete bool        `bson:"profile_complete" json:"profileComplete"`
	CreatedAt       time.Time   `bson:"created_at" json:"createdAt"`
}
