package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EducationEntry struct {
	Institution string `bson:"institution" json:"institution"`
	Degree      string `bson:"degree" json:"degree"`
	Year        string `bson:"year" json:"year"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

type WorkExperienceEntry struct {
	Company     string `bson:"company" json:"company"`
	Title       string `bson:"title" json:"title"`
	Years       string `bson:"years" json:"years"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// AlumniProfile is the role-specific extension of a User with role "alumni".
// At most one profile exists per user; "my profile" operations look it up by
// the owning user id, public directory views by its own id.
type AlumniProfile struct {
	ID             primitive.ObjectID    `bson:"_id,omitempty" json:"_id,omitempty"`
	User           primitive.ObjectID    `bson:"user" json:"user"`
	GraduationYear int                   `bson:"graduation_year,omitempty" json:"graduationYear,omitempty"`
	Degree         string                `bson:"degree,omitempty" json:"degree,omitempty"`
	CurrentRole    string                `bson:"current_role,omitempty" json:"currentRole,omitempty"`
	CurrentCompany string                `bson:"current_company,omitempty" json:"currentCompany,omitempty"`
	Location       string                `bson:"location,omitempty" json:"location,omitempty"`
	Phone          string                `bson:"phone,omitempty" json:"phone,omitempty"`
	Bio            string                `bson:"bio,omitempty" json:"bio,omitempty"`
	Skills         []string              `bson:"skills,omitempty" json:"skills,omitempty"`
	Education      []EducationEntry      `bson:"education,omitempty" json:"education,omitempty"`
	WorkExperience []WorkExperienceEntry `bson:"work_experience,omitempty" json:"workExperience,omitempty"`
	SocialLinks    SocialLinks           `bson:"social_links,omitempty" json:"socialLinks,omitempty"`

	// Denormalized copy of the owner's profile photo used by directory
	// listings; kept in lockstep with User.ProfilePhoto on photo upload.
	UserPhoto string `bson:"user_photo,omitempty" json:"userPhoto,omitempty"`

	ProfileComplete bool      `bson:"profile_complete" json:"profileComplete"`
	CreatedAt       time.Time `bson:"created_at" json:"-"`
	UpdatedAt       time.Time `bson:"updated_at" json:"-"`
}

// MergedProfile is the combined view returned by "my profile" operations:
// the alumni document plus the owning user's public fields, so the client
// can replace its cached session object in one shot.
type MergedProfile struct {
	AlumniProfile `bson:",inline"`

	OwnerID    primitive.ObjectID `json:"id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Role       string             `json:"role"`
	OwnerPhoto string             `json:"profilePhoto,omitempty"`
}

// DirectoryOwner is the slice of the owning User exposed on public
// directory views.
type DirectoryOwner struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	ProfilePhoto string             `bson:"profile_photo,omitempty" json:"profilePhoto,omitempty"`
}

// DirectoryEntry is the response shape of directory listings: the profile
// without audit timestamps, joined with the owner's public fields.
type DirectoryEntry struct {
	ID             primitive.ObjectID    `bson:"_id" json:"_id"`
	GraduationYear int                   `bson:"graduation_year,omitempty" json:"graduationYear,omitempty"`
	Degree         string                `bson:"degree,omitempty" json:"degree,omitempty"`
	CurrentRole    string                `bson:"current_role,omitempty" json:"currentRole,omitempty"`
	CurrentCompany string                `bson:"current_company,omitempty" json:"currentCompany,omitempty"`
	Location       string                `bson:"location,omitempty" json:"location,omitempty"`
	Bio            string                `bson:"bio,omitempty" json:"bio,omitempty"`
	Skills         []string              `bson:"skills,omitempty" json:"skills,omitempty"`
	Education      []EducationEntry      `bson:"education,omitempty" json:"education,omitempty"`
	WorkExperience []WorkExperienceEntry `bson:"work_experience,omitempty" json:"workExperience,omitempty"`
	SocialLinks    SocialLinks           `bson:"social_links,omitempty" json:"socialLinks,omitempty"`
	UserPhoto      string                `bson:"user_photo,omitempty" json:"userPhoto,omitempty"`
	User           DirectoryOwner        `bson:"owner" json:"user"`
}
