package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/knayak08/AlumniBridge/internal/apperr"
	"github.com/knayak08/AlumniBridge/internal/db"
	"github.com/knayak08/AlumniBridge/internal/models"
	"github.com/knayak08/AlumniBridge/internal/normalize"
	"github.com/knayak08/AlumniBridge/internal/storage"
	"github.com/knayak08/AlumniBridge/internal/utils"
)

// AlumniProfileComplete reports completeness for the alumni required-field
// set {graduationYear, degree, currentRole}. Computed server-side, never
// trusted from the client.
func AlumniProfileComplete(graduationYear int, degree, currentRole string) bool {
	return graduationYear != 0 &&
		strings.TrimSpace(degree) != "" &&
		strings.TrimSpace(currentRole) != ""
}

func mergeProfile(user models.User, profile models.AlumniProfile) models.MergedProfile {
	return models.MergedProfile{
		AlumniProfile: profile,
		OwnerID:       user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		OwnerPhoto:    user.ProfilePhoto,
	}
}

// GetMyAlumniProfile returns the merged view for the authenticated user, or
// NotFound when no alumni profile exists yet.
func GetMyAlumniProfile(userID string) (models.MergedProfile, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.MergedProfile{}, apperr.Unauthorized("invalid token payload")
	}

	// Both documents are independent reads; fetch them in parallel.
	results, errs := utils.RunParallelTasks([]utils.ParallelTask{
		func() (interface{}, error) {
			var profile models.AlumniProfile
			err := db.GetCollection("alumni_profiles").FindOne(context.TODO(), bson.M{"user": objID}).Decode(&profile)
			return profile, err
		},
		func() (interface{}, error) {
			var user models.User
			err := db.GetCollection("users").FindOne(context.TODO(), bson.M{"_id": objID}).Decode(&user)
			return user, err
		},
	})

	if errors.Is(errs[0], mongo.ErrNoDocuments) {
		return models.MergedProfile{}, apperr.NotFound("Alumni profile not found")
	}
	if errs[0] != nil {
		return models.MergedProfile{}, apperr.Internal("server error", errs[0])
	}
	if errs[1] != nil {
		return models.MergedProfile{}, apperr.Internal("server error", errs[1])
	}

	return mergeProfile(results[1].(models.User), results[0].(models.AlumniProfile)), nil
}

// UpdateAlumniInput is the merged payload of PUT /alumni/me, carrying both
// user-scope and profile-scope fields.
type UpdateAlumniInput struct {
	Name           string                       `json:"name"`
	Email          string                       `json:"email"`
	GraduationYear int                          `json:"graduationYear"`
	Degree         string                       `json:"degree"`
	CurrentRole    string                       `json:"currentRole"`
	CurrentCompany string                       `json:"currentCompany"`
	Location       string                       `json:"location"`
	Phone          string                       `json:"phone"`
	Bio            string                       `json:"bio"`
	Skills         []string                     `json:"skills"`
	Education      []models.EducationEntry      `json:"education"`
	WorkExperience []models.WorkExperienceEntry `json:"workExperience"`
	SocialLinks    models.SocialLinks           `json:"socialLinks"`
}

// userScopeFields captures the slice of the user document touched by the
// dual update, for the compensating rollback. Its key set must match
// userScopeUpdate exactly or a rollback would silently lose a field.
func userScopeFields(u models.User) bson.M {
	return bson.M{
		"name":             u.Name,
		"email":            u.Email,
		"phone":            u.Phone,
		"bio":              u.Bio,
		"social_links":     u.SocialLinks,
		"profile_complete": u.ProfileComplete,
	}
}

// userScopeUpdate builds the $set document for the user half of the dual
// write. Its key set must match userScopeFields exactly.
func userScopeUpdate(input UpdateAlumniInput, complete bool) bson.M {
	return bson.M{
		"name":             strings.TrimSpace(input.Name),
		"email":            input.Email,
		"phone":            input.Phone,
		"bio":              input.Bio,
		"social_links":     input.SocialLinks,
		"profile_complete": complete,
	}
}

// UpdateMyAlumniProfile updates the User and AlumniProfile documents as one
// logical operation. The user snapshot taken up front backs a compensating
// rollback: if the profile upsert fails after the user write succeeded, the
// user document is restored and the whole operation reports failure.
func UpdateMyAlumniProfile(userID string, input UpdateAlumniInput) (models.MergedProfile, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.MergedProfile{}, apperr.Unauthorized("invalid token payload")
	}

	input.Email = normalize.Email(input.Email)
	if input.Email == "" {
		return models.MergedProfile{}, apperr.ValidationFields("missing or invalid fields",
			map[string]string{"email": "email is required"})
	}
	complete := AlumniProfileComplete(input.GraduationYear, input.Degree, input.CurrentRole)

	users := db.GetCollection("users")
	profiles := db.GetCollection("alumni_profiles")

	// The new email must not belong to another account.
	var other models.User
	err = users.FindOne(context.TODO(),
		bson.M{"email": input.Email, "_id": bson.M{"$ne": objID}}).Decode(&other)
	if err == nil {
		return models.MergedProfile{}, apperr.Conflict("email already in use")
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.MergedProfile{}, apperr.Internal("server error", err)
	}

	// Snapshot for rollback before touching anything.
	var snapshot models.User
	err = users.FindOne(context.TODO(), bson.M{"_id": objID}).Decode(&snapshot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.MergedProfile{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return models.MergedProfile{}, apperr.Internal("server error", err)
	}

	userUpdate := bson.M{"$set": userScopeUpdate(input, complete)}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updatedUser models.User
	err = users.FindOneAndUpdate(context.TODO(), bson.M{"_id": objID}, userUpdate, opts).Decode(&updatedUser)
	if err != nil {
		return models.MergedProfile{}, apperr.PartialUpdate("Profile update failed", err)
	}

	if input.Skills == nil {
		input.Skills = []string{}
	}
	if input.Education == nil {
		input.Education = []models.EducationEntry{}
	}
	if input.WorkExperience == nil {
		input.WorkExperience = []models.WorkExperienceEntry{}
	}

	profileUpdate := bson.M{
		"$set": bson.M{
			"graduation_year":  input.GraduationYear,
			"degree":           input.Degree,
			"current_role":     input.CurrentRole,
			"current_company":  input.CurrentCompany,
			"location":         input.Location,
			"phone":            input.Phone,
			"bio":              input.Bio,
			"skills":           input.Skills,
			"education":        input.Education,
			"work_experience":  input.WorkExperience,
			"social_links":     input.SocialLinks,
			"profile_complete": complete,
			"updated_at":       time.Now().UTC(),
		},
		"$setOnInsert": bson.M{
			"created_at": time.Now().UTC(),
		},
	}
	upsertOpts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)

	var updatedProfile models.AlumniProfile
	err = profiles.FindOneAndUpdate(context.TODO(), bson.M{"user": objID}, profileUpdate, upsertOpts).Decode(&updatedProfile)
	if err != nil {
		// Compensate: put the user document back the way it was so the two
		// completeness flags cannot diverge across a partial failure.
		if _, rbErr := users.UpdateOne(context.TODO(), bson.M{"_id": objID},
			bson.M{"$set": userScopeFields(snapshot)}); rbErr != nil {
			err = fmt.Errorf("update failed: %w (rollback also failed: %v)", err, rbErr)
		}
		return models.MergedProfile{}, apperr.PartialUpdate("Profile update failed", err)
	}

	return mergeProfile(updatedUser, updatedProfile), nil
}

// PhotoUploadResult echoes both updated references so the caller can verify
// they agree.
type PhotoUploadResult struct {
	User   models.User           `json:"user"`
	Alumni *models.AlumniProfile `json:"alumni,omitempty"`
}

// UploadProfilePhoto stores the uploaded photo and updates the reference on
// the user document and, for alumni, the denormalized copy on the profile.
// The object write completes before any reference is committed, so a
// concurrent reader never sees a reference to a missing object.
func UploadProfilePhoto(c *fiber.Ctx, userID string) (PhotoUploadResult, error) {
	fileHeader, err := c.FormFile("profilePhoto")
	if err != nil {
		return PhotoUploadResult{}, apperr.Validation("Please upload a file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return PhotoUploadResult{}, apperr.Validation("failed to open file")
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return PhotoUploadResult{}, apperr.Validation("failed to read file")
	}

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return PhotoUploadResult{}, apperr.Unauthorized("invalid token payload")
	}

	users := db.GetCollection("users")
	var snapshot models.User
	err = users.FindOne(context.TODO(), bson.M{"_id": objID}).Decode(&snapshot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return PhotoUploadResult{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return PhotoUploadResult{}, apperr.Internal("server error", err)
	}

	objectName := fmt.Sprintf("%s_%s%s", userID, uuid.NewString(), filepath.Ext(fileHeader.Filename))
	photoURL, err := storage.PutPhoto(objectName, fileBytes, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return PhotoUploadResult{}, apperr.Internal("server error", err)
	}

	_, err = users.UpdateOne(context.TODO(), bson.M{"_id": objID},
		bson.M{"$set": bson.M{"profile_photo": photoURL}})
	if err != nil {
		// Nothing references the object yet; drop it.
		_ = storage.RemovePhoto(objectName)
		return PhotoUploadResult{}, apperr.Internal("server error", err)
	}

	updatedUser := snapshot
	updatedUser.ProfilePhoto = photoURL
	result := PhotoUploadResult{User: updatedUser}

	if snapshot.Role == models.RoleAlumni {
		profiles := db.GetCollection("alumni_profiles")
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

		var profile models.AlumniProfile
		err = profiles.FindOneAndUpdate(context.TODO(), bson.M{"user": objID},
			bson.M{"$set": bson.M{"user_photo": photoURL}}, opts).Decode(&profile)
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			// No alumni profile yet; the user reference alone is consistent.
		case err != nil:
			// Roll back the user reference so the two paths never diverge.
			if _, rbErr := users.UpdateOne(context.TODO(), bson.M{"_id": objID},
				bson.M{"$set": bson.M{"profile_photo": snapshot.ProfilePhoto}}); rbErr != nil {
				err = fmt.Errorf("photo update failed: %w (rollback also failed: %v)", err, rbErr)
			}
			_ = storage.RemovePhoto(objectName)
			return PhotoUploadResult{}, apperr.PartialUpdate("Photo update failed", err)
		default:
			result.Alumni = &profile
		}
	}

	return result, nil
}
