package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/knayak08/AlumniBridge/internal/apperr"
	"github.com/knayak08/AlumniBridge/internal/db"
	"github.com/knayak08/AlumniBridge/internal/models"
)

func entry(name, role, company string, skills ...string) models.DirectoryEntry {
	return models.DirectoryEntry{
		ID:             primitive.NewObjectID(),
		CurrentRole:    role,
		CurrentCompany: company,
		Skills:         skills,
		User:           models.DirectoryOwner{Name: name},
	}
}

func TestFilterAlumni(t *testing.T) {
	entries := []models.DirectoryEntry{
		entry("Asha Rao", "Backend Engineer", "Initech", "Go", "MongoDB"),
		entry("Ben Oduya", "Product Manager", "Globex", "Roadmaps"),
		entry("Carla Diaz", "Data Scientist", "Initech", "Python", "ML"),
	}

	t.Run("matches across name role company and skills", func(t *testing.T) {
		assert.Len(t, FilterAlumni(entries, "asha"), 1)
		assert.Len(t, FilterAlumni(entries, "ENGINEER"), 1)
		assert.Len(t, FilterAlumni(entries, "initech"), 2)
		assert.Len(t, FilterAlumni(entries, "mongo"), 1)
	})

	t.Run("empty term returns everything", func(t *testing.T) {
		assert.Len(t, FilterAlumni(entries, ""), 3)
		assert.Len(t, FilterAlumni(entries, "   "), 3)
	})

	t.Run("no match returns empty, not nil error state", func(t *testing.T) {
		got := FilterAlumni(entries, "cobol")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("filter does not mutate its input", func(t *testing.T) {
		before := len(entries)
		_ = FilterAlumni(entries, "initech")
		assert.Len(t, entries, before)
	})
}

func TestDirectoryListingAndLookup(t *testing.T) {
	connectTestDB(t)
	ctx := context.TODO()
	_ = db.GetCollection("alumni_profiles").Drop(ctx)
	_ = db.GetCollection("users").Drop(ctx)

	owner := insertTestUser(t, "Asha Rao", "asha@example.com")
	profile := models.AlumniProfile{
		ID:             primitive.NewObjectID(),
		User:           owner.ID,
		GraduationYear: 2020,
		Degree:         "BSc",
		CurrentRole:    "Engineer",
		Skills:         []string{"Go"},
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	_, err := db.GetCollection("alumni_profiles").InsertOne(ctx, profile)
	require.NoError(t, err)

	// Orphan profile with no owning user.
	orphan := models.AlumniProfile{
		ID:   primitive.NewObjectID(),
		User: primitive.NewObjectID(),
	}
	_, err = db.GetCollection("alumni_profiles").InsertOne(ctx, orphan)
	require.NoError(t, err)

	t.Run("listing joins owner and is idempotent", func(t *testing.T) {
		first, err := ListAlumni()
		require.NoError(t, err)
		second, err := ListAlumni()
		require.NoError(t, err)
		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].ID, second[i].ID)
		}

		require.NotEmpty(t, first)
		assert.Equal(t, "Asha Rao", first[0].User.Name)
		assert.Equal(t, "asha@example.com", first[0].User.Email)
	})

	t.Run("lookup by id joins owner", func(t *testing.T) {
		got, err := GetAlumniByID(profile.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, profile.ID, got.ID)
		assert.Equal(t, owner.ID, got.User.ID)
		assert.Equal(t, "Asha Rao", got.User.Name)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := GetAlumniByID(primitive.NewObjectID().Hex())
		require.Error(t, err)
	})

	t.Run("orphan profile is a data-integrity error, not not-found", func(t *testing.T) {
		_, err := GetAlumniByID(orphan.ID.Hex())
		require.Error(t, err)
	})
}

func TestProfileUpdateCompleteness(t *testing.T) {
	connectTestDB(t)
	ctx := context.TODO()
	_ = db.GetCollection("alumni_profiles").Drop(ctx)
	_ = db.GetCollection("users").Drop(ctx)

	owner := insertTestUser(t, "Asha Rao", "asha@example.com")

	// Incomplete payload first: completeness must be false.
	merged, err := UpdateMyAlumniProfile(owner.ID.Hex(), UpdateAlumniInput{
		Name:   "Asha Rao",
		Email:  "asha@example.com",
		Degree: "BSc",
	})
	require.NoError(t, err)
	assert.False(t, merged.ProfileComplete)

	// Completing the required set flips the flag on the merged view and
	// on both stored documents.
	merged, err = UpdateMyAlumniProfile(owner.ID.Hex(), UpdateAlumniInput{
		Name:           "Asha Rao",
		Email:          "asha@example.com",
		GraduationYear: 2020,
		Degree:         "BSc",
		CurrentRole:    "Engineer",
	})
	require.NoError(t, err)
	assert.True(t, merged.ProfileComplete)
	assert.Equal(t, 2020, merged.GraduationYear)
	assert.Equal(t, "BSc", merged.Degree)
	assert.Equal(t, "Engineer", merged.CurrentRole)
	assert.Equal(t, owner.ID, merged.OwnerID)

	view, err := GetMyAlumniProfile(owner.ID.Hex())
	require.NoError(t, err)
	assert.True(t, view.ProfileComplete)

	stored, err := GetCurrentUser(owner.ID.Hex())
	require.NoError(t, err)
	assert.True(t, stored.ProfileComplete)
}

func TestProfileUpdateRejectsTakenEmail(t *testing.T) {
	connectTestDB(t)
	ctx := context.TODO()
	_ = db.GetCollection("alumni_profiles").Drop(ctx)
	_ = db.GetCollection("users").Drop(ctx)

	owner := insertTestUser(t, "Asha Rao", "asha@example.com")
	insertTestUser(t, "Ben Oduya", "ben@example.com")

	before, err := GetCurrentUser(owner.ID.Hex())
	require.NoError(t, err)

	// Claiming another account's email must fail as a conflict, before any
	// write happens.
	_, err = UpdateMyAlumniProfile(owner.ID.Hex(), UpdateAlumniInput{
		Name:           "Asha Rao",
		Email:          "BEN@example.com",
		GraduationYear: 2020,
		Degree:         "BSc",
		CurrentRole:    "Engineer",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))

	after, err := GetCurrentUser(owner.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, before.Email, after.Email)
	assert.Equal(t, before.Name, after.Name)
	assert.Equal(t, before.ProfileComplete, after.ProfileComplete)

	count, err := db.GetCollection("alumni_profiles").CountDocuments(ctx, bson.M{"user": owner.ID})
	require.NoError(t, err)
	assert.Zero(t, count, "no profile may be created on a rejected update")

	// The user keeps their own email through a normal update.
	merged, err := UpdateMyAlumniProfile(owner.ID.Hex(), UpdateAlumniInput{
		Name:           "Asha Rao",
		Email:          "asha@example.com",
		GraduationYear: 2020,
		Degree:         "BSc",
		CurrentRole:    "Engineer",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", merged.Email)
}

func TestProfileUpdateRollsBackUserOnProfileFailure(t *testing.T) {
	connectTestDB(t)
	ctx := context.TODO()
	_ = db.GetCollection("alumni_profiles").Drop(ctx)
	_ = db.GetCollection("users").Drop(ctx)

	// A unique index on degree lets the test make the profile upsert fail
	// after the user write has already succeeded.
	_, err := db.GetCollection("alumni_profiles").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "degree", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	require.NoError(t, err)
	defer func() {
		_, _ = db.GetCollection("alumni_profiles").Indexes().DropAll(ctx)
	}()

	blocker := insertTestUser(t, "Ben Oduya", "ben@example.com")
	_, err = UpdateMyAlumniProfile(blocker.ID.Hex(), UpdateAlumniInput{
		Name:           "Ben Oduya",
		Email:          "ben@example.com",
		GraduationYear: 2019,
		Degree:         "MSc",
		CurrentRole:    "Engineer",
	})
	require.NoError(t, err)

	owner := insertTestUser(t, "Asha Rao", "asha@example.com")
	before, err := GetCurrentUser(owner.ID.Hex())
	require.NoError(t, err)

	_, err = UpdateMyAlumniProfile(owner.ID.Hex(), UpdateAlumniInput{
		Name:           "Renamed",
		Email:          "asha@example.com",
		Phone:          "+1 555 0100",
		Bio:            "changed",
		GraduationYear: 2020,
		Degree:         "MSc",
		CurrentRole:    "Engineer",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodePartialUpdate, apperr.CodeOf(err))

	// The compensating write restored every user-scope field.
	after, err := GetCurrentUser(owner.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, before.Name, after.Name)
	assert.Equal(t, before.Email, after.Email)
	assert.Equal(t, before.Phone, after.Phone)
	assert.Equal(t, before.Bio, after.Bio)
	assert.Equal(t, before.SocialLinks, after.SocialLinks)
	assert.Equal(t, before.ProfileComplete, after.ProfileComplete)

	count, err := db.GetCollection("alumni_profiles").CountDocuments(ctx, bson.M{"user": owner.ID})
	require.NoError(t, err)
	assert.Zero(t, count, "failed upsert must not leave a profile behind")
}
