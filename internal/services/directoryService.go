package services

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/knayak08/AlumniBridge/internal/apperr"
	"github.com/knayak08/AlumniBridge/internal/db"
	"github.com/knayak08/AlumniBridge/internal/models"
)

// ListAlumni returns the full alumni population joined with each owner's
// public fields, ordered ascending by profile id so repeated calls with no
// intervening writes return identical output.
func ListAlumni() ([]models.DirectoryEntry, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user",
			"foreignField": "_id",
			"as":           "owner",
		}}},
		bson.D{{Key: "$unwind", Value: "$owner"}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := db.GetCollection("alumni_profiles").Aggregate(context.TODO(), pipeline)
	if err != nil {
		return nil, apperr.Internal("server error", err)
	}
	defer cursor.Close(context.TODO())

	entries := []models.DirectoryEntry{}
	if err = cursor.All(context.TODO(), &entries); err != nil {
		return nil, apperr.Internal("server error", err)
	}
	return entries, nil
}

// FilterAlumni is the pure, case-insensitive substring filter over name,
// current role, company and skills. The browsing client runs the same
// projection locally per keystroke; the server applies it only when an
// explicit query term is given.
func FilterAlumni(entries []models.DirectoryEntry, term string) []models.DirectoryEntry {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return entries
	}

	matched := []models.DirectoryEntry{}
	for _, e := range entries {
		if alumniMatches(e, term) {
			matched = append(matched, e)
		}
	}
	return matched
}

func alumniMatches(e models.DirectoryEntry, term string) bool {
	if strings.Contains(strings.ToLower(e.User.Name), term) ||
		strings.Contains(strings.ToLower(e.CurrentRole), term) ||
		strings.Contains(strings.ToLower(e.CurrentCompany), term) {
		return true
	}
	for _, skill := range e.Skills {
		if strings.Contains(strings.ToLower(skill), term) {
			return true
		}
	}
	return false
}

// GetAlumniByID looks up a single profile by its own id and joins the owning
// user's public fields. A profile whose owner cannot be resolved is a
// data-integrity failure, reported distinctly from "not found".
func GetAlumniByID(id string) (models.DirectoryEntry, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.DirectoryEntry{}, apperr.Validation("invalid alumni id")
	}

	var profile models.AlumniProfile
	err = db.GetCollection("alumni_profiles").FindOne(context.TODO(), bson.M{"_id": objID}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.DirectoryEntry{}, apperr.NotFound("Alumni not found")
	}
	if err != nil {
		return models.DirectoryEntry{}, apperr.Internal("server error", err)
	}

	var owner models.User
	err = db.GetCollection("users").FindOne(context.TODO(), bson.M{"_id": profile.User}).Decode(&owner)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.DirectoryEntry{}, apperr.Internal("alumni profile has no owning user", err)
	}
	if err != nil {
		return models.DirectoryEntry{}, apperr.Internal("server error", err)
	}

	return models.DirectoryEntry{
		ID:             profile.ID,
		GraduationYear: profile.GraduationYear,
		Degree:         profile.Degree,
		CurrentRole:    profile.CurrentRole,
		CurrentCompany: profile.CurrentCompany,
		Location:       profile.Location,
		Bio:            profile.Bio,
		Skills:         profile.Skills,
		Education:      profile.Education,
		WorkExperience: profile.WorkExperience,
		SocialLinks:    profile.SocialLinks,
		UserPhoto:      profile.UserPhoto,
		User: models.DirectoryOwner{
			ID:           owner.ID,
			Name:         owner.Name,
			Email:        owner.Email,
			ProfilePhoto: owner.ProfilePhoto,
		},
	}, nil
}
