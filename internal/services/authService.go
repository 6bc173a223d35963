package services

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/knayak08/AlumniBridge/internal/apperr"
	"github.com/knayak08/AlumniBridge/internal/db"
	"github.com/knayak08/AlumniBridge/internal/models"
	"github.com/knayak08/AlumniBridge/internal/normalize"
)

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a hashed password
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateJWT issues a token carrying the user ID, role and a unique token
// ID that keys the server-side session.
func GenerateJWT(userID, role string) (token string, tokenID string, err error) {
	tokenID = uuid.NewString()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"jti":     tokenID,
		"exp":     time.Now().Add(SessionTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString(jwtSecret())
	return token, tokenID, err
}

// RegisterUser creates an account and an initial session. Only the student
// and alumni roles are self-assignable.
func RegisterUser(name, email, password, role string) (models.User, string, error) {
	name = strings.TrimSpace(name)
	email = normalize.Email(email)

	fields := map[string]string{}
	if name == "" {
		fields["name"] = "name is required"
	}
	if email == "" {
		fields["email"] = "email is required"
	}
	if password == "" {
		fields["password"] = "password is required"
	}
	if role != models.RoleStudent && role != models.RoleAlumni {
		fields["role"] = "role must be student or alumni"
	}
	if len(fields) > 0 {
		return models.User{}, "", apperr.ValidationFields("missing or invalid fields", fields)
	}

	collection := db.GetCollection("users")

	// Check if user already exists
	var existingUser models.User
	err := collection.FindOne(context.TODO(), bson.M{"email": email}).Decode(&existingUser)
	if err == nil {
		return models.User{}, "", apperr.Conflict("email already in use")
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, "", apperr.Internal("server error", err)
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return models.User{}, "", apperr.Internal("server error", err)
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  hashedPassword,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if _, err = collection.InsertOne(context.TODO(), user); err != nil {
		return models.User{}, "", apperr.Internal("server error", err)
	}

	token, tokenID, err := GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		return models.User{}, "", apperr.Internal("server error", err)
	}
	if err := CreateSession(tokenID, user); err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// LoginUser authenticates a user, issues a token and opens a session.
func LoginUser(email, password string) (models.User, string, error) {
	collection := db.GetCollection("users")

	var user models.User
	err := collection.FindOne(context.TODO(), bson.M{"email": normalize.Email(email)}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, "", apperr.Unauthorized("invalid credentials")
	}
	if err != nil {
		return models.User{}, "", apperr.Internal("server error", err)
	}

	if !VerifyPassword(password, user.Password) {
		return models.User{}, "", apperr.Unauthorized("invalid credentials")
	}

	token, tokenID, err := GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		return models.User{}, "", apperr.Internal("server error", err)
	}
	if err := CreateSession(tokenID, user); err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// GetCurrentUser loads the user document behind an authenticated identity.
func GetCurrentUser(userID string) (models.User, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.User{}, apperr.Unauthorized("invalid token payload")
	}

	var user models.User
	err = db.GetCollection("users").FindOne(context.TODO(), bson.M{"_id": objID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return models.User{}, apperr.Internal("server error", err)
	}
	return user, nil
}

// UpdateUserInput carries the student/user-scope profile fields of
// PUT /auth/me.
type UpdateUserInput struct {
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	Phone        string             `json:"phone"`
	Bio          string             `json:"bio"`
	Program      string             `json:"program"`
	Year         string             `json:"year"`
	Section      string             `json:"section"`
	GPA          string             `json:"gpa"`
	Address      string             `json:"address"`
	Interests    []string           `json:"interests"`
	Achievements []string           `json:"achievements"`
	SocialLinks  models.SocialLinks `json:"socialLinks"`
}

// StudentProfileComplete reports completeness for the student required-field
// set. Computed server-side, never trusted from the client.
func StudentProfileComplete(name, program, year, email string) bool {
	return strings.TrimSpace(name) != "" &&
		strings.TrimSpace(program) != "" &&
		strings.TrimSpace(year) != "" &&
		strings.TrimSpace(email) != ""
}

// UpdateCurrentUser applies a user-scope profile update and returns the
// refreshed document.
func UpdateCurrentUser(userID string, input UpdateUserInput) (models.User, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.User{}, apperr.Unauthorized("invalid token payload")
	}

	input.Email = normalize.Email(input.Email)
	if input.Email == "" {
		return models.User{}, apperr.ValidationFields("missing or invalid fields",
			map[string]string{"email": "email is required"})
	}

	collection := db.GetCollection("users")

	// The new email must not belong to another account.
	var other models.User
	err = collection.FindOne(context.TODO(),
		bson.M{"email": input.Email, "_id": bson.M{"$ne": objID}}).Decode(&other)
	if err == nil {
		return models.User{}, apperr.Conflict("email already in use")
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, apperr.Internal("server error", err)
	}

	update := bson.M{"$set": bson.M{
		"name":             strings.TrimSpace(input.Name),
		"email":            input.Email,
		"phone":            input.Phone,
		"bio":              input.Bio,
		"program":          input.Program,
		"year":             input.Year,
		"section":          input.Section,
		"gpa":              input.GPA,
		"address":          input.Address,
		"interests":        input.Interests,
		"achievements":     input.Achievements,
		"social_links":     input.SocialLinks,
		"profile_complete": StudentProfileComplete(input.Name, input.Program, input.Year, input.Email),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.User
	err = collection.FindOneAndUpdate(context.TODO(), bson.M{"_id": objID}, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return models.User{}, apperr.Internal("server error", err)
	}
	return updated, nil
}
