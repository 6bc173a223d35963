package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/knayak08/AlumniBridge/internal/apperr"
	"github.com/knayak08/AlumniBridge/internal/db"
	"github.com/knayak08/AlumniBridge/internal/models"
)

// SendMessage persists a new message from the authenticated sender. The
// full persisted record, server id and timestamp included, is returned so
// the client can reconcile an optimistic pending entry.
func SendMessage(senderID, receiverID, content string) (models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, apperr.ValidationFields("missing or invalid fields",
			map[string]string{"content": "content is required"})
	}

	senderOID, err := primitive.ObjectIDFromHex(senderID)
	if err != nil {
		return models.Message{}, apperr.Unauthorized("invalid token payload")
	}
	receiverOID, err := primitive.ObjectIDFromHex(receiverID)
	if err != nil {
		return models.Message{}, apperr.ValidationFields("missing or invalid fields",
			map[string]string{"receiver": "receiver does not exist"})
	}

	// The receiver must resolve to a real user before anything is written.
	err = db.GetCollection("users").FindOne(context.TODO(), bson.M{"_id": receiverOID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Message{}, apperr.ValidationFields("missing or invalid fields",
			map[string]string{"receiver": "receiver does not exist"})
	}
	if err != nil {
		return models.Message{}, apperr.Internal("server error", err)
	}

	msg := models.Message{
		ID:        primitive.NewObjectID(),
		Sender:    senderOID,
		Receiver:  receiverOID,
		Content:   content,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := db.GetCollection("messages").InsertOne(context.TODO(), msg); err != nil {
		return models.Message{}, apperr.Internal("server error", err)
	}
	return msg, nil
}

// GetConversation returns every message between the authenticated user and
// the counterpart, in either direction, ascending by creation time. An
// empty conversation is an empty list, not an error.
func GetConversation(selfID, counterpartID string) ([]models.Message, error) {
	selfOID, err := primitive.ObjectIDFromHex(selfID)
	if err != nil {
		return nil, apperr.Unauthorized("invalid token payload")
	}
	otherOID, err := primitive.ObjectIDFromHex(counterpartID)
	if err != nil {
		return nil, apperr.Validation("invalid counterpart id")
	}

	filter := bson.M{"$or": bson.A{
		bson.M{"sender": selfOID, "receiver": otherOID},
		bson.M{"sender": otherOID, "receiver": selfOID},
	}}
	// Secondary _id sort keeps replay deterministic when timestamps collide.
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := db.GetCollection("messages").Find(context.TODO(), filter, opts)
	if err != nil {
		return nil, apperr.Internal("server error", err)
	}
	defer cursor.Close(context.TODO())

	messages := []models.Message{}
	if err = cursor.All(context.TODO(), &messages); err != nil {
		return nil, apperr.Internal("server error", err)
	}
	return messages, nil
}

// ListConversations partitions all messages touching the authenticated user
// by counterpart and reduces each partition to its latest message plus the
// count of unread messages addressed to the user.
func ListConversations(selfID string) ([]models.Conversation, error) {
	selfOID, err := primitive.ObjectIDFromHex(selfID)
	if err != nil {
		return nil, apperr.Unauthorized("invalid token payload")
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"sender": selfOID},
			bson.M{"receiver": selfOID},
		}}}},
		// Ascending scan order makes $last pick the newest message per group.
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "created_at", Value: 1},
			{Key: "_id", Value: 1},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$sender", selfOID}},
				"$receiver",
				"$sender",
			}},
			"last_message": bson.M{"$last": "$$ROOT"},
			"unread_count": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$receiver", selfOID}},
					bson.M{"$eq": bson.A{"$read", false}},
				}},
				1,
				0,
			}}},
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		bson.D{{Key: "$unwind", Value: "$user"}},
		bson.D{{Key: "$project", Value: bson.M{
			"last_message": 1,
			"unread_count": 1,
			"user": bson.M{
				"id":           "$user._id",
				"name":         "$user.name",
				"email":        "$user.email",
				"profilePhoto": "$user.profile_photo",
			},
		}}},
	}

	cursor, err := db.GetCollection("messages").Aggregate(context.TODO(), pipeline)
	if err != nil {
		return nil, apperr.Internal("server error", err)
	}
	defer cursor.Close(context.TODO())

	conversations := []models.Conversation{}
	if err = cursor.All(context.TODO(), &conversations); err != nil {
		return nil, apperr.Internal("server error", err)
	}

	SortConversations(conversations)
	return conversations, nil
}

// SortConversations orders summaries by last-message time descending,
// tie-broken ascending by counterpart id. The explicit tie-break keeps the
// output deterministic across repeated calls on unchanged data, which a
// plain group-then-sort would not guarantee.
func SortConversations(conversations []models.Conversation) {
	sort.SliceStable(conversations, func(i, j int) bool {
		a, b := conversations[i], conversations[j]
		if !a.LastMessage.CreatedAt.Equal(b.LastMessage.CreatedAt) {
			return a.LastMessage.CreatedAt.After(b.LastMessage.CreatedAt)
		}
		return a.Counterpart.ID.Hex() < b.Counterpart.ID.Hex()
	})
}
