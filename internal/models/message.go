package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is immutable once created; only the read flag is conceptually
// mutable, and no exposed operation currently flips it.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Sender    primitive.ObjectID `bson:"sender" json:"sender"`
	Receiver  primitive.ObjectID `bson:"receiver" json:"receiver"`
	Content   string             `bson:"content" json:"content"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// ConversationUser is the counterpart's public slice carried on each
// conversation summary.
type ConversationUser struct {
	ID           primitive.ObjectID `bson:"id" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	ProfilePhoto string             `bson:"profilePhoto,omitempty" json:"profilePhoto,omitempty"`
}

// Conversation is a derived view, never persisted: the most recent message
// exchanged with one counterpart plus the number of their messages the
// requesting user has not read.
type Conversation struct {
	Counterpart ConversationUser `bson:"user" json:"user"`
	LastMessage Message          `bson:"last_message" json:"lastMessage"`
	UnreadCount int              `bson:"unread_count" json:"unreadCount"`
}
