package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Name of the application database.
const Name = "alumni_bridge"

// MongoDB connection instance
var MongoClient *mongo.Client

// ConnectMongoDB initializes the database connection
func ConnectMongoDB(uri string) *mongo.Database {
	clientOptions := options.Client().ApplyURI(uri)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}

	// Ping the database to verify connection
	err = client.Ping(ctx, nil)
	if err != nil {
		log.Fatalf("MongoDB ping failed: %v", err)
	}

	fmt.Println("✅ Connected to MongoDB")
	MongoClient = client
	return client.Database(Name)
}

// GetCollection returns a MongoDB collection from the application database.
func GetCollection(collectionName string) *mongo.Collection {
	return MongoClient.Database(Name).Collection(collectionName)
}
