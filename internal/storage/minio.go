package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PhotoBucket holds uploaded profile photos.
const PhotoBucket = "profile-photos"

var MinioClient *minio.Client

func InitMinio() {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000" // Default fallback
	}

	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	if accessKey == "" {
		accessKey = "minioadmin" // Default fallback
	}

	secretKey := os.Getenv("MINIO_SECRET_KEY")
	if secretKey == "" {
		secretKey = "minioadmin" // Default fallback
	}

	useSSL := false // Set to true if using HTTPS

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})

	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	// Create a context with timeout for operations
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Create the photo bucket if it doesn't exist
	exists, err := client.BucketExists(ctx, PhotoBucket)
	if err != nil {
		log.Printf("Warning: Failed to check bucket existence: %v", err)
	} else if !exists {
		err = client.MakeBucket(ctx, PhotoBucket, minio.MakeBucketOptions{})
		if err != nil {
			log.Printf("Warning: Failed to create bucket: %v", err)
		} else {
			log.Printf("Created bucket: %s", PhotoBucket)
		}
	}

	MinioClient = client
	fmt.Println("✅ Connected to MinIO")
}

// PutPhoto writes a profile photo object and returns its public URL. The
// write is synchronous: no reference to the object may be committed to the
// database before this returns successfully.
func PutPhoto(objectName string, data []byte, contentType string) (string, error) {
	_, err := MinioClient.PutObject(
		context.Background(),
		PhotoBucket,
		objectName,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("http://%s/%s/%s", os.Getenv("MINIO_ENDPOINT"), PhotoBucket, objectName), nil
}

// RemovePhoto deletes a previously written photo object. Used to roll back
// an upload whose database commit failed.
func RemovePhoto(objectName string) error {
	return MinioClient.RemoveObject(context.Background(), PhotoBucket, objectName, minio.RemoveObjectOptions{})
}
