package util

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

func GetGCPClient(creds string) (*storage.Client, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx, option.WithCredentialsFile(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create GCP client: %v", err)
	}
	return client, nil
}

// UploadAssetToGCS uploads raw asset bytes to the bucket and returns a public
// URL. Generative providers often hand back base64 payloads; the render
// service only accepts http(s) URLs, so pipeline assets pass through here.
func UploadAssetToGCS(ctx context.Context, client *storage.Client, bucketName, objectName string, data []byte, contentType string) (string, error) {
	log.Printf("[INFO] Uploading %s to GCS bucket %s (%.2f MB)", objectName, bucketName, float64(len(data))/(1024*1024))

	objectName = "story_assets/" + objectName

	object := client.Bucket(bucketName).Object(objectName)
	writer := object.NewWriter(ctx)
	writer.ContentType = contentType
	if _, err := writer.Write(data); err != nil {
		return "", fmt.Errorf("failed to write asset to bucket: %v", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %v", err)
	}

	if err := object.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", fmt.Errorf("failed to set object ACL: %v", err)
	}

	assetURL := fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, objectName)
	return assetURL, nil
}

// UploadDataURIToGCS decodes a base64 data URI and uploads it, returning the
// public URL.
func UploadDataURIToGCS(ctx context.Context, client *storage.Client, bucketName, objectName, dataURI string) (string, error) {
	contentType, data, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", fmt.Errorf("failed to decode data URI: %v", err)
	}
	return UploadAssetToGCS(ctx, client, bucketName, objectName, data, contentType)
}

func DeleteObjectFromBucket(ctx context.Context, client *storage.Client, bucketName, objectName string) error {
	bucket := client.Bucket(bucketName)

	if err := bucket.Object(objectName).Delete(ctx); err != nil {
		log.Printf("[ERROR] failed to delete object: %v", err)
		return err
	}
	return nil
}
