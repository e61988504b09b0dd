// Package service contains the photo processing pipeline and the
// background jobs of the application
package service

import "fmt"

// ObjectKey builds the storage key for an original upload. Keys are
// namespaced by owner so different users can upload files with the same
// name
func ObjectKey(userID, photoID, ext string) string {
	if ext == "" {
		return fmt.Sprintf("users/%s/%s", userID, photoID)
	}

	return fmt.Sprintf("users/%s/%s.%s", userID, photoID, ext)
}

// ThumbnailKey is deterministic so the thumbnail never needs its own row
func ThumbnailKey(userID, photoID string) string {
	return fmt.Sprintf("users/%s/thumbnail/%s.jpeg", userID, photoID)
}
