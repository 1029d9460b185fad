package repository

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/set-night/shopassist/internal/domain"
)

const defaultContentType = "application/octet-stream"

// BlobURL is the public address of a stored object.
func BlobURL(publicURL, category, name string) string {
	return fmt.Sprintf("%s/blobs/%s/%s",
		strings.TrimRight(publicURL, "/"),
		url.PathEscape(category),
		url.PathEscape(name),
	)
}

func validateKey(category, name string) error {
	if category == "" || name == "" {
		return fmt.Errorf("invalid blob key %q/%q", category, name)
	}
	if strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return fmt.Errorf("invalid blob name %q", name)
	}
	return nil
}

func contentTypeOr(clip domain.AudioClip) string {
	if clip.ContentType == "" {
		return defaultContentType
	}
	return clip.ContentType
}
