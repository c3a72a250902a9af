package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// URI formats an s3:// object location. Each key segment is path-escaped so
// keys holding '?', '#' or '%' survive ParseURI unchanged.
func URI(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("s3://%s/%s", bucket, strings.Join(segments, "/"))
}

// ParseURI splits an object location into bucket and key. It accepts
// s3://bucket/key and path-style http(s)://host/bucket/key.
func ParseURI(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse object uri %q: %w", raw, err)
	}
	switch u.Scheme {
	case "s3":
		bucket = u.Host
		key = strings.TrimPrefix(u.Path, "/")
	case "http", "https":
		bucket, key, _ = strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	default:
		return "", "", fmt.Errorf("unsupported object uri scheme %q", u.Scheme)
	}
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("object uri %q lacks bucket or key", raw)
	}
	return bucket, key, nil
}
