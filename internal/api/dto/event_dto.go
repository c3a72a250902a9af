package dto

import (
	"errors"
	"net/url"
)

// StorageEvent is an S3 compatible bucket notification.
type StorageEvent struct {
	Records []StorageRecord `json:"Records"`
}

// StorageRecord is one object change inside a notification.
type StorageRecord struct {
	EventName string   `json:"eventName,omitempty"`
	S3        S3Entity `json:"s3"`
}

// S3Entity names the bucket and object.
type S3Entity struct {
	Bucket S3Bucket `json:"bucket"`
	Object S3Object `json:"object"`
}

// S3Bucket identifies the bucket.
type S3Bucket struct {
	Name string `json:"name"`
}

// S3Object identifies the object. Key arrives URL encoded.
type S3Object struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size,omitempty"`
	ContentType  string            `json:"contentType,omitempty"`
	UserMetadata map[string]string `json:"userMetadata,omitempty"`
}

var (
	ErrNoRecords     = errors.New("event has no records")
	ErrMissingBucket = errors.New("record has no bucket name")
	ErrMissingKey    = errors.New("record has no object key")
)

// First returns the first record. Later records are ignored.
func (e StorageEvent) First() (*StorageRecord, error) {
	if len(e.Records) == 0 {
		return nil, ErrNoRecords
	}
	rec := e.Records[0]
	if rec.S3.Bucket.Name == "" {
		return nil, ErrMissingBucket
	}
	if rec.S3.Object.Key == "" {
		return nil, ErrMissingKey
	}
	return &rec, nil
}

// DecodedKey unescapes the object key, turning '+' into a space.
func (o S3Object) DecodedKey() (string, error) {
	return url.QueryUnescape(o.Key)
}
