package dto

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestStorageEventFirst(t *testing.T) {
	raw := `{"Records":[
		{"s3":{"bucket":{"name":"audio"},"object":{"key":"calls/Help+Desk%281%29.wav","userMetadata":{"X-Amz-Meta-Requester-Name":"Dana"}}}},
		{"s3":{"bucket":{"name":"other"},"object":{"key":"ignored.wav"}}}
	]}`
	var evt StorageEvent
	if err := json.Unmarshal([]byte(raw), &evt); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	rec, err := evt.First()
	if err != nil {
		t.Fatalf("First: %v", err)
	}
	if rec.S3.Bucket.Name != "audio" {
		t.Errorf("bucket = %q", rec.S3.Bucket.Name)
	}
	key, err := rec.S3.Object.DecodedKey()
	if err != nil || key != "calls/Help Desk(1).wav" {
		t.Errorf("key = %q, %v", key, err)
	}
	if rec.S3.Object.UserMetadata["X-Amz-Meta-Requester-Name"] != "Dana" {
		t.Errorf("metadata = %v", rec.S3.Object.UserMetadata)
	}
}

func TestStorageEventFirstErrors(t *testing.T) {
	cases := map[string]struct {
		evt  StorageEvent
		want error
	}{
		"no records": {StorageEvent{}, ErrNoRecords},
		"no bucket":  {StorageEvent{Records: []StorageRecord{{S3: S3Entity{Object: S3Object{Key: "a.wav"}}}}}, ErrMissingBucket},
		"no key":     {StorageEvent{Records: []StorageRecord{{S3: S3Entity{Bucket: S3Bucket{Name: "b"}}}}}, ErrMissingKey},
	}
	for name, tc := range cases {
		if _, err := tc.evt.First(); !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", name, err, tc.want)
		}
	}
}
