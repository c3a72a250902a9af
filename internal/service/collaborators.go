package service

import (
	"context"
	"time"

	"github.com/spec-kit/voice2ticket/internal/domain"
	"github.com/spec-kit/voice2ticket/internal/ticketapi"
)

// ObjectStorage reads artifacts and issues time limited read links.
type ObjectStorage interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}

// ConfigResolver yields the ticket API settings for one invocation.
type ConfigResolver interface {
	Resolve(ctx context.Context) ticketapi.APIConfig
}

// TicketDeliverer posts a payload to the external ticket API.
type TicketDeliverer interface {
	Post(ctx context.Context, cfg ticketapi.APIConfig, payload any) (ticketapi.Response, error)
}

// DepartmentClassifier routes transcript text to a department.
type DepartmentClassifier interface {
	Classify(text string) domain.Department
}

// ObjectRef identifies the artifact named by a storage event.
type ObjectRef struct {
	Bucket   string
	Key      string
	Metadata map[string]string
}

func systemNow() time.Time {
	return time.Now().UTC()
}
