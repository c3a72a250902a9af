package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/voice2ticket/internal/api/dto"
	"github.com/spec-kit/voice2ticket/internal/service"
	apperrors "github.com/spec-kit/voice2ticket/pkg/util/errorutil"
)

// EventsHandler receives storage notifications for audio and transcript artifacts.
type EventsHandler struct {
	ingestion *service.IngestionService
	dispatch  *service.DispatchService
	logger    *zap.Logger
}

// NewEventsHandler constructs handler.
func NewEventsHandler(ingestion *service.IngestionService, dispatch *service.DispatchService, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{ingestion: ingestion, dispatch: dispatch, logger: logger}
}

// AudioUploaded POST /events/audio.
func (h *EventsHandler) AudioUploaded(c *fiber.Ctx) error {
	obj, err := h.parseEvent(c)
	if err != nil {
		return err
	}
	result, err := h.dispatch.StartTranscription(c.UserContext(), obj)
	if err != nil {
		return err
	}
	return c.JSON(dto.DispatchResponse{Message: result.Message, JobName: result.JobName})
}

// TranscriptArrived POST /events/transcripts.
func (h *EventsHandler) TranscriptArrived(c *fiber.Ctx) error {
	obj, err := h.parseEvent(c)
	if err != nil {
		return err
	}
	result, err := h.ingestion.Ingest(c.UserContext(), obj)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// parseEvent logs the raw trigger before anything else and extracts the first record.
func (h *EventsHandler) parseEvent(c *fiber.Ctx) (service.ObjectRef, error) {
	body := c.Body()
	h.logger.Info("event received", zap.String("path", c.Path()), zap.ByteString("event", body))

	var evt dto.StorageEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return service.ObjectRef{}, apperrors.NewMalformedTrigger("Invalid event structure: body is not JSON", nil)
	}
	rec, err := evt.First()
	if err != nil {
		return service.ObjectRef{}, apperrors.NewMalformedTrigger("Invalid event structure: "+err.Error(), nil)
	}
	key, err := rec.S3.Object.DecodedKey()
	if err != nil {
		return service.ObjectRef{}, apperrors.NewMalformedTrigger("Invalid event structure: object key is not URL encoded",
			map[string]any{"key": rec.S3.Object.Key})
	}
	return service.ObjectRef{
		Bucket:   rec.S3.Bucket.Name,
		Key:      key,
		Metadata: rec.S3.Object.UserMetadata,
	}, nil
}
