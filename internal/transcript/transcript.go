// Package transcript reads transcription service output documents.
package transcript

import (
	"encoding/json"
	"strings"

	apperrors "github.com/spec-kit/voice2ticket/pkg/util/errorutil"
)

const (
	maxTitleLength = 70
	// DefaultTitle is used when the first sentence is empty.
	DefaultTitle = "Voice support request"
)

// Document is the subset of the transcript artifact the pipeline reads.
type Document struct {
	JobName string   `json:"jobName"`
	Results *results `json:"results"`
}

type results struct {
	Transcripts []entry `json:"transcripts"`
}

type entry struct {
	Transcript string `json:"transcript"`
}

// Transcript is the extracted recognized text.
type Transcript struct {
	JobName string
	Text    string
}

// Parse decodes an artifact and extracts results.transcripts[0].transcript.
func Parse(data []byte) (*Transcript, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewMalformedTranscript("transcript JSON is not valid", err)
	}
	if doc.Results == nil || doc.Results.Transcripts == nil {
		return nil, apperrors.NewMalformedTranscript("Transcript JSON missing expected keys", nil)
	}
	if len(doc.Results.Transcripts) == 0 {
		return nil, apperrors.NewMalformedTranscript("Transcript JSON has no transcripts", nil)
	}
	text := strings.TrimSpace(doc.Results.Transcripts[0].Transcript)
	if text == "" {
		return nil, apperrors.NewMalformedTranscript("Transcript text empty", nil)
	}
	return &Transcript{JobName: doc.JobName, Text: text}, nil
}

// Title returns the first sentence of text, cut to 70 characters with a
// trailing "..." when longer.
func Title(text string) string {
	first, _, _ := strings.Cut(text, ".")
	first = strings.TrimSpace(first)
	if runes := []rune(first); len(runes) > maxTitleLength {
		first = string(runes[:maxTitleLength]) + "..."
	}
	if first == "" {
		return DefaultTitle
	}
	return first
}
