package domain

import "time"

// JobStatus mirrors the transcription service job states.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "QUEUED"
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// JobSettings are engine options passed with a job request.
type JobSettings struct {
	ShowSpeakerLabels bool `json:"show_speaker_labels"`
	MaxSpeakerLabels  int  `json:"max_speaker_labels,omitempty"`
}

// TranscriptionJob is a request to turn one audio artifact into a transcript.
type TranscriptionJob struct {
	Name          string
	Status        JobStatus
	MediaURI      string
	MediaFormat   string
	LanguageCode  string
	OutputBucket  string
	OutputKey     string
	TranscriptURI string
	Settings      JobSettings
	Requester     UserInfo
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

// TranscriptionJobSummary is the listing view of a job.
type TranscriptionJobSummary struct {
	Name        string
	Status      JobStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
}
