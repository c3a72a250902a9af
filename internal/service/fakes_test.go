package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/voice2ticket/internal/domain"
	"github.com/spec-kit/voice2ticket/internal/repository"
	"github.com/spec-kit/voice2ticket/internal/ticketapi"
)

var errNoSuchObject = errors.New("no such object")

type fakeStorage struct {
	objects    map[string][]byte
	presignURL string
	presignErr error
	presigned  []string
}

func (f *fakeStorage) Get(_ context.Context, bucket, key string) ([]byte, error) {
	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, errNoSuchObject
	}
	return data, nil
}

func (f *fakeStorage) PresignGet(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	f.presigned = append(f.presigned, bucket+"/"+key)
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return f.presignURL, nil
}

type fakeJobs struct {
	jobs     map[string]*domain.TranscriptionJob
	started  []*domain.TranscriptionJob
	deleted  []string
	listErr  error
	startErr error
	getErr   map[string]error
}

func newFakeJobs(jobs ...*domain.TranscriptionJob) *fakeJobs {
	f := &fakeJobs{jobs: map[string]*domain.TranscriptionJob{}}
	for _, j := range jobs {
		f.jobs[j.Name] = j
	}
	return f
}

func (f *fakeJobs) Start(_ context.Context, job *domain.TranscriptionJob) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = append(f.started, job)
	f.jobs[job.Name] = job
	return nil
}

func (f *fakeJobs) List(_ context.Context, status domain.JobStatus) ([]domain.TranscriptionJobSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.TranscriptionJobSummary
	for _, j := range f.jobs {
		if j.Status == status {
			out = append(out, domain.TranscriptionJobSummary{Name: j.Name, Status: j.Status, CreatedAt: j.CreatedAt})
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out, nil
}

func (f *fakeJobs) Get(_ context.Context, name string) (*domain.TranscriptionJob, error) {
	if err := f.getErr[name]; err != nil {
		return nil, err
	}
	j, ok := f.jobs[name]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return j, nil
}

func (f *fakeJobs) Delete(_ context.Context, name string) error {
	if _, ok := f.jobs[name]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.jobs, name)
	f.deleted = append(f.deleted, name)
	return nil
}

type fakeTickets struct {
	tickets       map[string]*domain.Ticket
	created       []string
	createErr     error
	listErr       error
	transitionErr map[string]error
	lastFilter    repository.TicketFilter
	now           func() time.Time
}

func newFakeTickets(now func() time.Time, tickets ...domain.Ticket) *fakeTickets {
	f := &fakeTickets{tickets: map[string]*domain.Ticket{}, transitionErr: map[string]error{}, now: now}
	for i := range tickets {
		t := tickets[i]
		f.tickets[t.TicketID] = &t
	}
	return f
}

func (f *fakeTickets) Create(_ context.Context, ticket *domain.Ticket) error {
	if f.createErr != nil {
		return f.createErr
	}
	ticket.CreatedAt = f.now()
	ticket.LastUpdated = ticket.CreatedAt
	copied := *ticket
	f.tickets[ticket.TicketID] = &copied
	f.created = append(f.created, ticket.TicketID)
	return nil
}

func (f *fakeTickets) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Ticket
	for _, t := range f.tickets {
		if filter.Department != nil && t.Department != *filter.Department {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, t.Status) {
			continue
		}
		if filter.UpdatedBefore != nil && !t.LastUpdated.Before(*filter.UpdatedBefore) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].LastUpdated.Before(out[b].LastUpdated) })
	return out, nil
}

func (f *fakeTickets) Transition(_ context.Context, id string, from []domain.TicketStatus, to domain.TicketStatus, resolution string) (*domain.Ticket, error) {
	if err := f.transitionErr[id]; err != nil {
		return nil, err
	}
	if err := domain.ValidateClosure(to, resolution); err != nil {
		return nil, err
	}
	t, ok := f.tickets[id]
	if !ok || !containsStatus(from, t.Status) {
		return nil, pgx.ErrNoRows
	}
	t.Status = to
	t.Resolution = resolution
	t.LastUpdated = f.now()
	copied := *t
	return &copied, nil
}

func containsStatus(list []domain.TicketStatus, s domain.TicketStatus) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}

type fakeAudits struct {
	records []*domain.TicketAudit
	err     error
}

func (f *fakeAudits) Create(_ context.Context, audit *domain.TicketAudit) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, audit)
	return nil
}

type fakeResolver struct {
	cfg ticketapi.APIConfig
}

func (f fakeResolver) Resolve(context.Context) ticketapi.APIConfig { return f.cfg }

type fakeDelivery struct {
	payloads []any
	resp     ticketapi.Response
	err      error
}

func (f *fakeDelivery) Post(_ context.Context, _ ticketapi.APIConfig, payload any) (ticketapi.Response, error) {
	f.payloads = append(f.payloads, payload)
	if f.err != nil {
		return ticketapi.Response{}, f.err
	}
	return f.resp, nil
}

type published struct {
	topic, subject, message string
}

type recordingPublisher struct {
	messages []published
	err      error
}

func (r *recordingPublisher) Publish(_ context.Context, topic, subject, message string) error {
	if r.err != nil {
		return r.err
	}
	r.messages = append(r.messages, published{topic: topic, subject: subject, message: message})
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
