package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/config"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
	"github.com/vitrinelabs/vitrine-backend/pkg/outbox"
)

type fakeRepo struct {
	events    []models.OutboxEvent
	fetchErr  error
	published []uuid.UUID
	failed    []uuid.UUID
}

func (f *fakeRepo) FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.events, nil
}

func (f *fakeRepo) MarkPublished(id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeRepo) MarkFailed(id uuid.UUID, err error) error {
	f.failed = append(f.failed, id)
	return nil
}

type fakePublishResult struct {
	err error
}

func (f fakePublishResult) Get(ctx context.Context) (string, error) {
	return "server-id", f.err
}

type fakePublisher struct {
	results  []fakePublishResult
	messages []*gcppubsub.Message
}

func (f *fakePublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	f.messages = append(f.messages, msg)
	if len(f.results) == 0 {
		return fakePublishResult{}
	}
	result := f.results[0]
	f.results = f.results[1:]
	return result
}

func newTestService(t *testing.T, repo outboxRepository, pub publisher) *Service {
	t.Helper()
	cfg := &config.Config{}
	cfg.PubSub.OrdersTopic = "orders-topic"
	service, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logger.New(logger.Options{ServiceName: "outbox-publisher-test"}),
		Repository: repo,
		Publisher:  pub,
	})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	return service
}

func mustEnvelopePayload(t *testing.T, eventID string) json.RawMessage {
	t.Helper()
	payload, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    eventID,
		OccurredAt: time.Now().UTC(),
		Data:       json.RawMessage(`{}`),
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return payload
}

func outboxEventFixture(t *testing.T, eventID string) models.OutboxEvent {
	t.Helper()
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       mustEnvelopePayload(t, eventID),
		CreatedAt:     time.Now().UTC(),
	}
}

func TestProcessBatchPublishesAndMarks(t *testing.T) {
	eventID := uuid.NewString()
	repo := &fakeRepo{events: []models.OutboxEvent{outboxEventFixture(t, eventID)}}
	pub := &fakePublisher{}
	service := newTestService(t, repo, pub)

	drained, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !drained {
		t.Fatal("expected batch to report drained")
	}
	if len(repo.published) != 1 || repo.published[0] != repo.events[0].ID {
		t.Fatalf("expected event marked published, got %v", repo.published)
	}
	if len(repo.failed) != 0 {
		t.Fatalf("expected no failures, got %v", repo.failed)
	}

	if len(pub.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(pub.messages))
	}
	attrs := pub.messages[0].Attributes
	if attrs["event_id"] != eventID {
		t.Fatalf("expected event_id attribute %q, got %q", eventID, attrs["event_id"])
	}
	if attrs["event_type"] != string(enums.EventOrderCreated) {
		t.Fatalf("unexpected event_type attribute %q", attrs["event_type"])
	}
	if attrs["aggregate_id"] != repo.events[0].AggregateID.String() {
		t.Fatalf("unexpected aggregate_id attribute %q", attrs["aggregate_id"])
	}
}

func TestProcessBatchContinuesAfterFailure(t *testing.T) {
	repo := &fakeRepo{events: []models.OutboxEvent{
		outboxEventFixture(t, uuid.NewString()),
		outboxEventFixture(t, uuid.NewString()),
	}}
	// The first event exhausts its retries; the second succeeds.
	pub := &fakePublisher{results: []fakePublishResult{
		{err: errors.New("transient")},
		{err: errors.New("transient")},
		{err: errors.New("transient")},
		{err: errors.New("transient")},
		{},
	}}
	service := newTestService(t, repo, pub)

	drained, err := service.processBatch(context.Background())
	if err == nil {
		t.Fatal("expected aggregated batch error")
	}
	if !drained {
		t.Fatal("expected batch to report drained")
	}
	if len(repo.failed) != 1 || repo.failed[0] != repo.events[0].ID {
		t.Fatalf("expected first event marked failed, got %v", repo.failed)
	}
	if len(repo.published) != 1 || repo.published[0] != repo.events[1].ID {
		t.Fatalf("expected second event published, got %v", repo.published)
	}
}

func TestProcessBatchEmpty(t *testing.T) {
	service := newTestService(t, &fakeRepo{}, &fakePublisher{})

	drained, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if drained {
		t.Fatal("empty batch must not report drained")
	}
}

func TestProcessBatchFetchError(t *testing.T) {
	service := newTestService(t, &fakeRepo{fetchErr: errors.New("db down")}, &fakePublisher{})

	if _, err := service.processBatch(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
}

func TestProcessBatchMalformedEnvelopeMarksFailed(t *testing.T) {
	event := outboxEventFixture(t, uuid.NewString())
	event.Payload = json.RawMessage(`{not json`)
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{}
	service := newTestService(t, repo, pub)

	_, err := service.processBatch(context.Background())
	if err == nil {
		t.Fatal("expected batch error")
	}
	if len(repo.failed) != 1 {
		t.Fatalf("expected event marked failed, got %v", repo.failed)
	}
	if len(pub.messages) != 0 {
		t.Fatal("malformed envelope must not reach the publisher")
	}
}

func TestNewServiceAppliesDefaults(t *testing.T) {
	service := newTestService(t, &fakeRepo{}, &fakePublisher{})

	if service.batchSize != defaultBatchSize {
		t.Fatalf("expected default batch size, got %d", service.batchSize)
	}
	if service.maxAttempts != defaultMaxAttempts {
		t.Fatalf("expected default max attempts, got %d", service.maxAttempts)
	}
	if service.pollInterval != time.Duration(defaultPollMs)*time.Millisecond {
		t.Fatalf("expected default poll interval, got %s", service.pollInterval)
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	cfg := &config.Config{}
	logg := logger.New(logger.Options{ServiceName: "outbox-publisher-test"})

	cases := []ServiceParams{
		{Logger: logg, Repository: &fakeRepo{}, Publisher: &fakePublisher{}},
		{Config: cfg, Repository: &fakeRepo{}, Publisher: &fakePublisher{}},
		{Config: cfg, Logger: logg, Publisher: &fakePublisher{}},
		{Config: cfg, Logger: logg, Repository: &fakeRepo{}},
	}
	for i, params := range cases {
		if _, err := NewService(params); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}
