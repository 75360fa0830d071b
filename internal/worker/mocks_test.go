package worker_test

import (
	"context"
	"sync"
	"time"

	"callnote.app/server/internal/domain"
	"callnote.app/server/internal/mapper"
	"callnote.app/server/internal/model"
	"callnote.app/server/internal/provider/meetingbaas"
	"callnote.app/server/internal/queue"
	"callnote.app/server/internal/service"
)

type mockConsumer struct {
	mu       sync.Mutex
	batches  [][]queue.Message
	readErr  error
	acked    []string
	requeued []string
	dlq      []string
}

func (m *mockConsumer) Read(context.Context) ([]queue.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	if len(m.batches) == 0 {
		return nil, nil
	}
	batch := m.batches[0]
	m.batches = m.batches[1:]
	return batch, nil
}

func (m *mockConsumer) Ack(_ context.Context, msg queue.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked = append(m.acked, msg.ID)
	return nil
}

func (m *mockConsumer) Requeue(_ context.Context, msg queue.Message, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requeued = append(m.requeued, msg.ID)
	return nil
}

func (m *mockConsumer) SendDLQ(_ context.Context, msg queue.Message, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dlq = append(m.dlq, msg.ID)
	return nil
}

func (m *mockConsumer) ackedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.acked...)
}

type mockTaskProcessor struct {
	processFn func(ctx context.Context, msg queue.Message) error
}

func (m *mockTaskProcessor) Process(ctx context.Context, msg queue.Message) error {
	if m.processFn != nil {
		return m.processFn(ctx, msg)
	}
	return nil
}

type mockEnrichment struct {
	enrichFn func(ctx context.Context, botID string) (*service.EnrichmentResult, error)
}

func (m *mockEnrichment) Enrich(ctx context.Context, botID string) (*service.EnrichmentResult, error) {
	if m.enrichFn != nil {
		return m.enrichFn(ctx, botID)
	}
	return &service.EnrichmentResult{}, nil
}

func (m *mockEnrichment) Reprocess(ctx context.Context, botID string) (*service.EnrichmentResult, error) {
	return m.Enrich(ctx, botID)
}

type mockSync struct {
	syncByBotFn func(ctx context.Context, botID string) (*service.SyncResult, error)
}

func (m *mockSync) Sync(context.Context, int64) (*service.SyncResult, error) {
	return &service.SyncResult{}, nil
}

func (m *mockSync) SyncByBotID(ctx context.Context, botID string) (*service.SyncResult, error) {
	if m.syncByBotFn != nil {
		return m.syncByBotFn(ctx, botID)
	}
	return &service.SyncResult{}, nil
}

type mockCalendar struct {
	autoJoinFn       func(ctx context.Context, calendarID string) (*service.AutoJoinResult, error)
	scheduleSeriesFn func(ctx context.Context, calendarID, seriesID string) error
}

func (m *mockCalendar) Schedule(context.Context, string, *mapper.CalendarEvent) error {
	return nil
}

func (m *mockCalendar) AutoJoin(ctx context.Context, calendarID string) (*service.AutoJoinResult, error) {
	if m.autoJoinFn != nil {
		return m.autoJoinFn(ctx, calendarID)
	}
	return &service.AutoJoinResult{CalendarID: calendarID}, nil
}

func (m *mockCalendar) ScheduleSeries(ctx context.Context, calendarID, seriesID string) error {
	if m.scheduleSeriesFn != nil {
		return m.scheduleSeriesFn(ctx, calendarID, seriesID)
	}
	return nil
}

func (m *mockCalendar) UpcomingEvents(context.Context, string, int) ([]meetingbaas.CalendarEvent, error) {
	return nil, nil
}

type mockProducer struct {
	tasks     []queue.Task
	enqueueFn func(ctx context.Context, task queue.Task) error
}

func (m *mockProducer) Enqueue(ctx context.Context, task queue.Task) error {
	if m.enqueueFn != nil {
		if err := m.enqueueFn(ctx, task); err != nil {
			return err
		}
	}
	m.tasks = append(m.tasks, task)
	return nil
}

func (m *mockProducer) Close() error { return nil }

// mockMeetingStore implements only what the backstop reads and writes.
type mockMeetingStore struct {
	listStaleFn func(ctx context.Context, statuses []model.MeetingStatus, updatedBefore time.Time, limit int32) ([]model.Meeting, error)
	touched     []int64
}

func (m *mockMeetingStore) ListStale(ctx context.Context, statuses []model.MeetingStatus, updatedBefore time.Time, limit int32) ([]model.Meeting, error) {
	if m.listStaleFn != nil {
		return m.listStaleFn(ctx, statuses, updatedBefore, limit)
	}
	return nil, nil
}

func (m *mockMeetingStore) Touch(_ context.Context, id int64) error {
	m.touched = append(m.touched, id)
	return nil
}

func (m *mockMeetingStore) Ensure(context.Context, int64, string, *string) error { return nil }
func (m *mockMeetingStore) GetByID(context.Context, int64) (*model.Meeting, error) { return nil, nil }
func (m *mockMeetingStore) GetByBotID(context.Context, string) (*model.Meeting, error) {
	return nil, nil
}
func (m *mockMeetingStore) GetByBotIDForUpdate(context.Context, string) (*model.Meeting, error) {
	return nil, nil
}
func (m *mockMeetingStore) ApplyTransition(context.Context, string, domain.Transition) (*model.Meeting, error) {
	return nil, nil
}
func (m *mockMeetingStore) List(context.Context, *model.MeetingStatus, int32) ([]model.Meeting, error) {
	return nil, nil
}
func (m *mockMeetingStore) UpdateDetails(context.Context, int64, *string, *time.Time) (*model.Meeting, error) {
	return nil, nil
}
func (m *mockMeetingStore) Delete(context.Context, int64) error { return nil }
func (m *mockMeetingStore) ClaimEnrichment(context.Context, string, bool, time.Time) (bool, *model.Meeting, error) {
	return false, nil, nil
}
func (m *mockMeetingStore) CompleteEnrichment(context.Context, int64, *model.Intelligence, int32) error {
	return nil
}
func (m *mockMeetingStore) FailEnrichment(context.Context, int64) error { return nil }
