package worker_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"callnote.app/server/internal/model"
	"callnote.app/server/internal/queue"
	"callnote.app/server/internal/worker"
)

var _ = Describe("Backstop", func() {
	var (
		meetings *mockMeetingStore
		producer *mockProducer
		backstop *worker.Backstop
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		meetings = &mockMeetingStore{}
		producer = &mockProducer{}
		backstop = worker.NewBackstop(meetings, producer, nil, worker.BackstopConfig{
			Interval:   time.Minute,
			StaleAfter: 30 * time.Minute,
			BatchSize:  10,
		})
	})

	It("queues a sync for each stale recording or processing meeting", func() {
		var (
			gotStatuses []model.MeetingStatus
			gotBefore   time.Time
			gotLimit    int32
		)
		meetings.listStaleFn = func(_ context.Context, statuses []model.MeetingStatus, before time.Time, limit int32) ([]model.Meeting, error) {
			gotStatuses, gotBefore, gotLimit = statuses, before, limit
			return []model.Meeting{
				{ID: 1, BotID: "bot-1", Status: model.MeetingStatusRecording},
				{ID: 2, BotID: "bot-2", Status: model.MeetingStatusProcessing},
			}, nil
		}

		n, err := backstop.RunOnce(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(2))
		Expect(gotStatuses).To(ConsistOf(model.MeetingStatusRecording, model.MeetingStatusProcessing))
		Expect(gotBefore).To(BeTemporally("~", time.Now().Add(-30*time.Minute), time.Minute))
		Expect(gotLimit).To(Equal(int32(10)))

		Expect(producer.tasks).To(HaveLen(2))
		Expect(producer.tasks[0].TaskType).To(Equal(queue.TaskTypeMeetingSync))
		Expect(producer.tasks[0].BotID).To(Equal("bot-1"))
		Expect(producer.tasks[1].MeetingID).To(HaveValue(Equal(int64(2))))
		Expect(meetings.touched).To(ConsistOf(int64(1), int64(2)))
	})

	It("skips meetings it cannot enqueue", func() {
		meetings.listStaleFn = func(context.Context, []model.MeetingStatus, time.Time, int32) ([]model.Meeting, error) {
			return []model.Meeting{{ID: 1, BotID: "bot-1"}, {ID: 2, BotID: "bot-2"}}, nil
		}
		producer.enqueueFn = func(_ context.Context, task queue.Task) error {
			if task.BotID == "bot-1" {
				return errors.New("redis down")
			}
			return nil
		}

		n, err := backstop.RunOnce(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(1))
		Expect(meetings.touched).To(ConsistOf(int64(2)))
	})

	It("returns list failures", func() {
		meetings.listStaleFn = func(context.Context, []model.MeetingStatus, time.Time, int32) ([]model.Meeting, error) {
			return nil, errors.New("db down")
		}

		_, err := backstop.RunOnce(ctx)
		Expect(err).To(MatchError(ContainSubstring("listing stale meetings")))
	})
})
