package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"callnote.app/server/internal/model"
	"callnote.app/server/internal/service"
	"callnote.app/server/internal/store"
)

var _ = Describe("MeetingService", func() {
	var (
		ctx      context.Context
		meetings *mockMeetingStore
		intel    *mockIntelligenceStore
		svc      service.MeetingService
	)

	BeforeEach(func() {
		ctx = context.Background()
		meetings = newMockMeetingStore()
		intel = &mockIntelligenceStore{}
		svc = service.NewMeetingService(meetings, intel, nil)
	})

	Describe("List", func() {
		It("attaches participant names, preferring renamed speakers", func() {
			var gotLimit int32
			meetings.listFn = func(_ context.Context, _ *model.MeetingStatus, limit int32) ([]model.Meeting, error) {
				gotLimit = limit
				return []model.Meeting{{ID: 1, BotID: "b1"}, {ID: 2, BotID: "b2"}}, nil
			}
			renamed := "Budi Santoso"
			intel.statsForFn = func(_ context.Context, ids []int64) (map[int64][]model.SpeakerStat, error) {
				Expect(ids).To(Equal([]int64{1, 2}))
				return map[int64][]model.SpeakerStat{
					1: {{SpeakerLabel: "Speaker 0", SpeakerName: &renamed}, {SpeakerLabel: "Siti"}},
				}, nil
			}

			summaries, err := svc.List(ctx, service.ListMeetingsParams{})

			Expect(err).NotTo(HaveOccurred())
			Expect(gotLimit).To(Equal(int32(service.DefaultMeetingListLimit)))
			Expect(summaries).To(HaveLen(2))
			Expect(summaries[0].Participants).To(Equal([]string{"Budi Santoso", "Siti"}))
			Expect(summaries[1].Participants).To(BeEmpty())
		})

		It("caps the limit", func() {
			var gotLimit int32
			meetings.listFn = func(_ context.Context, _ *model.MeetingStatus, limit int32) ([]model.Meeting, error) {
				gotLimit = limit
				return nil, nil
			}

			summaries, err := svc.List(ctx, service.ListMeetingsParams{Limit: 5000})

			Expect(err).NotTo(HaveOccurred())
			Expect(summaries).To(BeEmpty())
			Expect(gotLimit).To(Equal(int32(service.MaxMeetingListLimit)))
		})

		It("rejects an unknown status filter", func() {
			status := model.MeetingStatus("archived")
			_, err := svc.List(ctx, service.ListMeetingsParams{Status: &status})
			Expect(err).To(MatchError(service.ErrInvalidInput))
		})
	})

	Describe("Get", func() {
		It("returns empty collections for a meeting without intelligence", func() {
			meetings.put(&model.Meeting{ID: 5, BotID: "b5"})

			details, err := svc.Get(ctx, 5)

			Expect(err).NotTo(HaveOccurred())
			Expect(details.ID).To(Equal(int64(5)))
			Expect(details.Segments).NotTo(BeNil())
			Expect(details.ActionItems).NotTo(BeNil())
			Expect(details.SpeakerStats).NotTo(BeNil())
		})

		It("returns ErrMeetingNotFound", func() {
			_, err := svc.Get(ctx, 404)
			Expect(err).To(MatchError(service.ErrMeetingNotFound))
		})
	})

	Describe("Update", func() {
		It("trims the title", func() {
			meetings.put(&model.Meeting{ID: 5, BotID: "b5"})
			title := "  Weekly sync  "
			started := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

			updated, err := svc.Update(ctx, 5, service.UpdateMeetingParams{Title: &title, StartedAt: &started})

			Expect(err).NotTo(HaveOccurred())
			Expect(*updated.Title).To(Equal("Weekly sync"))
			Expect(*updated.StartedAt).To(Equal(started))
		})

		It("rejects a blank title", func() {
			blank := "   "
			_, err := svc.Update(ctx, 5, service.UpdateMeetingParams{Title: &blank})
			Expect(err).To(MatchError(service.ErrInvalidInput))
		})
	})

	Describe("Delete", func() {
		It("maps a missing row to ErrMeetingNotFound", func() {
			Expect(svc.Delete(ctx, 404)).To(MatchError(service.ErrMeetingNotFound))
		})
	})

	Describe("action items and speakers", func() {
		It("validates priority before writing", func() {
			priority := model.Priority("Urgent")
			_, err := svc.UpdateActionItem(ctx, 1, store.ActionItemUpdate{Priority: &priority})
			Expect(err).To(MatchError(service.ErrInvalidInput))
		})

		It("passes a valid update through", func() {
			done := true
			intel.updateItemFn = func(_ context.Context, id int64, update store.ActionItemUpdate) (*model.ActionItem, error) {
				return &model.ActionItem{ID: id, Task: "Ship", IsCompleted: *update.IsCompleted}, nil
			}

			item, err := svc.UpdateActionItem(ctx, 9, store.ActionItemUpdate{IsCompleted: &done})

			Expect(err).NotTo(HaveOccurred())
			Expect(item.IsCompleted).To(BeTrue())
		})

		It("maps missing action items and speakers", func() {
			Expect(svc.DeleteActionItem(ctx, 1)).To(MatchError(service.ErrActionItemNotFound))

			_, err := svc.RenameSpeaker(ctx, 1, "Budi")
			Expect(err).To(MatchError(service.ErrSpeakerStatNotFound))
		})

		It("rejects an empty speaker name", func() {
			_, err := svc.RenameSpeaker(ctx, 1, " ")
			Expect(err).To(MatchError(service.ErrInvalidInput))
		})
	})
})
