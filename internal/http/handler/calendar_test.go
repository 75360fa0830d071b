package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"callnote.app/server/internal/http/handler"
	"callnote.app/server/internal/provider/meetingbaas"
	"callnote.app/server/internal/service"
)

var _ = Describe("CalendarHandler", func() {
	var (
		router   *gin.Engine
		calendar *mockCalendar
	)

	BeforeEach(func() {
		router = gin.New()
		calendar = &mockCalendar{}
		h := handler.NewCalendarHandler(calendar)
		router.GET("/calendar/:calendar_id/events", h.Events)
		router.POST("/calendar/auto-join", h.AutoJoin)
	})

	It("lists upcoming events for the default window", func() {
		var gotDays int
		start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		calendar.upcomingFn = func(_ context.Context, calendarID string, days int) ([]meetingbaas.CalendarEvent, error) {
			gotDays = days
			return []meetingbaas.CalendarEvent{{ID: "e1", Summary: "Planning", StartTime: start, EndTime: start.Add(time.Hour)}}, nil
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/calendar/cal-1/events", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(gotDays).To(Equal(service.DefaultUpcomingDays))
		var resp struct {
			Events []map[string]any `json:"events"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Events).To(HaveLen(1))
		Expect(resp.Events[0]["title"]).To(Equal("Planning"))
	})

	It("rejects an out-of-range days value", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/calendar/cal-1/events?days=0", nil))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("enqueues an auto-join refresh", func() {
		req := httptest.NewRequest(http.MethodPost, "/calendar/auto-join", bytes.NewBufferString(`{"calendar_id":"cal-1"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusAccepted))
		Expect(calendar.scheduled).To(ConsistOf("cal-1"))
	})

	It("requires calendar_id", func() {
		req := httptest.NewRequest(http.MethodPost, "/calendar/auto-join", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(calendar.scheduled).To(BeEmpty())
	})
})
