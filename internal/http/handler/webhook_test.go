package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"callnote.app/server/internal/http/handler"
	"callnote.app/server/internal/model"
	"callnote.app/server/internal/service"
)

var _ = Describe("WebhookHandler", func() {
	var (
		router     *gin.Engine
		dispatcher *mockDispatcher
	)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/meetingbaas", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		router = gin.New()
		dispatcher = &mockDispatcher{}
		h := handler.NewWebhookHandler(dispatcher, "X-Trace-Id")
		router.POST("/webhooks/meetingbaas", h.MeetingBaas)
	})

	It("acknowledges a processed lifecycle notification", func() {
		dispatcher.dispatchFn = func(_ context.Context, _ service.Notification) (*service.DispatchResult, error) {
			return &service.DispatchResult{Meeting: &model.Meeting{ID: 1, Status: model.MeetingStatusRecording}}, nil
		}

		w := post(`{"event":"bot.status_change","data":{"bot_id":"bot-1","status":{"code":"in_call_recording"}}}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"received":true}`))
		Expect(dispatcher.received).To(HaveLen(1))
		Expect(dispatcher.received[0].Kind).To(Equal("bot.status_change"))
		Expect(dispatcher.received[0].Source).To(Equal(model.NotificationSourceWebhook))
		Expect(string(dispatcher.received[0].Data)).To(ContainSubstring(`"bot-1"`))
	})

	It("reads the kind field when event is absent", func() {
		post(`{"kind":"bot.completed","data":{"bot_id":"bot-1"}}`)

		Expect(dispatcher.received).To(HaveLen(1))
		Expect(dispatcher.received[0].Kind).To(Equal("bot.completed"))
	})

	It("returns 200 for unknown kinds", func() {
		dispatcher.dispatchFn = func(_ context.Context, _ service.Notification) (*service.DispatchResult, error) {
			return &service.DispatchResult{Ignored: true}, nil
		}

		w := post(`{"event":"something.new","data":{}}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["received"]).To(BeTrue())
		Expect(resp["ignored"]).To(BeTrue())
	})

	It("returns 200 for duplicates", func() {
		dispatcher.dispatchFn = func(_ context.Context, _ service.Notification) (*service.DispatchResult, error) {
			return &service.DispatchResult{Duplicate: true}, nil
		}

		w := post(`{"event":"bot.done","data":{"bot_id":"bot-1"}}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"received":true,"duplicate":true}`))
	})

	It("returns 400 for malformed JSON without dispatching", func() {
		w := post(`{"event":`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(dispatcher.received).To(BeEmpty())
	})

	It("returns 400 when the dispatcher rejects the payload", func() {
		dispatcher.dispatchFn = func(_ context.Context, _ service.Notification) (*service.DispatchResult, error) {
			return nil, fmt.Errorf("%w: missing bot_id", service.ErrMalformedNotification)
		}

		w := post(`{"event":"bot.done","data":{}}`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 500 with details on persistence failure", func() {
		dispatcher.dispatchFn = func(_ context.Context, _ service.Notification) (*service.DispatchResult, error) {
			return nil, errors.New("connection refused")
		}

		w := post(`{"event":"bot.done","data":{"bot_id":"bot-1"}}`)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		var resp map[string]string
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["error"]).To(Equal("Webhook processing failed"))
		Expect(resp["details"]).To(ContainSubstring("connection refused"))
	})
})
