package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"callnote.app/server/internal/http/handler"
	"callnote.app/server/internal/model"
	"callnote.app/server/internal/service"
)

var _ = Describe("BotHandler", func() {
	var (
		router *gin.Engine
		bots   *mockBotService
	)

	BeforeEach(func() {
		router = gin.New()
		bots = &mockBotService{}
		h := handler.NewBotHandler(bots)
		router.POST("/bots", h.Spawn)
		router.GET("/bots", h.List)
	})

	It("spawns a bot", func() {
		var got service.SpawnBotParams
		bots.spawnFn = func(_ context.Context, params service.SpawnBotParams) (*service.SpawnBotResult, error) {
			got = params
			return &service.SpawnBotResult{BotID: "bot-9", Meeting: &model.Meeting{ID: 99}}, nil
		}

		req := httptest.NewRequest(http.MethodPost, "/bots",
			bytes.NewBufferString(`{"meeting_url":"https://meet.google.com/abc-defg-hij","title":"Standup"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(got.MeetingURL).To(Equal("https://meet.google.com/abc-defg-hij"))
		Expect(got.Title).To(HaveValue(Equal("Standup")))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["bot_id"]).To(Equal("bot-9"))
		Expect(resp["meeting_id"]).To(Equal("99"))
	})

	It("requires meeting_url", func() {
		req := httptest.NewRequest(http.MethodPost, "/bots", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("meeting_url is required"))
	})

	It("proxies the provider bot list", func() {
		bots.listFn = func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(`{"data":[{"bot_id":"bot-1"}]}`), nil
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bots", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"data":[{"bot_id":"bot-1"}]}`))
	})
})
