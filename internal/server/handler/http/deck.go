package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/atinyakov/FlashCards/internal/metrics"
	"github.com/atinyakov/FlashCards/internal/models"
	"github.com/atinyakov/FlashCards/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// DeckService defines the topic and card operations required by the
// handlers.
type DeckService interface {
	CreateTopic(ctx context.Context, name string) (models.Topic, error)
	ListTopics(ctx context.Context) ([]models.Topic, error)
	CreateCard(ctx context.Context, topic, question, answer string) (models.Card, error)
	ListCards(ctx context.Context, topic string) ([]models.Card, error)
}

// DeckHandler handles the topic and card endpoints.
type DeckHandler struct {
	DeckService DeckService
	Metrics     *metrics.Metrics
	Log         *zap.Logger
}

// TopicRequest is the JSON payload of POST /api/topics.
type TopicRequest struct {
	Name string `json:"name"`
}

// CardRequest is the JSON payload of POST /api/cards/{topic}.
type CardRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ListTopics handles GET /api/topics.
func (h *DeckHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.DeckService.ListTopics(r.Context())
	if err != nil {
		h.fail(w, r, "list topics", err)
		return
	}
	writeJSON(w, http.StatusOK, topics)
}

// CreateTopic handles POST /api/topics.
// A body that does not decode is treated like one without a name.
func (h *DeckHandler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var req TopicRequest
	_ = decodeBody(r, &req)

	topic, err := h.DeckService.CreateTopic(r.Context(), req.Name)
	if err != nil {
		h.fail(w, r, "create topic", err)
		return
	}
	h.Metrics.TopicCreated()
	writeJSON(w, http.StatusCreated, topic)
}

// topicParam returns the decoded {topic} segment. chi matches on the raw
// path whenever the client's escaping differs from the canonical form, and
// then the segment still carries its escapes.
func topicParam(r *http.Request) (string, error) {
	topic := chi.URLParam(r, "topic")
	if r.URL.RawPath == "" {
		return topic, nil
	}
	return url.PathUnescape(topic)
}

// ListCards handles GET /api/cards/{topic}.
func (h *DeckHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	topic, err := topicParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	cards, err := h.DeckService.ListCards(r.Context(), topic)
	if err != nil {
		h.fail(w, r, "list cards", err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// CreateCard handles POST /api/cards/{topic}. The topic is created on
// first use.
func (h *DeckHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	topic, err := topicParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	var req CardRequest
	_ = decodeBody(r, &req)

	card, err := h.DeckService.CreateCard(r.Context(), topic, req.Question, req.Answer)
	if err != nil {
		h.fail(w, r, "create card", err)
		return
	}
	h.Metrics.CardCreated()
	writeJSON(w, http.StatusCreated, card)
}

// fail maps a service error onto a response. Validation and conflict errors
// carry their own message; anything else is logged and hidden behind 500.
func (h *DeckHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	var fe *service.FieldError
	switch {
	case errors.As(err, &fe):
		writeError(w, http.StatusBadRequest, fe.Message)
	case errors.Is(err, service.ErrAlreadyExists):
		writeError(w, http.StatusConflict, msgExists)
	default:
		h.Log.Error(op+" failed",
			zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, msgInternalErr)
	}
}
