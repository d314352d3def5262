package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	chatModel "github.com/brightcart/support-chat/backend/internal/model/chat"
	aiService "github.com/brightcart/support-chat/backend/internal/service/ai"
	chatService "github.com/brightcart/support-chat/backend/internal/service/chat"
	"github.com/brightcart/support-chat/backend/pkg/utils"
)

// ReplyGenerator produces one reply for a new message and its prior turns.
// Satisfied by the ai service; tests substitute a scripted fake.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, history []chatModel.Turn, message string) (string, error)
}

// Handler serves the chat widget endpoints.
type Handler struct {
	chatSvc   *chatService.Service
	generator ReplyGenerator
}

// New creates the chat handler. generator may be nil when model credentials
// are absent; submissions then fail as a configuration error.
func New(chatSvc *chatService.Service, generator ReplyGenerator) *Handler {
	return &Handler{
		chatSvc:   chatSvc,
		generator: generator,
	}
}

// RegisterRoutes mounts the chat endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/messages", h.handleSendMessage)
	r.Get("/chat/{sessionID}/history", h.handleHistory)
}

type sendMessageRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

func (req sendMessageRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.SessionID, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&req.Message, validation.Required, validation.RuneLength(1, 5000)),
	)
}

type sendMessageResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"sessionId"`
}

type historyResponse struct {
	Data []chatModel.TranscriptEntry `json:"data"`
}

// handleSendMessage runs the full exchange: load prompt context, generate,
// persist, respond. A turn is written only after generation succeeds.
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := payload.Validate(); err != nil {
		utils.RespondJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": err,
		})
		return
	}

	if h.generator == nil {
		log.Printf("[chat] message rejected: no reply generator configured")
		utils.RespondError(w, http.StatusInternalServerError, "service configuration error")
		return
	}

	// The generator call and the persistence write run to completion even if
	// the client disconnects mid-request; the turn is kept for history.
	// Timeouts belong to the HTTP client/server configuration, not here.
	ctx := context.WithoutCancel(r.Context())

	history, err := h.chatSvc.RecentTurns(ctx, payload.SessionID, chatService.PromptHistoryLimit)
	if err != nil {
		log.Printf("[chat] failed to load prompt context for session=%s: %v", payload.SessionID, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	reply, err := h.generator.GenerateReply(ctx, history, payload.Message)
	if err != nil {
		h.respondGenerationError(w, payload.SessionID, err)
		return
	}

	if _, err := h.chatSvc.AppendTurn(ctx, payload.SessionID, payload.Message, reply); err != nil {
		log.Printf("[chat] failed to persist turn for session=%s: %v", payload.SessionID, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to save conversation")
		return
	}

	utils.RespondJSON(w, http.StatusOK, sendMessageResponse{
		Reply:     reply,
		SessionID: payload.SessionID,
	})
}

// handleHistory returns the complete renderable transcript for a session.
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := validation.Validate(sessionID, validation.Required, validation.RuneLength(1, 200)); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	entries, err := h.chatSvc.FullHistory(r.Context(), sessionID)
	if err != nil {
		log.Printf("[chat] failed to load history for session=%s: %v", sessionID, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	utils.RespondJSON(w, http.StatusOK, historyResponse{Data: entries})
}

// respondGenerationError maps generator failures to status codes. Provider
// detail is logged server-side only; clients get a generic message.
func (h *Handler) respondGenerationError(w http.ResponseWriter, sessionID string, err error) {
	var upstream *aiService.UpstreamError
	switch {
	case errors.As(err, &upstream):
		log.Printf("[chat] reply generation failed for session=%s (%s): %v", sessionID, upstream.Category, err)
		switch upstream.Category {
		case aiService.CategoryAuth:
			utils.RespondError(w, http.StatusInternalServerError, "service configuration error")
		case aiService.CategoryRateLimit:
			utils.RespondError(w, http.StatusServiceUnavailable, "assistant is temporarily unavailable, please retry shortly")
		case aiService.CategoryTimeout:
			utils.RespondError(w, http.StatusGatewayTimeout, "assistant took too long to respond")
		default:
			utils.RespondError(w, http.StatusBadGateway, "failed to generate a reply")
		}
	case errors.Is(err, aiService.ErrEmptyGeneration):
		log.Printf("[chat] empty generation for session=%s", sessionID)
		utils.RespondError(w, http.StatusBadGateway, "failed to generate a reply")
	default:
		log.Printf("[chat] reply generation failed for session=%s: %v", sessionID, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to process message")
	}
}
