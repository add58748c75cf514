// Package endpoint exposes the slot manager API over HTTP for an external
// front end. It is an adapter only; the manager itself speaks no protocol.
package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/viant/gpuslot/model/slot"
	"github.com/viant/gpuslot/service/supervisor"
)

// maxRequestSize bounds submission body
const maxRequestSize = 1 << 20

// Manager represents slot manager operations used by the handler
type Manager interface {
	SubmitTask(ctx context.Context, slotID int, request *slot.TaskRequest) (*slot.Acknowledgement, error)
	Statuses() map[int]string
	Log(slotID int) string
	Reset(slotID int) error
}

// SubmitResponse represents submission result
type SubmitResponse struct {
	OK      bool                  `json:"ok"`
	Message string                `json:"message"`
	Task    *slot.Acknowledgement `json:"task,omitempty"`
}

// Handler serves manager API
type Handler struct {
	manager Manager
	logger  *slog.Logger
}

// New creates a handler
func New(manager Manager, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{manager: manager, logger: logger}
}

// Router returns HTTP routes
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})
	r.Route("/api/slots", func(r chi.Router) {
		r.Get("/", h.statuses)
		r.Get("/{slotID}/log", h.log)
		r.Post("/{slotID}/tasks", h.submit)
		r.Post("/{slotID}/reset", h.reset)
	})
	return r
}

func (h *Handler) statuses(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.manager.Statuses())
}

func (h *Handler) log(w http.ResponseWriter, r *http.Request) {
	slotID, ok := h.slotID(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, h.manager.Log(slotID))
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	slotID, ok := h.slotID(w, r)
	if !ok {
		return
	}
	request := &slot.TaskRequest{}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestSize)).Decode(request); err != nil {
		h.writeJSON(w, http.StatusBadRequest, &SubmitResponse{Message: "invalid request body: " + err.Error()})
		return
	}
	ack, err := h.manager.SubmitTask(r.Context(), slotID, request)
	if err != nil {
		h.writeJSON(w, statusCode(err), &SubmitResponse{Message: err.Error()})
		return
	}
	h.writeJSON(w, http.StatusAccepted, &SubmitResponse{OK: true, Message: ack.Message(), Task: ack})
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	slotID, ok := h.slotID(w, r)
	if !ok {
		return
	}
	if err := h.manager.Reset(slotID); err != nil {
		h.writeJSON(w, statusCode(err), &SubmitResponse{Message: err.Error()})
		return
	}
	h.writeJSON(w, http.StatusOK, &SubmitResponse{OK: true, Message: "GPU " + strconv.Itoa(slotID) + " reset"})
}

func (h *Handler) slotID(w http.ResponseWriter, r *http.Request) (int, bool) {
	param := chi.URLParam(r, "slotID")
	slotID, err := strconv.Atoi(param)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, &SubmitResponse{Message: "invalid GPU ID: " + param})
		return 0, false
	}
	return slotID, true
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, supervisor.ErrUnknownSlot):
		return http.StatusNotFound
	case errors.Is(err, supervisor.ErrSlotBusy):
		return http.StatusConflict
	case errors.Is(err, supervisor.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to write response", "error", err)
	}
}
