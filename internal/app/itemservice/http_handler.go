package itemservice

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/abekenza/order-service/internal/domain/items"
	"github.com/abekenza/order-service/internal/ports"
	"github.com/abekenza/order-service/internal/shared/httpx"
)

// HTTPHandler adapts HTTP requests to the ItemService.
type HTTPHandler struct {
	svc ports.ItemService
	log *zap.Logger
}

// NewHTTPHandler wires an HTTP handler around the ItemService.
func NewHTTPHandler(svc ports.ItemService, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, log: log}
}

// Register mounts the item routes.
func (h *HTTPHandler) Register(r chi.Router) {
	r.Route("/api/item", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
}

// --- Request/Response DTOs (HTTP boundary) ---

type itemRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type itemResponse struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func toItemResponse(item *items.Item) itemResponse {
	return itemResponse{ID: item.ID, Name: item.Name, Price: item.Price}
}

// --- Handlers ---

func (h *HTTPHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := httpx.DecodeStrict(w, r, &req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if problems := items.ValidateInput(req.Name, req.Price); len(problems) > 0 {
		httpx.WriteValidationError(w, r, problems)
		return
	}

	item, err := h.svc.Create(r.Context(), ports.ItemInput{Name: req.Name, Price: req.Price})
	if err != nil {
		httpx.WriteDomainError(w, r, err)
		return
	}

	httpx.Respond(w, http.StatusCreated, toItemResponse(item))
}

func (h *HTTPHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	item, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.WriteDomainError(w, r, err)
		return
	}

	httpx.Respond(w, http.StatusOK, toItemResponse(item))
}

func (h *HTTPHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	var req itemRequest
	if err := httpx.DecodeStrict(w, r, &req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if problems := items.ValidateInput(req.Name, req.Price); len(problems) > 0 {
		httpx.WriteValidationError(w, r, problems)
		return
	}

	item, err := h.svc.Update(r.Context(), id, ports.ItemInput{Name: req.Name, Price: req.Price})
	if err != nil {
		httpx.WriteDomainError(w, r, err)
		return
	}

	httpx.Respond(w, http.StatusOK, toItemResponse(item))
}

func (h *HTTPHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.WriteDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// itemID parses the {id} path parameter, writing a 400 on failure.
func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, r, http.StatusBadRequest, "item id must be a positive integer")
		return 0, false
	}
	return id, true
}
