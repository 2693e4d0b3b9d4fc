package orderservice

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/abekenza/order-service/internal/domain/orders"
	"github.com/abekenza/order-service/internal/ports"
	"github.com/abekenza/order-service/internal/shared/auth"
	"github.com/abekenza/order-service/internal/shared/httpx"
)

// HTTPHandler adapts HTTP requests to the OrderService. All order routes
// require an authenticated requester; the identity is read once here and then
// passed explicitly into every service call.
type HTTPHandler struct {
	svc ports.OrderService
	log *zap.Logger
}

// NewHTTPHandler wires an HTTP handler around the OrderService.
func NewHTTPHandler(svc ports.OrderService, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, log: log}
}

// Register mounts the order routes behind the identity guard.
func (h *HTTPHandler) Register(r chi.Router) {
	r.Route("/api/order", func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleGetByIDs)
		r.Get("/{id}", h.handleGet)
		r.Get("/status/{status}", h.handleGetByStatus)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
}

// --- Request/Response DTOs (HTTP boundary) ---

type orderLineRequest struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
}

type orderCreateRequest struct {
	Status     string             `json:"status"`
	OrderItems []orderLineRequest `json:"orderItems"`
}

type orderUpdateRequest struct {
	Status     string             `json:"status"`
	OrderItems []orderLineRequest `json:"orderItems"` // nil keeps existing lines
}

type orderLineResponse struct {
	ID       int64           `json:"id"`
	ItemID   int64           `json:"itemId"`
	ItemName string          `json:"itemName"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type userResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Surname   string `json:"surname,omitempty"`
	BirthDate string `json:"birthDate,omitempty"`
	Email     string `json:"email,omitempty"`
}

type orderResponse struct {
	ID           int64               `json:"id"`
	UserID       int64               `json:"userId"`
	Status       string              `json:"status"`
	CreationDate time.Time           `json:"creationDate"`
	OrderItems   []orderLineResponse `json:"orderItems"`
	User         userResponse        `json:"user"`
}

func toOrderResponse(view ports.OrderView) orderResponse {
	lines := make([]orderLineResponse, len(view.Order.Lines))
	for i, line := range view.Order.Lines {
		lines[i] = orderLineResponse{
			ID:       line.ID,
			ItemID:   line.ItemID,
			ItemName: line.ItemName,
			Price:    line.ItemPrice,
			Quantity: line.Quantity,
		}
	}
	return orderResponse{
		ID:           view.Order.ID,
		UserID:       view.Order.UserID,
		Status:       string(view.Order.Status),
		CreationDate: view.Order.CreationDate,
		OrderItems:   lines,
		User:         toUserResponse(view.User),
	}
}

// toUserResponse renders the tagged lookup: degraded profiles carry the fixed
// unavailable marker in place of the name.
func toUserResponse(lookup ports.UserLookup) userResponse {
	if lookup.Degraded {
		return userResponse{ID: lookup.Profile.ID, Name: ports.DegradedUserName}
	}
	return userResponse{
		ID:        lookup.Profile.ID,
		Name:      lookup.Profile.Name,
		Surname:   lookup.Profile.Surname,
		BirthDate: lookup.Profile.BirthDate,
		Email:     lookup.Profile.Email,
	}
}

// --- Handlers ---

func (h *HTTPHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	var req orderCreateRequest
	if err := httpx.DecodeStrict(w, r, &req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	status, lines, problems := validateOrderBody(req.Status, req.OrderItems, true)
	if len(problems) > 0 {
		httpx.WriteValidationError(w, r, problems)
		return
	}

	view, err := h.svc.Create(r.Context(), ports.CreateOrderCommand{
		Status: status,
		Lines:  lines,
		UserID: identity.UserID,
		Token:  identity.Token,
	})
	if err != nil {
		httpx.WriteDomainError(w, r, err)
		return
	}

	httpx.Respond(w, http.StatusCreated, toOrderResponse(view))
}

func (h *HTTPHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	id, ok := orderID(w, r)
	if !ok {
		return
	}

	view, err := h.svc.Get(r.Context(), id, identity.UserID, identity.Token)
	if err != nil {
		httpx.WriteDomainError(w, r, err)
		return
	}

	httpx.Respond(w, http.StatusOK, toOrderResponse(view))
}

func (h *HTTPHandler) handleGetByIDs(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	ids, err := parseIDs(r.URL.Query().Get("ids"))
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	views, err := h.svc.GetByIDs(r.Context(), ids, identity.UserID, identity.Token)
	if err != nil {
		httpx.WriteDomainError(w, r, err)
		return
	}

	httpx.Respond(w, http.StatusOK, toOrderResponses(views))
}

func (h *HTTPHandler) handleGetByStatus(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	views, err := h.svc.GetByStatus(r.Context(), chi.URLParam(r, "status"), identity.UserID, identity.Token)
	if err != nil {
		httpx.WriteDomainError(w, r, err)
		return
	}

	httpx.Respond(w, http.StatusOK, toOrderResponses(views))
}

func (h *HTTPHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var req orderUpdateRequest
	if err := httpx.DecodeStrict(w, r, &req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	status, lines, problems := validateOrderBody(req.Status, req.OrderItems, false)
	if len(problems) > 0 {
		httpx.WriteValidationError(w, r, problems)
		return
	}

	view, err := h.svc.Update(r.Context(), ports.UpdateOrderCommand{
		OrderID: id,
		Status:  status,
		Lines:   lines,
		UserID:  identity.UserID,
		Token:   identity.Token,
	})
	if err != nil {
		httpx.WriteDomainError(w, r, err)
		return
	}

	httpx.Respond(w, http.StatusOK, toOrderResponse(view))
}

func (h *HTTPHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	id, ok := orderID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id, identity.UserID); err != nil {
		httpx.WriteDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

// validateOrderBody checks the shared create/update body constraints and
// converts the wire lines into service inputs. For creation the lines are
// required; for update a nil slice means "keep existing lines".
func validateOrderBody(status string, wireLines []orderLineRequest, linesRequired bool) (orders.OrderStatus, []ports.OrderLineInput, []string) {
	var problems []string

	parsed, err := orders.ParseStatus(status)
	if err != nil {
		if strings.TrimSpace(status) == "" {
			problems = append(problems, "Order status cannot be null")
		} else {
			problems = append(problems, err.Error())
		}
	}

	if linesRequired && len(wireLines) == 0 {
		problems = append(problems, "Order items can't be empty")
	}

	var lines []ports.OrderLineInput
	if wireLines != nil {
		lines = make([]ports.OrderLineInput, len(wireLines))
		for i, line := range wireLines {
			if line.ItemID <= 0 {
				problems = append(problems, "Order item id must be a positive integer")
			}
			if line.Quantity <= 0 {
				problems = append(problems, "Order item quantity must be a positive integer")
			}
			lines[i] = ports.OrderLineInput{ItemID: line.ItemID, Quantity: line.Quantity}
		}
	}

	return parsed, lines, problems
}

func toOrderResponses(views []ports.OrderView) []orderResponse {
	out := make([]orderResponse, len(views))
	for i, view := range views {
		out[i] = toOrderResponse(view)
	}
	return out
}

// orderID parses the {id} path parameter, writing a 400 on failure.
func orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, r, http.StatusBadRequest, "order id must be a positive integer")
		return 0, false
	}
	return id, true
}

// parseIDs splits a comma-separated ids query parameter.
func parseIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errIDsRequired
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			return nil, errIDsInvalid
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var (
	errIDsRequired = errors.New("ids query parameter is required")
	errIDsInvalid  = errors.New("ids must be a comma-separated list of positive integers")
)
