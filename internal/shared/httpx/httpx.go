package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/abekenza/order-service/internal/domain/errs"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// ErrorBody is the canonical JSON error envelope returned by the API.
type ErrorBody struct {
	Timestamp        time.Time `json:"timestamp"`
	Status           int       `json:"status"`
	Error            string    `json:"error"`
	Message          string    `json:"message"`
	Path             string    `json:"path"`
	RequestType      string    `json:"requestType"`
	ValidationErrors []string  `json:"validationErrors,omitempty"`
}

// Respond encodes data as JSON with the given status. A nil body writes "{}".
func Respond(w http.ResponseWriter, status int, data any) {
	// encode to buffer first so we can control status on failure
	buf := []byte("{}")
	if data != nil {
		var err error
		buf, err = json.Marshal(data)
		if err != nil {
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}

// WriteError writes the error envelope for a plain message.
func WriteError(w http.ResponseWriter, r *http.Request, status int, message string) {
	Respond(w, status, ErrorBody{
		Timestamp:   time.Now().UTC(),
		Status:      status,
		Error:       statusLine(status),
		Message:     message,
		Path:        r.URL.Path,
		RequestType: r.Method,
	})
}

// WriteValidationError writes a 400 envelope carrying itemized messages.
func WriteValidationError(w http.ResponseWriter, r *http.Request, problems []string) {
	Respond(w, http.StatusBadRequest, ErrorBody{
		Timestamp:        time.Now().UTC(),
		Status:           http.StatusBadRequest,
		Error:            statusLine(http.StatusBadRequest),
		Message:          "Validation Error",
		Path:             r.URL.Path,
		RequestType:      r.Method,
		ValidationErrors: problems,
	})
}

// WriteDomainError maps a service error onto the envelope. Non-domain errors
// are masked as 500 without leaking internals.
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.StatusOf(err)
	message := "internal server error"

	var domainErr *errs.Error
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}
	WriteError(w, r, status, message)
}

// DecodeStrict reads a JSON body with a size cap, rejecting unknown fields.
func DecodeStrict(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return errors.New("Content-Type must be application/json")
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid JSON: " + err.Error())
	}
	return nil
}

// statusLine renders "404 Not Found" style error tags.
func statusLine(status int) string {
	return strconv.Itoa(status) + " " + http.StatusText(status)
}
