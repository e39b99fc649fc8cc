package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"milestone-escrow/internal/adapter/auth"
	"milestone-escrow/internal/core/domain"
	"milestone-escrow/internal/core/port"
)

var errBadRequest = errors.New("bad request")

type errorBody struct {
	Error string `json:"error"`
}

// decodeJSON reads the request body into v. Unknown fields are rejected and
// an empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (uint64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", errBadRequest, name, raw)
	}
	return id, nil
}

// orPrincipal falls back to the authenticated caller when the body leaves
// the acting identity empty.
func orPrincipal(r *http.Request, who string) string {
	if who != "" {
		return who
	}
	return auth.PrincipalFrom(r.Context())
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCampaignNotFound), errors.Is(err, domain.ErrMilestoneNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrNotCreator), errors.Is(err, domain.ErrNotBacker):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyCompleted), errors.Is(err, domain.ErrAlreadyApproved),
		errors.Is(err, domain.ErrCampaignInactive), errors.Is(err, port.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotApproved), errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidMilestone),
		errors.Is(err, domain.ErrAmountOverflow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError responds with the mapped status. Internal errors are logged and
// their text is not exposed.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error(op+" error",
			slog.String("request_id", w.Header().Get(requestIDHeader)),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		msg = "internal error"
	}
	h.writeJSON(w, status, errorBody{Error: msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// encoding should rarely fail; log and move on
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}
