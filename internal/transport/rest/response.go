package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// Reason codes returned alongside 4xx linking errors.
const (
	ReasonAlreadyLinked         = "RECIPE_USER_ID_ALREADY_LINKED_WITH_ANOTHER_PRIMARY_USER_ID_ERROR"
	ReasonAccountInfoAssociated = "ACCOUNT_INFO_ALREADY_ASSOCIATED_WITH_ANOTHER_PRIMARY_USER_ID_ERROR"
	ReasonNotPrimary            = "INPUT_USER_IS_NOT_A_PRIMARY_USER"
)

type fieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error         string               `json:"error"`
	Reason        string               `json:"reason,omitempty"`
	PrimaryUserID string               `json:"primaryUserId,omitempty"`
	Fields        []fieldErrorResponse `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON reads a JSON request body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// handleError maps a service error onto an HTTP response.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *domain.ValidationError
		linked     *domain.AlreadyLinkedError
		associated *domain.AccountInfoAssociatedError
	)

	switch {
	case errors.As(err, &validation):
		resp := errorResponse{Error: "validation error"}
		for _, fe := range validation.Errors {
			resp.Fields = append(resp.Fields, fieldErrorResponse{Field: fe.Field, Message: fe.Message})
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &linked):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:         "recipe user already linked",
			Reason:        ReasonAlreadyLinked,
			PrimaryUserID: linked.OwnerID,
		})
	case errors.As(err, &associated):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:         "account info already associated with " + string(associated.Axis),
			Reason:        ReasonAccountInfoAssociated,
			PrimaryUserID: associated.OwnerID,
		})
	case errors.Is(err, domain.ErrNotPrimary):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "input user is not a primary user",
			Reason: ReasonNotPrimary,
		})
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict, retry")
	case errors.Is(err, domain.ErrProviderUnavailable):
		log.WarnContext(r.Context(), "identity provider unavailable", slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, "identity provider unavailable")
	case errors.Is(err, domain.ErrStoreUnavailable):
		log.WarnContext(r.Context(), "store unavailable", slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
