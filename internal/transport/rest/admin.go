package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/accountlinking/internal/domain"
	"github.com/heartmarshall/accountlinking/internal/service/accountlinking"
)

type linkingService interface {
	GetUser(ctx context.Context, recipeUserID string) (*domain.User, error)
	ListUsersByAccountInfo(ctx context.Context, info domain.AccountInfo, union bool) ([]domain.User, error)
	CanCreatePrimaryUser(ctx context.Context, recipeUserID string) (accountlinking.CreatePrimaryResult, error)
	CreatePrimaryUser(ctx context.Context, recipeUserID string) (accountlinking.CreatePrimaryResult, error)
	CanLinkAccounts(ctx context.Context, secondaryID, primaryID string) (accountlinking.LinkResult, error)
	LinkAccounts(ctx context.Context, secondaryID, primaryID string) (accountlinking.LinkResult, error)
	UnlinkAccount(ctx context.Context, recipeUserID string) (accountlinking.UnlinkResult, error)
	DeleteUser(ctx context.Context, recipeUserID string, cascade bool) error
	CreatePrimaryUserIDOrLinkAccounts(ctx context.Context, recipeUserID string) (string, error)
	FetchAccountToLink(ctx context.Context, recipeUserID string) (string, error)
	StoreAccountToLink(ctx context.Context, recipeUserID, primaryID string) error
	IsSignUpAllowed(ctx context.Context, recipeID domain.RecipeID, info domain.AccountInfo, isVerified bool) (bool, error)
	IsSignInAllowed(ctx context.Context, recipeUserID string) (bool, error)
	IsEmailChangeAllowed(ctx context.Context, recipeUserID, newEmail string, isVerified bool) (bool, error)
	VerifyEmailForRecipeUserIfLinkedAccountsAreVerified(ctx context.Context, recipeUserID string) error
}

// AdminHandler serves the account-linking admin REST endpoints.
type AdminHandler struct {
	linking linkingService
	log     *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(linking linkingService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		linking: linking,
		log:     logger.With("handler", "admin"),
	}
}

type linkRequest struct {
	PrimaryUserID string `json:"primaryUserId"`
}

type signUpAllowedRequest struct {
	RecipeID   string `json:"recipeId"`
	IsVerified bool   `json:"isVerified"`
	accountInfoDTO
}

type emailChangeRequest struct {
	NewEmail   string `json:"newEmail"`
	IsVerified bool   `json:"isVerified"`
}

type primaryResponse struct {
	User              *userResponse `json:"user"`
	WasAlreadyPrimary bool          `json:"wasAlreadyPrimary"`
}

type linkResponse struct {
	User                  *userResponse `json:"user"`
	AccountsAlreadyLinked bool          `json:"accountsAlreadyLinked"`
	SessionsRevoked       bool          `json:"sessionsRevoked"`
}

type unlinkResponse struct {
	WasRecipeUserDeleted bool `json:"wasRecipeUserDeleted"`
	WasLinked            bool `json:"wasLinked"`
	SessionsRevoked      bool `json:"sessionsRevoked"`
}

// GetUser returns the user owning a recipe user id or primary id.
// GET /admin/users/{id}
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.linking.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// ListUsers returns users matching one identifier.
// GET /admin/users?email=|phone=|tp_id=&tp_user_id=[&union=true]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dto := accountInfoDTO{Email: q.Get("email"), PhoneNumber: q.Get("phone")}
	if tpID, tpUserID := q.Get("tp_id"), q.Get("tp_user_id"); tpID != "" || tpUserID != "" {
		if tpID == "" || tpUserID == "" {
			writeError(w, http.StatusBadRequest, "tp_id and tp_user_id must be given together")
			return
		}
		dto.ThirdParty = &thirdPartyDTO{ID: tpID, UserID: tpUserID}
	}

	union, ok := boolParam(w, r, "union")
	if !ok {
		return
	}

	users, err := h.linking.ListUsersByAccountInfo(r.Context(), dto.toDomain(), union)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": toUsersResponse(users)})
}

// DeleteUser deletes a recipe user, or the whole linked group.
// DELETE /admin/users/{id}?removeAllLinkedAccounts=true
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	cascade, ok := boolParam(w, r, "removeAllLinkedAccounts")
	if !ok {
		return
	}

	if err := h.linking.DeleteUser(r.Context(), chi.URLParam(r, "id"), cascade); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CanCreatePrimaryUser reports whether a recipe user could become primary.
// GET /admin/users/{id}/primary
func (h *AdminHandler) CanCreatePrimaryUser(w http.ResponseWriter, r *http.Request) {
	res, err := h.linking.CanCreatePrimaryUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, primaryResponse{
		User:              toUserResponse(res.User),
		WasAlreadyPrimary: res.WasAlreadyPrimary,
	})
}

// CreatePrimaryUser promotes a recipe user to primary.
// POST /admin/users/{id}/primary
func (h *AdminHandler) CreatePrimaryUser(w http.ResponseWriter, r *http.Request) {
	res, err := h.linking.CreatePrimaryUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	status := http.StatusCreated
	if res.WasAlreadyPrimary {
		status = http.StatusOK
	}
	writeJSON(w, status, primaryResponse{
		User:              toUserResponse(res.User),
		WasAlreadyPrimary: res.WasAlreadyPrimary,
	})
}

// CanLinkAccounts reports whether a recipe user could be linked.
// GET /admin/users/{id}/link?primaryUserId=
func (h *AdminHandler) CanLinkAccounts(w http.ResponseWriter, r *http.Request) {
	primaryID := r.URL.Query().Get("primaryUserId")
	if primaryID == "" {
		writeError(w, http.StatusBadRequest, "primaryUserId is required")
		return
	}

	res, err := h.linking.CanLinkAccounts(r.Context(), chi.URLParam(r, "id"), primaryID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, linkResponse{
		User:                  toUserResponse(res.User),
		AccountsAlreadyLinked: res.AccountsAlreadyLinked,
	})
}

// LinkAccounts links a recipe user into a primary user.
// POST /admin/users/{id}/link
func (h *AdminHandler) LinkAccounts(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PrimaryUserID == "" {
		writeError(w, http.StatusBadRequest, "primaryUserId is required")
		return
	}

	res, err := h.linking.LinkAccounts(r.Context(), chi.URLParam(r, "id"), req.PrimaryUserID)
	revoked := true
	if err != nil {
		if !errors.Is(err, domain.ErrSessionRevocation) || res.User == nil {
			handleError(h.log, w, r, err)
			return
		}
		h.log.WarnContext(r.Context(), "link succeeded without session revocation",
			slog.String("error", err.Error()))
		revoked = false
	}

	writeJSON(w, http.StatusOK, linkResponse{
		User:                  toUserResponse(res.User),
		AccountsAlreadyLinked: res.AccountsAlreadyLinked,
		SessionsRevoked:       revoked && !res.AccountsAlreadyLinked,
	})
}

// UnlinkAccount detaches a recipe user from its primary user.
// POST /admin/users/{id}/unlink
func (h *AdminHandler) UnlinkAccount(w http.ResponseWriter, r *http.Request) {
	res, err := h.linking.UnlinkAccount(r.Context(), chi.URLParam(r, "id"))
	revoked := true
	if err != nil {
		if !errors.Is(err, domain.ErrSessionRevocation) {
			handleError(h.log, w, r, err)
			return
		}
		h.log.WarnContext(r.Context(), "unlink succeeded without session revocation",
			slog.String("error", err.Error()))
		revoked = false
	}

	writeJSON(w, http.StatusOK, unlinkResponse{
		WasRecipeUserDeleted: res.WasRecipeUserDeleted,
		WasLinked:            res.WasLinked,
		SessionsRevoked:      revoked && res.WasLinked,
	})
}

// LinkOrCreatePrimary runs automatic linking for a recipe user.
// POST /admin/users/{id}/link-or-create
func (h *AdminHandler) LinkOrCreatePrimary(w http.ResponseWriter, r *http.Request) {
	userID, err := h.linking.CreatePrimaryUserIDOrLinkAccounts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"userId": userID})
}

// FetchAccountToLink returns the staged primary id for a recipe user.
// GET /admin/users/{id}/account-to-link
func (h *AdminHandler) FetchAccountToLink(w http.ResponseWriter, r *http.Request) {
	primaryID, err := h.linking.FetchAccountToLink(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if primaryID == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"primaryUserId": primaryID})
}

// StoreAccountToLink stages a recipe user for linking into a primary user.
// PUT /admin/users/{id}/account-to-link
func (h *AdminHandler) StoreAccountToLink(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PrimaryUserID == "" {
		writeError(w, http.StatusBadRequest, "primaryUserId is required")
		return
	}

	if err := h.linking.StoreAccountToLink(r.Context(), chi.URLParam(r, "id"), req.PrimaryUserID); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// IsSignUpAllowed evaluates the sign-up admission policy.
// POST /admin/sign-up-allowed
func (h *AdminHandler) IsSignUpAllowed(w http.ResponseWriter, r *http.Request) {
	var req signUpAllowedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	recipeID := domain.RecipeID(req.RecipeID)
	if !recipeID.IsValid() {
		handleError(h.log, w, r, domain.NewValidationError("recipeId", "unknown recipe"))
		return
	}

	allowed, err := h.linking.IsSignUpAllowed(r.Context(), recipeID, req.toDomain(), req.IsVerified)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"allowed": allowed})
}

// IsSignInAllowed evaluates the sign-in admission policy.
// GET /admin/users/{id}/sign-in-allowed
func (h *AdminHandler) IsSignInAllowed(w http.ResponseWriter, r *http.Request) {
	allowed, err := h.linking.IsSignInAllowed(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"allowed": allowed})
}

// IsEmailChangeAllowed evaluates the email-change policy.
// POST /admin/users/{id}/email-change-allowed
func (h *AdminHandler) IsEmailChangeAllowed(w http.ResponseWriter, r *http.Request) {
	var req emailChangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.NewEmail == "" {
		handleError(h.log, w, r, domain.NewValidationError("newEmail", "required"))
		return
	}

	allowed, err := h.linking.IsEmailChangeAllowed(r.Context(), chi.URLParam(r, "id"), req.NewEmail, req.IsVerified)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"allowed": allowed})
}

// PropagateVerification copies a verified email from the linked group onto
// the recipe user.
// POST /admin/users/{id}/propagate-verification
func (h *AdminHandler) PropagateVerification(w http.ResponseWriter, r *http.Request) {
	if err := h.linking.VerifyEmailForRecipeUserIfLinkedAccountsAreVerified(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func boolParam(w http.ResponseWriter, r *http.Request, name string) (bool, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return false, false
	}
	return b, true
}
