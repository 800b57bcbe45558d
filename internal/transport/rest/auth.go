package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/accountlinking/internal/domain"
	"github.com/heartmarshall/accountlinking/internal/service/auth"
)

// authService defines the minimal interface needed by AuthHandler.
type authService interface {
	SignUp(ctx context.Context, input auth.SignUpInput) (*auth.AuthResult, error)
	SignIn(ctx context.Context, input auth.SignInInput) (*auth.AuthResult, error)
	ThirdPartySignInUp(ctx context.Context, input auth.ThirdPartyInput) (*auth.AuthResult, error)
	SignInWithCode(ctx context.Context, input auth.CodeInput) (*auth.AuthResult, error)
	VerifyEmail(ctx context.Context, recipeUserID string) (*domain.User, error)
}

// tokenIssuer signs the access token returned with a new session.
type tokenIssuer interface {
	Issue(sess *domain.Session) (string, error)
}

// AuthHandler serves auth REST endpoints.
type AuthHandler struct {
	svc    authService
	tokens tokenIssuer
	log    *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc authService, tokens tokenIssuer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, tokens: tokens, log: logger.With("handler", "auth")}
}

type signUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	DoNotLink bool   `json:"doNotLink"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type thirdPartyRequest struct {
	ThirdPartyID     string `json:"thirdPartyId"`
	ThirdPartyUserID string `json:"thirdPartyUserId"`
	Email            string `json:"email"`
	EmailVerified    bool   `json:"emailVerified"`
	DoNotLink        bool   `json:"doNotLink"`
}

type codeRequest struct {
	Code      string `json:"code"`
	DoNotLink bool   `json:"doNotLink"`
}

type authResponse struct {
	User                 *userResponse    `json:"user"`
	RecipeUserID         string           `json:"recipeUserId"`
	Session              *sessionResponse `json:"session"`
	CreatedNewRecipeUser bool             `json:"createdNewRecipeUser"`
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.SignUp(r.Context(), auth.SignUpInput{
		Email:     req.Email,
		Password:  req.Password,
		DoNotLink: req.DoNotLink,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	h.writeAuth(w, r, http.StatusCreated, result)
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.SignIn(r.Context(), auth.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	h.writeAuth(w, r, http.StatusOK, result)
}

// ThirdParty handles POST /auth/thirdparty.
func (h *AuthHandler) ThirdParty(w http.ResponseWriter, r *http.Request) {
	var req thirdPartyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.ThirdPartySignInUp(r.Context(), auth.ThirdPartyInput{
		ThirdPartyID:     req.ThirdPartyID,
		ThirdPartyUserID: req.ThirdPartyUserID,
		Email:            req.Email,
		EmailVerified:    req.EmailVerified,
		DoNotLink:        req.DoNotLink,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	status := http.StatusOK
	if result.CreatedNewRecipeUser {
		status = http.StatusCreated
	}
	h.writeAuth(w, r, status, result)
}

// ThirdPartyCode handles POST /auth/thirdparty/{provider}/code.
func (h *AuthHandler) ThirdPartyCode(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.SignInWithCode(r.Context(), auth.CodeInput{
		Provider:  chi.URLParam(r, "provider"),
		Code:      req.Code,
		DoNotLink: req.DoNotLink,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	status := http.StatusOK
	if result.CreatedNewRecipeUser {
		status = http.StatusCreated
	}
	h.writeAuth(w, r, status, result)
}

// VerifyEmail handles POST /admin/users/{id}/verify-email. The caller
// has already checked the verification token.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.VerifyEmail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": toUserResponse(user)})
}

func (h *AuthHandler) writeAuth(w http.ResponseWriter, r *http.Request, status int, result *auth.AuthResult) {
	resp := authResponse{
		User:                 toUserResponse(result.User),
		RecipeUserID:         result.RecipeUserID,
		Session:              toSessionResponse(result.Session),
		CreatedNewRecipeUser: result.CreatedNewRecipeUser,
	}
	if result.Session != nil {
		token, err := h.tokens.Issue(result.Session)
		if err != nil {
			handleError(h.log, w, r, fmt.Errorf("issue access token: %w", err))
			return
		}
		resp.Session.AccessToken = token
	}
	writeJSON(w, status, resp)
}
