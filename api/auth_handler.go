package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	auth      AuthService
}

func newAuthHandler(auth AuthService) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		auth:      auth,
	}
}

type setupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	SetupKey string `json:"setupKey"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type recoveryRequest struct {
	Username    string `json:"username"`
	RecoveryKey string `json:"recoveryKey"`
}

type resetPasswordRequest struct {
	RecoveryToken string `json:"recoveryToken"`
	NewPassword   string `json:"newPassword"`
}

// setup creates the first admin account
// @Summary Create initial admin
// @Description Allowed once, and only with the configured setup key.
// @Tags Auth
// @Accept json
// @Produce json
// @Router /api/auth/setup [post]
func (h authHandler) setup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setupRequest
		if err := decodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.auth.Setup(r.Context(), req.Username, req.Password, req.SetupKey); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, nil)
	}
}

// login exchanges credentials for a session token
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Router /api/auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := decodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		session, err := h.auth.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Uint("adminId", session.User.ID).Msg("Admin logged in")
		h.responder.WriteJSON(w, envelope{
			"token":     session.Token.Token,
			"expiresAt": session.Token.ExpiresAt,
			"user":      session.User,
		})
	}
}

func (h authHandler) verify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}
		h.responder.WriteJSON(w, envelope{"user": id})
	}
}

func (h authHandler) updateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var req credentialsRequest
		if err := decodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		session, err := h.auth.UpdateProfile(r.Context(), id, req.Username, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, envelope{
			"token": session.Token.Token,
			"user":  session.User,
		})
	}
}

func (h authHandler) recovery() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recoveryRequest
		if err := decodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		token, err := h.auth.RequestRecovery(r.Context(), req.Username, req.RecoveryKey)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, envelope{
			"recoveryToken": token.Token,
			"expiresAt":     token.ExpiresAt,
		})
	}
}

func (h authHandler) resetPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetPasswordRequest
		if err := decodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if req.RecoveryToken == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("recoveryToken"))
			return
		}

		if err := h.auth.ResetPassword(r.Context(), req.RecoveryToken, req.NewPassword); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, nil)
	}
}
