package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fourpaws/petstore/internal/petstore/service"
	"github.com/fourpaws/petstore/internal/petstore/store"
	"github.com/fourpaws/petstore/pkg/cryptox"
	"github.com/fourpaws/petstore/pkg/httpx"
	"github.com/fourpaws/petstore/pkg/slogx"
)

// UsersHandler serves the /user resource.
type UsersHandler struct {
	UserService  *service.UserService
	TokenService *service.TokenService
}

// HandleCreate serves POST /user. Registration is open; new accounts get
// the default scopes.
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var dto userDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid user payload")
		return
	}

	u, err := h.UserService.Register(ctx, userFromDTO(dto), dto.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			writeStatus(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrAlreadyExists):
			writeStatus(w, http.StatusConflict, "username already taken")
		default:
			log.Error("failed to create user", slogx.Err(err))
			writeStatus(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userToDTO(u))
}

// HandleCreateBatch serves POST /user/createWithArray and
// POST /user/createWithList; both take a JSON array of users. Accounts are
// registered in order and the first failure aborts the rest.
func (h *UsersHandler) HandleCreateBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var dtos []userDTO
	if err := json.NewDecoder(r.Body).Decode(&dtos); err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid user list payload")
		return
	}

	for _, dto := range dtos {
		if _, err := h.UserService.Register(ctx, userFromDTO(dto), dto.Password); err != nil {
			switch {
			case errors.Is(err, service.ErrValidation):
				writeStatus(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, store.ErrAlreadyExists):
				writeStatus(w, http.StatusConflict,
					fmt.Sprintf("username %q already taken", dto.Username))
			default:
				log.Error("failed to create user", slogx.Username(dto.Username), slogx.Err(err))
				writeStatus(w, http.StatusInternalServerError, "failed to create users")
			}
			return
		}
	}

	writeStatus(w, http.StatusOK, "ok")
}

// HandleGet serves GET /user/{username}.
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	username := r.PathValue("username")
	u, err := h.UserService.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeStatus(w, http.StatusNotFound, "user not found")
			return
		}
		log.Error("failed to load user", slogx.Username(username), slogx.Err(err))
		writeStatus(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userToDTO(u))
}

// HandleUpdate serves PUT /user/{username}.
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	username := r.PathValue("username")

	var dto userDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid user payload")
		return
	}

	if err := h.UserService.UpdateUser(ctx, username, userFromDTO(dto), dto.Password); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeStatus(w, http.StatusNotFound, "user not found")
			return
		}
		log.Error("failed to update user", slogx.Username(username), slogx.Err(err))
		writeStatus(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	writeStatus(w, http.StatusOK, username)
}

// HandleDelete serves DELETE /user/{username}.
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	username := r.PathValue("username")
	if err := h.UserService.DeleteUser(ctx, username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeStatus(w, http.StatusNotFound, "user not found")
			return
		}
		log.Error("failed to delete user", slogx.Username(username), slogx.Err(err))
		writeStatus(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	writeStatus(w, http.StatusOK, username)
}

// HandleLogin serves GET /user/login?username=...&password=...
//
// This is the legacy session-style login. It validates credentials and
// returns an opaque session marker in the message field. API clients should
// prefer POST /oauth/token.
func (h *UsersHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := r.URL.Query()
	username := q.Get("username")
	password := q.Get("password")
	if username == "" || password == "" {
		writeStatus(w, http.StatusBadRequest, "username and password are required")
		return
	}

	if _, err := h.UserService.VerifyCredentials(ctx, username, password); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeStatus(w, http.StatusBadRequest, "invalid username/password supplied")
			return
		}
		writeStatus(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	session, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		writeStatus(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	w.Header().Set("X-Expires-After", time.Now().Add(time.Hour).UTC().Format(time.RFC1123))
	writeStatus(w, http.StatusOK, fmt.Sprintf("logged in user session:%s", session))
}

// HandleLogout serves GET /user/logout. When the caller presented a valid
// access token, every refresh token for that account is revoked.
func (h *UsersHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if uid := httpx.UserIDFromCtx(ctx); uid != "" {
		userID, err := strconv.ParseInt(uid, 10, 64)
		if err == nil {
			if err := h.TokenService.RevokeAllForUser(ctx, userID); err != nil {
				log.Error("failed to revoke tokens on logout", "user_id", userID, slogx.Err(err))
			}
		}
	}

	writeStatus(w, http.StatusOK, "ok")
}
