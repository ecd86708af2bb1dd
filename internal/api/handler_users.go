package api

import (
	"net/http"
	"time"

	"icare/internal/domain"
	"icare/internal/service/identity"
)

type userDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func userToAPI(u *domain.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type sessionDTO struct {
	User      userDTO   `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func sessionToAPI(s *identity.Session) sessionDTO {
	return sessionDTO{User: userToAPI(s.User), Token: s.Token, ExpiresAt: s.ExpiresAt}
}

type signupBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileBody struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type updateUserBody struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	IsAdmin *bool   `json:"is_admin"`
}

// Signup implements POST /users/signup.
func (h *APIHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var body signupBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	sess, err := h.svc.Users.Signup(r.Context(), domain.SignupRequest{
		Name: body.Name, Email: body.Email, Password: body.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusCreated, "User Created", "session", sessionToAPI(sess))
}

// Signin implements POST /users/signin.
func (h *APIHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var body signinBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	sess, err := h.svc.Users.Signin(r.Context(), domain.SigninRequest{Email: body.Email, Password: body.Password})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Signed In", "session", sessionToAPI(sess))
}

// GetProfile implements GET /users/profile.
func (h *APIHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Users.Profile(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "User", "user", userToAPI(u))
}

// UpdateProfile implements PUT /users/profile.
func (h *APIHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body profileBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.svc.Users.UpdateProfile(r.Context(), domain.UpdateProfileRequest{
		Name: body.Name, Email: body.Email, Password: body.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Profile Updated", "user", userToAPI(u))
}

// ListUsers implements GET /users.
func (h *APIHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := pageFromRequest(r)
	users, total, err := h.svc.Users.List(r.Context(), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(w, "users", mapSlice(users, userToAPI), page, total)
}

// GetUser implements GET /users/{id}.
func (h *APIHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Users.Get(r.Context(), idParam(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "User", "user", userToAPI(u))
}

// UpdateUser implements PUT /users/{id}.
func (h *APIHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var body updateUserBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.svc.Users.Update(r.Context(), idParam(r), domain.UpdateUserRequest{
		Name: body.Name, Email: body.Email, IsAdmin: body.IsAdmin,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "User Updated", "user", userToAPI(u))
}

// DeleteUser implements DELETE /users/{id}.
func (h *APIHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Users.Delete(r.Context(), idParam(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "User Deleted")
}
