package http

import (
	"errors"
	"mime"
	"net/http"
	"net/url"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/domain"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/oauth"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/service"
	"github.com/aussiebroadwan/jdmatchr/pkg/httpx"
	"github.com/aussiebroadwan/jdmatchr/pkg/slogx"
)

const (
	loginPath       = "/login"
	defaultCallback = "/analyze"
)

// LoginHandler serves POST /api/auth/login. JSON callers get the session
// user back; browser form posts are redirected like a sign-in form would be.
type LoginHandler struct {
	Issuer    *service.SessionIssuer
	Auth      *service.AuthConfig
	PublicURL string
	Dev       bool
}

// ServeHTTP godoc
//
//	@Summary		Credentials Sign-In
//	@Description	Authenticates email and password against the Analysis Backend and sets the session cookie.
//	@Description	Form posts are answered with a redirect to callbackUrl (or /login?error=... on failure).
//	@Tags			Auth
//	@Accept			json
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			body	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	LoginResponse
//	@Failure		400		{object}	ErrorResponse	"missing email or password"
//	@Failure		401		{object}	ErrorResponse	"invalid credentials"
//	@Failure		415		{object}	ErrorResponse	"unsupported content type"
//	@Failure		500		{object}	ErrorResponse	"session signing not configured"
//	@Failure		502		{object}	ErrorResponse	"backend unreachable"
//	@Router			/api/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	in, err := readFields(r, "email", "password", "callbackUrl")
	if err != nil {
		writeError(w, err, h.Dev)
		return
	}

	sess, err := h.Issuer.IssueFromCredentials(ctx, in["email"], in["password"])
	if err != nil {
		log.Info("login rejected", "email", in["email"], "err", err)
		if isFormPost(r) {
			redirectLoginError(w, r, "CredentialsSignin")
			return
		}
		writeError(w, err, h.Dev)
		return
	}

	http.SetCookie(w, h.Auth.SessionCookie(sess.Token))

	if isFormPost(r) {
		http.Redirect(w, r, oauth.SafeCallback(h.PublicURL, in["callbackUrl"], defaultCallback), http.StatusSeeOther)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Message: "Login successful", User: sess.User()})
}

// RegisterHandler serves POST /api/auth/register.
type RegisterHandler struct {
	Registrar *service.Registrar
	Auth      *service.AuthConfig
	Dev       bool
}

// ServeHTTP godoc
//
//	@Summary		Sign-Up
//	@Description	Creates an account on the Analysis Backend and mirrors its answer.
//	@Description	When the backend accepts the account the user is signed in with the same credentials and the session cookie is set.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RegisterRequest	true	"New account"
//	@Success		201		{object}	map[string]any	"backend response, mirrored"
//	@Failure		400		{object}	ErrorResponse	"missing fields"
//	@Failure		409		{object}	map[string]any	"backend response, mirrored"
//	@Failure		502		{object}	ErrorResponse	"backend unreachable"
//	@Router			/api/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	in, err := readFields(r, "name", "email", "password")
	if err != nil {
		writeError(w, err, h.Dev)
		return
	}

	reg, err := h.Registrar.Register(r.Context(), in["name"], in["email"], in["password"])
	if err != nil {
		writeError(w, err, h.Dev)
		return
	}

	if reg.Session != nil {
		http.SetCookie(w, h.Auth.SessionCookie(reg.Session.Token))
	}
	httpx.WriteRawJSON(w, reg.StatusCode, reg.Body)
}

// SessionHandler serves GET /api/auth/session.
type SessionHandler struct {
	Reader *service.SessionReader
}

// ServeHTTP godoc
//
//	@Summary		Current Session
//	@Description	Returns the signed-in user and session expiry, or an empty object when there is no valid session.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	SessionResponse
//	@Router			/api/auth/session [get].
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := h.Reader.CurrentIdentity(r)
	if c == nil {
		httpx.WriteJSON(w, http.StatusOK, SessionResponse{})
		return
	}

	sess := service.Session{Claims: *c}
	user := sess.User()
	httpx.WriteJSON(w, http.StatusOK, SessionResponse{
		User:    &user,
		Expires: c.ExpiresAtTime().UTC().Format("2006-01-02T15:04:05.000Z"),
	})
}

// SignoutHandler serves POST /api/auth/signout. Tokens are stateless, so
// signing out only drops the cookie.
type SignoutHandler struct {
	Auth *service.AuthConfig
}

// ServeHTTP godoc
//
//	@Summary		Sign-Out
//	@Description	Clears the session cookie. The token itself stays valid until it expires.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	MessageResponse
//	@Router			/api/auth/signout [post].
func (h *SignoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.Auth.ClearSessionCookie())
	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Signed out"})
}

func readFields(r *http.Request, fields ...string) (map[string]string, error) {
	in, err := httpx.ReadJSONOrForm(r, fields...)
	switch {
	case errors.Is(err, httpx.ErrUnsupportedMediaType):
		return nil, &domain.ProxiedError{
			StatusCode: http.StatusUnsupportedMediaType,
			Message:    "Unsupported content type. Send JSON or a form.",
		}
	case err != nil:
		return nil, domain.Validation("Invalid request body.")
	}
	return in, nil
}

func isFormPost(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "application/x-www-form-urlencoded" || ct == "multipart/form-data"
}

func redirectLoginError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, loginPath+"?"+url.Values{"error": {code}}.Encode(), http.StatusFound)
}
