package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smhrd/smartsearch/internal/crypto"
	"github.com/smhrd/smartsearch/internal/models"
	"github.com/smhrd/smartsearch/internal/serverdb"
)

// Response headers of a successful login
const (
	TokenHeader   = "X-Auth-Token"
	ExpiresHeader = "X-Auth-Expires"
)

const tokenIssuer = "smartsearch"

// Claims holds session token claims. Subject is the user ID.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 session tokens.
type Tokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokens derives the signing key from secret. An empty secret gets a
// random one, so tokens do not survive a restart.
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		s, err := crypto.RandomSecret()
		if err != nil {
			return nil, err
		}
		secret = s
	}
	key, err := crypto.DeriveSigningKey(secret)
	if err != nil {
		return nil, fmt.Errorf("derive signing key: %w", err)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{key: key, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for u.
func (t *Tokens) Issue(u *models.User) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := &Claims{
		Email: u.Email,
		Name:  u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify parses and validates a token.
func (t *Tokens) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.key, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister creates an account. Duplicate emails get 409, anything
// else that prevents the insert gets 400.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	log := logFor(r.Context())

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordRegister(false)
		writeMessage(w, http.StatusBadRequest, MsgCheckInput)
		return
	}

	if exists, err := s.store.EmailExists(req.Email); err == nil && exists {
		s.recordAuthEvent(r, req.Email, serverdb.AuthEventRegisterFailed)
		s.metrics.RecordRegister(false)
		writeMessage(w, http.StatusConflict, MsgDuplicateEmail)
		return
	}

	u, err := s.store.CreateUser(serverdb.NewUser{Name: req.Name, Email: req.Email, Password: req.Password})
	switch {
	case errors.Is(err, serverdb.ErrEmailTaken):
		s.recordAuthEvent(r, req.Email, serverdb.AuthEventRegisterFailed)
		s.metrics.RecordRegister(false)
		writeMessage(w, http.StatusConflict, MsgDuplicateEmail)
		return
	case err != nil:
		if !errors.Is(err, serverdb.ErrInvalidUser) {
			log.Error("create user", "err", err)
		}
		s.recordAuthEvent(r, req.Email, serverdb.AuthEventRegisterFailed)
		s.metrics.RecordRegister(false)
		writeMessage(w, http.StatusBadRequest, MsgCheckInput)
		return
	}

	log.Info("user registered", "uid", u.ID)
	s.recordAuthEvent(r, u.Email, serverdb.AuthEventRegistered)
	s.metrics.RecordRegister(true)
	writeMessage(w, http.StatusOK, MsgSuccess)
}

// handleLogin returns [user] with a token header, or 401 with [].
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	log := logFor(r.Context())

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordLogin(false)
		writeJSON(w, http.StatusUnauthorized, []models.User{})
		return
	}

	u, err := s.store.Authenticate(req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, serverdb.ErrInvalidCredentials) {
			log.Error("authenticate", "err", err)
		}
		s.recordAuthEvent(r, req.Email, serverdb.AuthEventLoginFailed)
		s.metrics.RecordLogin(false)
		writeJSON(w, http.StatusUnauthorized, []models.User{})
		return
	}

	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		log.Error("issue token", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to issue token")
		return
	}

	s.recordAuthEvent(r, u.Email, serverdb.AuthEventLoginOK)
	s.metrics.RecordLogin(true)
	w.Header().Set(TokenHeader, token)
	w.Header().Set(ExpiresHeader, exp.UTC().Format(time.RFC3339))
	writeJSON(w, http.StatusOK, []models.User{*u})
}

// handleMe returns the account behind the bearer token.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	u, err := s.store.GetUserByID(claims.Subject)
	if err != nil {
		logFor(r.Context()).Error("get user", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to load user")
		return
	}
	if u == nil {
		writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "account no longer exists")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) recordAuthEvent(r *http.Request, email, eventType string) {
	if err := s.store.InsertAuthEvent(email, eventType, clientIP(r)); err != nil {
		logFor(r.Context()).Warn("log auth event", "err", err)
	}
}
