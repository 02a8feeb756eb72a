package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smhrd/smartsearch/internal/models"
	"github.com/smhrd/smartsearch/internal/serverdb"
)

func newTestServer(t *testing.T, opts ...func(*Config)) (*Server, *serverdb.ServerDB) {
	t.Helper()
	store := testStore(t)
	cfg := Config{
		ListenAddr:    ":0",
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
		RateLimitAuth: 100000,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	srv, err := NewServer(cfg, store)
	if err != nil {
		t.Fatalf("create server: %v", err)
	}
	return srv, store
}

func doRequest(srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var m MessageResponse
	if err := json.NewDecoder(w.Body).Decode(&m); err != nil {
		t.Fatalf("decode message: %v (%s)", err, w.Body.String())
	}
	return m.Message
}

var alice = RegisterRequest{Name: "김앨리스", Email: "alice@example.com", Password: "pw-1234"}

func TestRegister(t *testing.T) {
	srv, store := newTestServer(t)

	w := doRequest(srv, "POST", "/api/auth/register", "", alice)
	if w.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if msg := decodeMessage(t, w); msg != MsgSuccess {
		t.Fatalf("message = %q", msg)
	}

	u, err := store.GetUserByEmail(alice.Email)
	if err != nil || u == nil {
		t.Fatalf("user not stored: %v", err)
	}
	if u.Name != alice.Name || u.OAuth != 0 {
		t.Fatalf("stored user = %+v", u)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	srv, _ := newTestServer(t)
	doRequest(srv, "POST", "/api/auth/register", "", alice)

	dup := alice
	dup.Email = "ALICE@example.com"
	w := doRequest(srv, "POST", "/api/auth/register", "", dup)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if msg := decodeMessage(t, w); msg != MsgDuplicateEmail {
		t.Fatalf("message = %q", msg)
	}
}

func TestRegisterInvalid(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing password", RegisterRequest{Name: "a", Email: "a@b.c"}},
		{"missing email", RegisterRequest{Name: "a", Password: "pw"}},
		{"missing name", RegisterRequest{Email: "a@b.c", Password: "pw"}},
		{"not json", "{{"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(srv, "POST", "/api/auth/register", "", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			if msg := decodeMessage(t, w); msg != MsgCheckInput {
				t.Fatalf("message = %q", msg)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	srv, store := newTestServer(t)
	doRequest(srv, "POST", "/api/auth/register", "", alice)

	w := doRequest(srv, "POST", "/api/auth/login", "", LoginRequest{Email: alice.Email, Password: alice.Password})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var users []models.User
	if err := json.NewDecoder(w.Body).Decode(&users); err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].Email != alice.Email {
		t.Fatalf("users = %+v", users)
	}

	token := w.Header().Get(TokenHeader)
	if token == "" {
		t.Fatal("missing token header")
	}
	claims, err := srv.tokens.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != users[0].ID || claims.Email != alice.Email {
		t.Fatalf("claims = %+v", claims)
	}

	events, _ := store.QueryAuthEvents(serverdb.AuthEventLoginOK, "", serverdb.EventFilter{})
	if len(events) != 1 {
		t.Fatalf("login_ok events = %d", len(events))
	}
}

func TestLoginFailure(t *testing.T) {
	srv, _ := newTestServer(t)
	doRequest(srv, "POST", "/api/auth/register", "", alice)

	for _, req := range []LoginRequest{
		{Email: alice.Email, Password: "wrong"},
		{Email: "nobody@example.com", Password: alice.Password},
		{},
	} {
		w := doRequest(srv, "POST", "/api/auth/login", "", req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%+v: expected 401, got %d", req, w.Code)
		}
		if body := strings.TrimSpace(w.Body.String()); body != "[]" {
			t.Fatalf("body = %q, want []", body)
		}
		if w.Header().Get(TokenHeader) != "" {
			t.Fatal("token issued on failed login")
		}
	}
}

func TestMe(t *testing.T) {
	srv, _ := newTestServer(t)
	doRequest(srv, "POST", "/api/auth/register", "", alice)
	login := doRequest(srv, "POST", "/api/auth/login", "", LoginRequest{Email: alice.Email, Password: alice.Password})
	token := login.Header().Get(TokenHeader)

	w := doRequest(srv, "GET", "/api/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", w.Code)
	}
	var u models.User
	json.NewDecoder(w.Body).Decode(&u)
	if u.Email != alice.Email {
		t.Fatalf("me = %+v", u)
	}

	for _, tok := range []string{"", "garbage"} {
		if w := doRequest(srv, "GET", "/api/auth/me", tok, nil); w.Code != http.StatusUnauthorized {
			t.Fatalf("token %q: expected 401, got %d", tok, w.Code)
		}
	}
}

func TestTokensRejectForeignAndExpired(t *testing.T) {
	u := &models.User{ID: "u1", Email: "a@b.c"}

	a, _ := NewTokens("secret-a", time.Hour)
	b, _ := NewTokens("secret-b", time.Hour)
	tok, _, err := a.Issue(u)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Verify(tok); err == nil {
		t.Fatal("token from another secret accepted")
	}

	a.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, _ := a.Issue(u)
	a.now = time.Now
	if _, err := a.Verify(old); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(srv, "GET", "/healthz", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("healthz: %d %s", w.Code, w.Body.String())
	}

	doRequest(srv, "POST", "/api/auth/register", "", alice)
	doRequest(srv, "POST", "/api/auth/login", "", LoginRequest{Email: alice.Email, Password: "nope"})

	w = doRequest(srv, "GET", "/metricz", "", nil)
	var snap MetricsSnapshot
	if err := json.NewDecoder(w.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	if snap.Registrations != 1 || snap.LoginFailures != 1 || snap.ClientErrors != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Requests < 3 {
		t.Fatalf("requests = %d", snap.Requests)
	}

	w = doRequest(srv, "GET", "/metrics", "", nil)
	body := w.Body.String()
	for _, want := range []string{
		"smartsearch_http_requests_total",
		`smartsearch_auth_attempts_total{kind="login",result="failed"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("/metrics missing %q", want)
		}
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doRequest(srv, "GET", "/healthz", "", nil)
	if len(w.Header().Get(RequestIDHeader)) != 16 {
		t.Fatalf("request id = %q", w.Header().Get(RequestIDHeader))
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var resp ErrorResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Error.Code != ErrCodeInternal {
		t.Fatalf("error = %+v", resp.Error)
	}
}

func TestServerStartShutdown(t *testing.T) {
	srv, _ := newTestServer(t, func(c *Config) { c.ListenAddr = "127.0.0.1:0" })
	if err := srv.Start(); err != nil {
		t.Fatal(err)
	}
	resp, err := http.Get("http://" + srv.Addr().String() + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz over tcp: %d", resp.StatusCode)
	}
	if err := srv.Shutdown(t.Context()); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SS_LISTEN_ADDR", ":9999")
	t.Setenv("SS_DB_DRIVER", "sqlite3")
	t.Setenv("SS_TOKEN_TTL", "7d")
	t.Setenv("SS_RATE_LIMIT_AUTH", "25")
	t.Setenv("SS_CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := LoadConfig()
	if cfg.ListenAddr != ":9999" || cfg.DBDriver != "sqlite3" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.TokenTTL != 7*24*time.Hour || cfg.RateLimitAuth != 25 {
		t.Fatalf("ttl=%v limit=%d", cfg.TokenTTL, cfg.RateLimitAuth)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("origins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestParseDays(t *testing.T) {
	tests := map[string]time.Duration{
		"90d":  90 * 24 * time.Hour,
		" 7d ": 7 * 24 * time.Hour,
		"12h":  12 * time.Hour,
		"0d":   0,
		"-5m":  0,
		"xd":   0,
		"junk": 0,
		"":     0,
	}
	for in, want := range tests {
		if got := parseDays(in); got != want {
			t.Errorf("parseDays(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoadConfigIgnoresBadValues(t *testing.T) {
	t.Setenv("SS_RATE_LIMIT_AUTH", "-3")
	t.Setenv("SS_TOKEN_TTL", "soon")
	t.Setenv("SS_CORS_ALLOWED_ORIGINS", " , ")
	cfg := LoadConfig()
	def := DefaultConfig()
	if cfg.RateLimitAuth != def.RateLimitAuth || cfg.TokenTTL != def.TokenTTL {
		t.Fatalf("bad values overrode defaults: %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Fatalf("origins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/api/auth/me", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		got, ok := bearerToken(r)
		if got != tt.want || ok != tt.ok {
			t.Errorf("bearerToken(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSweepHonorsRetention(t *testing.T) {
	srv, store := newTestServer(t, func(c *Config) {
		c.AuthEventRetention = time.Millisecond
		c.RateLimitEventRetention = 0
	})
	if err := store.InsertAuthEvent("a@b.c", serverdb.AuthEventLoginOK, "1.2.3.4"); err != nil {
		t.Fatal(err)
	}
	if err := store.InsertRateLimitEvent("1.2.3.4", "auth"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	srv.sweep()

	if ev, _ := store.QueryAuthEvents("", "", serverdb.EventFilter{}); len(ev) != 0 {
		t.Errorf("auth events left = %d, want 0", len(ev))
	}
	if ev, _ := store.QueryRateLimitEvents("", serverdb.EventFilter{}); len(ev) != 1 {
		t.Errorf("rate limit events = %d, want 1 (zero retention keeps)", len(ev))
	}
}
