package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// serveRelease points ReleaseURL at a local server answering with body
func serveRelease(t *testing.T, status int, body string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	old := ReleaseURL
	ReleaseURL = srv.URL
	t.Cleanup(func() { ReleaseURL = old })
}

func TestIsDevelopmentVersion(t *testing.T) {
	for _, v := range []string{"", "unknown", "dev", "devel", "devel+abc"} {
		if !IsDevelopmentVersion(v) {
			t.Errorf("IsDevelopmentVersion(%q) = false", v)
		}
	}
	for _, v := range []string{"v1.0.0", "0.3.1"} {
		if IsDevelopmentVersion(v) {
			t.Errorf("IsDevelopmentVersion(%q) = true", v)
		}
	}
}

func TestUpdateCommand(t *testing.T) {
	cmd := UpdateCommand("v1.2.3")
	if !strings.Contains(cmd, "github.com/smhrd/smartsearch@v1.2.3") {
		t.Errorf("UpdateCommand = %q", cmd)
	}
	if !strings.Contains(cmd, "main.Version=v1.2.3") {
		t.Errorf("UpdateCommand missing ldflags: %q", cmd)
	}
	for _, bad := range []string{"latest", "v1.0.0; rm -rf /", "v1.0", ""} {
		if got := UpdateCommand(bad); got != "" {
			t.Errorf("UpdateCommand(%q) = %q, want empty", bad, got)
		}
	}
}

func TestCheckSkipsDevelopment(t *testing.T) {
	serveRelease(t, http.StatusInternalServerError, "")
	res := Check(context.Background(), "dev")
	if res.Error != nil || res.HasUpdate {
		t.Fatalf("dev check = %+v", res)
	}
}

func TestCheckFindsUpdate(t *testing.T) {
	serveRelease(t, http.StatusOK, `{"tag_name":"v1.2.0","html_url":"https://example.com/r"}`)
	res := Check(context.Background(), "v1.0.0")
	if res.Error != nil {
		t.Fatalf("Check: %v", res.Error)
	}
	if !res.HasUpdate || res.LatestVersion != "v1.2.0" || res.UpdateURL != "https://example.com/r" {
		t.Fatalf("Check = %+v", res)
	}
}

func TestCheckUpToDate(t *testing.T) {
	serveRelease(t, http.StatusOK, `{"tag_name":"v1.0.0"}`)
	res := Check(context.Background(), "v1.0.0")
	if res.Error != nil || res.HasUpdate {
		t.Fatalf("Check = %+v", res)
	}
}

func TestCheckHTTPError(t *testing.T) {
	serveRelease(t, http.StatusForbidden, "rate limited")
	res := Check(context.Background(), "v1.0.0")
	if res.Error == nil {
		t.Fatal("expected error on 403")
	}
}

func TestCheckBadJSON(t *testing.T) {
	serveRelease(t, http.StatusOK, "{not json")
	res := Check(context.Background(), "v1.0.0")
	if res.Error == nil {
		t.Fatal("expected decode error")
	}
}
