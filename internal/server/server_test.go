package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/coachsite/internal/config"
	"github.com/muurk/coachsite/internal/content"
)

var sessionPattern = regexp.MustCompile(`data-session="([0-9a-f-]+)"`)

func newTestServer(t *testing.T) (*Server, *clockwork.FakeClock) {
	t.Helper()
	site, err := content.Default()
	require.NoError(t, err)

	settings := config.Defaults()
	clock := clockwork.NewFakeClock()
	srv, err := New(&settings, site, WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(srv.Sessions().CloseAll)
	return srv, clock
}

func do(t *testing.T, srv *Server, method, target string, body url.Values, accept string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func openSession(t *testing.T, srv *Server, target string) (string, string) {
	t.Helper()
	rec := do(t, srv, http.MethodGet, target, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	m := sessionPattern.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2, "booking page should carry a session id")
	return m[1], rec.Body.String()
}

func validForm() url.Values {
	return url.Values{
		"service":   {"Corporate Team Building"},
		"firstname": {"Jo"},
		"lastname":  {"Bloggs"},
		"email":     {"jo@example.com"},
		"mobile":    {"0412345678"},
		"message":   {""},
	}
}

func waitForTimer(t *testing.T, clock *clockwork.FakeClock) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
}

func TestPages(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		path       string
		wantStatus int
		wantBody   []string
		wantNav    bool
	}{
		{"/", http.StatusOK, []string{"What if your best became your average?", "Elizabeth", "office-620822"}, true},
		{"/about", http.StatusOK, []string{"Book a session"}, true},
		{"/services", http.StatusOK, []string{"Leadership and Resilience Programs", `href="/book?service=Corporate`}, true},
		{"/faq", http.StatusOK, []string{"Frequently Asked Questions", `id="panel4"`}, true},
		{"/nope", http.StatusNotFound, []string{"404"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, srv, http.MethodGet, tt.path, nil, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			body := rec.Body.String()
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want)
			}
			assert.Equal(t, tt.wantNav, strings.Contains(body, `class="navbar"`))
		})
	}
}

func TestNavMarksActiveRoute(t *testing.T) {
	srv, _ := newTestServer(t)
	body := do(t, srv, http.MethodGet, "/faq", nil, "").Body.String()

	assert.Regexp(t, `nav-button active">\s*<a href="/faq" style="color: #2f2f2f"`, body)
	assert.Regexp(t, `<a href="/about" style="color: #858585"`, body)
}

func TestFAQSinglePanelOpen(t *testing.T) {
	srv, _ := newTestServer(t)
	body := do(t, srv, http.MethodGet, "/faq?open=panel1", nil, "").Body.String()

	assert.Equal(t, 1, strings.Count(body, "accordion-details"))
	assert.Contains(t, body, `class="accordion secondary expanded" id="panel1"`)
	assert.Contains(t, body, `class="accordion primary" id="panel0"`)
	assert.Contains(t, body, `href="?open=#panel1"`, "clicking the open panel collapses it")
}

func TestHealthAndResources(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/healthz", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])

	rec = do(t, srv, http.MethodGet, "/resources/css/site.css", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".backdrop")

	rec = do(t, srv, http.MethodGet, "/resources/js/book.js", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	site, err := content.Default()
	require.NoError(t, err)

	settings := config.Defaults()
	settings.InquirySink = "smtp"
	_, err = New(&settings, site)
	assert.Error(t, err)

	_, err = New(nil, nil)
	assert.Error(t, err)
}

func TestRefreshSeconds(t *testing.T) {
	assert.Equal(t, int64(0), refreshSeconds(-time.Second))
	assert.Equal(t, int64(4), refreshSeconds(3500*time.Millisecond))
	assert.Equal(t, int64(3), refreshSeconds(3*time.Second))
}
