package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"pibdash/internal/dashboard"
	"pibdash/internal/dataset"
	"pibdash/internal/logger"
	"pibdash/internal/models"
	"pibdash/internal/session"
	"pibdash/internal/views"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func release(date, ministry, title string) models.PressRelease {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return models.NewPressRelease(d, ministry, title, "https://pib.gov.in/"+date)
}

func testRouter(enabled bool) (*gin.Engine, *session.Store) {
	gin.SetMode(gin.TestMode)

	dash := dashboard.New(dataset.New([]models.PressRelease{
		release("2023-01-05", "A", "Lithium Mining Update"),
		release("2023-02-10", "A", "Cabinet approves <b>scheme</b>"),
		release("2024-03-01", "B", "Rail budget announced"),
	}))
	sessions := session.NewStore(time.Hour, dash.DefaultState)

	router := gin.New()
	NewSPAServer(enabled, dash, sessions, time.Hour, logger.Discard()).RegisterRoutes(router)
	NewSwaggerServer(enabled).RegisterRoutes(router)
	return router, sessions
}

func get(router *gin.Engine, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", target, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == session.CookieName {
			return cookie
		}
	}
	t.Fatal("response has no session cookie")
	return nil
}

func TestSPAServer_New(t *testing.T) {
	spaServer := NewSPAServer(true, nil, nil, time.Minute, logger.Discard())
	if spaServer == nil {
		t.Fatal("Expected SPA server to be created, got nil")
	}

	if !spaServer.enabled {
		t.Error("Expected SPA server to be enabled")
	}

	spaServer = NewSPAServer(false, nil, nil, time.Minute, logger.Discard())
	if spaServer.enabled {
		t.Error("Expected SPA server to be disabled")
	}
}

func TestTemplates_Parse(t *testing.T) {
	tmpl := Templates()
	if tmpl.Lookup("dashboard.html") == nil {
		t.Error("Expected dashboard.html to be parsed")
	}
}

func TestDashboardPage_Defaults(t *testing.T) {
	router, _ := testRouter(true)

	w := get(router, "/")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Total Press Releases")
	assert.Contains(t, body, "Rail budget announced")
	assert.NotContains(t, body, "Lithium Mining Update")
	assert.Contains(t, body, `<a href="https://pib.gov.in/2024-03-01" target="_blank" rel="noopener">https://pib.gov.in/2024-03-01</a>`)
	// the page and the API render the same anchor
	assert.Contains(t, body, views.Link("https://pib.gov.in/2024-03-01"))
	assert.Contains(t, body, "2024-03")
	sessionCookie(t, w)
}

func TestDashboardPage_ApplyFilters(t *testing.T) {
	router, sessions := testRouter(true)

	first := get(router, "/")
	cookie := sessionCookie(t, first)

	w := get(router, "/?apply=1&year=2023&aggregation=yearly&keyword=lithium", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lithium Mining Update")
	assert.NotContains(t, w.Body.String(), "Rail budget announced")
	assert.Contains(t, w.Body.String(), "Press releases over time (Yearly)")

	state := sessions.Get(cookie.Value)
	assert.Equal(t, []int{2023}, state.Years)
	assert.Equal(t, "lithium", state.Keyword)
	assert.Equal(t, models.Yearly, state.Aggregation)

	// a plain reload keeps the stored selection
	w = get(router, "/", cookie)
	assert.Contains(t, w.Body.String(), "Lithium Mining Update")
}

func TestDashboardPage_EscapesTitles(t *testing.T) {
	router, _ := testRouter(true)

	w := get(router, "/?apply=1&year=2023")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cabinet approves &lt;b&gt;scheme&lt;/b&gt;")
	assert.NotContains(t, w.Body.String(), "<b>scheme</b>")
}

func TestDashboardPage_NoYearSelected(t *testing.T) {
	router, _ := testRouter(true)

	w := get(router, "/?apply=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Select at least one year")
	assert.NotContains(t, w.Body.String(), "Total Press Releases")
}

func TestDashboardPage_InvalidYear(t *testing.T) {
	router, _ := testRouter(true)

	w := get(router, "/?apply=1&year=twenty")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid year")
}

func TestDashboardPage_KeywordTooLong(t *testing.T) {
	router, _ := testRouter(true)

	keyword := url.QueryEscape(strings.Repeat("ü", models.MaxKeywordLength))
	w := get(router, "/?apply=1&year=2023&keyword="+keyword)
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(router, "/?apply=1&year=2023&keyword="+keyword+"x")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "keyword too long")
}

func TestDashboardPage_Disabled(t *testing.T) {
	router, _ := testRouter(false)

	w := get(router, "/")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSwaggerServer_New(t *testing.T) {
	swaggerServer := NewSwaggerServer(true)
	if !swaggerServer.enabled {
		t.Error("Expected Swagger server to be enabled")
	}

	swaggerServer = NewSwaggerServer(false)
	if swaggerServer.enabled {
		t.Error("Expected Swagger server to be disabled")
	}
}

func TestSwaggerServer_ServesDoc(t *testing.T) {
	router, _ := testRouter(true)

	w := get(router, "/swagger/doc.json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "/dashboard"))
}

func TestBars(t *testing.T) {
	got := bars([]models.AggregatedBucket{
		{Key: "2023", Count: 200},
		{Key: "2024", Count: 50},
		{Key: "2025", Count: 1},
	})

	require.Len(t, got, 3)
	assert.Equal(t, 100, got[0].Percent)
	assert.Equal(t, 25, got[1].Percent)
	assert.Equal(t, 1, got[2].Percent)
	assert.Empty(t, bars(nil))
}

func TestPaginate(t *testing.T) {
	rows := make([]models.TableRow, 250)
	for i := range rows {
		rows[i].Title = string(rune('a' + i%26))
	}

	tests := []struct {
		raw      string
		wantPage int
		wantLen  int
	}{
		{"", 1, 100},
		{"2", 2, 100},
		{"3", 3, 50},
		{"99", 3, 50},
		{"-1", 1, 100},
		{"x", 1, 100},
	}

	for _, tt := range tests {
		page, pages, got := paginate(rows, tt.raw)
		assert.Equal(t, tt.wantPage, page, "page for %q", tt.raw)
		assert.Equal(t, 3, pages)
		assert.Len(t, got, tt.wantLen, "rows for %q", tt.raw)
	}

	page, pages, got := paginate([]models.TableRow{}, "")
	assert.Equal(t, 1, page)
	assert.Equal(t, 1, pages)
	assert.Empty(t, got)
}
