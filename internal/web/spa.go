package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"pibdash/internal/dashboard"
	"pibdash/internal/models"
	"pibdash/internal/session"
	"pibdash/internal/views"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const pageSize = 100

//go:embed templates/*.html
var templatesFS embed.FS

// SPAServer serves the dashboard page. The page is rendered on the server and
// the filter form is submitted back to "/" as query parameters.
type SPAServer struct {
	enabled    bool
	dashboard  *dashboard.Dashboard
	sessions   *session.Store
	sessionTTL time.Duration
	log        *slog.Logger
}

// NewSPAServer creates a new dashboard page server
func NewSPAServer(enabled bool, dash *dashboard.Dashboard, sessions *session.Store, sessionTTL time.Duration, log *slog.Logger) *SPAServer {
	return &SPAServer{
		enabled:    enabled,
		dashboard:  dash,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

// RegisterRoutes registers the dashboard page with the Gin router
func (s *SPAServer) RegisterRoutes(router *gin.Engine) {
	if !s.enabled {
		s.log.Info("dashboard page disabled")
		return
	}

	router.SetHTMLTemplate(Templates())
	router.GET("/", session.Middleware(s.sessionTTL), s.serveDashboard)
}

// Templates parses the embedded page templates.
func Templates() *template.Template {
	funcs := template.FuncMap{
		"hasYear":     func(years []int, year int) bool { return slices.Contains(years, year) },
		"hasMinistry": func(ministries []string, m string) bool { return slices.Contains(ministries, m) },
		"label": func(g models.Granularity) string {
			return cases.Title(language.English).String(string(g))
		},
		"prev": func(page int) int { return page - 1 },
		"next": func(page int) int { return page + 1 },
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html"))
}

type seriesBar struct {
	Key     string
	Count   int
	Percent int
}

type dashboardPage struct {
	Title    string
	Choices  models.Choices
	Filters  models.FilterState
	View     *models.DashboardView
	Bars     []seriesBar
	Rows     []models.TableRow
	Page     int
	Pages    int
	Skipped  int
	Error    string
	NotReady bool
}

func (s *SPAServer) serveDashboard(c *gin.Context) {
	id := session.ID(c)
	page := dashboardPage{
		Title:   "PIB Press Release Dashboard",
		Choices: s.dashboard.Choices(),
		Skipped: len(s.dashboard.Dataset().Skipped()),
	}
	status := http.StatusOK

	state := s.sessions.Get(id)
	if _, submitted := c.GetQuery("apply"); submitted {
		next, err := stateFromQuery(c, state)
		if err != nil {
			status = http.StatusBadRequest
			page.Error = err.Error()
		} else {
			s.sessions.Save(id, next)
			state = next
		}
	}
	page.Filters = state

	view, err := s.dashboard.Render(state, views.MatchLanguage(c.GetHeader("Accept-Language")))
	switch {
	case errors.Is(err, dashboard.ErrFiltersNotReady):
		page.NotReady = true
	case err != nil:
		s.log.Error("render dashboard page", "error", err)
		status = http.StatusInternalServerError
		page.Error = err.Error()
	default:
		page.View = view
		page.Bars = bars(view.Series)
		page.Page, page.Pages, page.Rows = paginate(view.Table, c.Query("page"))
	}

	c.HTML(status, "dashboard.html", page)
}

// stateFromQuery builds the new selection from a submitted filter form. An
// unchecked year or ministry list arrives as no parameters at all.
func stateFromQuery(c *gin.Context, current models.FilterState) (models.FilterState, error) {
	next := models.FilterState{
		Years:       []int{},
		Ministries:  c.QueryArray("ministry"),
		Keyword:     c.Query("keyword"),
		Aggregation: current.Aggregation,
	}

	for _, raw := range c.QueryArray("year") {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return current, fmt.Errorf("invalid year %q", raw)
		}
		next.Years = append(next.Years, year)
	}

	if err := models.CheckKeyword(next.Keyword); err != nil {
		return current, err
	}

	if raw := c.Query("aggregation"); raw != "" {
		g, err := models.ParseGranularity(raw)
		if err != nil {
			return current, err
		}
		next.Aggregation = g
	}

	return next.Normalized(), nil
}

// bars scales each bucket against the largest one. Non-empty buckets always
// get a visible bar.
func bars(series []models.AggregatedBucket) []seriesBar {
	peak := 0
	for _, b := range series {
		peak = max(peak, b.Count)
	}

	out := make([]seriesBar, len(series))
	for i, b := range series {
		percent := 0
		if peak > 0 {
			percent = max(1, b.Count*100/peak)
		}
		out[i] = seriesBar{Key: b.Key, Count: b.Count, Percent: percent}
	}
	return out
}

// paginate returns the 1-based page number, the page count and the rows of
// the requested page. Out of range pages are clamped.
func paginate(rows []models.TableRow, raw string) (int, int, []models.TableRow) {
	pages := max(1, (len(rows)+pageSize-1)/pageSize)

	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		page = 1
	}
	page = min(page, pages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(rows))
	return page, pages, rows[start:end]
}
