package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muurk/coachsite/internal/content"
	"github.com/muurk/coachsite/internal/logging"
	"github.com/muurk/coachsite/internal/urls"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

func (s *Server) newEngine() (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(requestLogger())
	engine.Use(gin.Recovery())

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	engine.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}
	engine.StaticFS(urls.Resources, http.FS(static))

	engine.GET(urls.Health, s.handleHealth)

	engine.GET(urls.Home, s.handleHome)
	engine.GET(urls.About, s.handleAbout)
	engine.GET(urls.FAQ, s.handleFAQ)
	engine.GET(urls.Services, s.handleServices)
	engine.GET(urls.Inquiry, s.handleInquiry)

	book := engine.Group(urls.Book)
	book.GET("", s.handleBookOpen)
	book.GET("/:id", s.handleBookView)
	book.POST("/:id", s.handleBookSubmit)
	book.DELETE("/:id", s.handleBookClose)
	book.POST("/:id/field", s.handleBookField)
	book.GET("/:id/state", s.handleBookState)
	book.GET("/:id/events", s.handleBookEvents)

	engine.NoRoute(s.handleNotFound)

	return engine, nil
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"bookService": urls.BookService,
		"toggle":      content.Toggle,
		"millis":      func(d time.Duration) int64 { return d.Milliseconds() },
		"seconds":     refreshSeconds,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// requestLogger logs every completed request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.LogRequest(
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
		)
	}
}

// refreshSeconds rounds d up to whole seconds for a meta refresh.
func refreshSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64((d + time.Second - 1) / time.Second)
}
