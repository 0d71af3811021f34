package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muurk/coachsite/internal/content"
	"github.com/muurk/coachsite/internal/urls"
)

// layout is the data shared by every page template.
type layout struct {
	Brand   string
	Tagline string
	Title   string
	Path    string
	// Chrome is false on the 404 page, which renders without nav and footer.
	Chrome bool
	Nav    []navLink
	Footer content.Footer
}

type navLink struct {
	Path   string
	Title  string
	Colour string
	Active bool
}

func (s *Server) layout(path, title string) layout {
	known := urls.Known(path)
	l := layout{
		Brand:   s.site.Brand,
		Tagline: s.site.Tagline,
		Title:   title,
		Path:    path,
		Chrome:  known,
		Footer:  s.site.Footer,
	}
	if !known {
		return l
	}
	for _, r := range urls.Nav() {
		l.Nav = append(l.Nav, navLink{
			Path:   r.Path,
			Title:  r.Title,
			Colour: urls.NavColour(r.Path, path),
			Active: r.Path == path,
		})
	}
	return l
}

func (s *Server) render(c *gin.Context, status int, path string, data gin.H) {
	route, ok := urls.Lookup(path)
	page, title := "notfound.html", "Page not found"
	if ok {
		page, title = route.Page, route.Title
	}
	if data == nil {
		data = gin.H{}
	}
	data["Layout"] = s.layout(path, title)
	c.HTML(status, page, data)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Len()})
}

func (s *Server) handleHome(c *gin.Context) {
	s.render(c, http.StatusOK, urls.Home, gin.H{"Home": s.site.Home})
}

func (s *Server) handleAbout(c *gin.Context) {
	s.render(c, http.StatusOK, urls.About, gin.H{"About": s.site.About})
}

func (s *Server) handleServices(c *gin.Context) {
	s.render(c, http.StatusOK, urls.Services, gin.H{"Services": s.site.Services})
}

// handleFAQ renders the accordion with the panel named by ?open expanded.
func (s *Server) handleFAQ(c *gin.Context) {
	open := c.Query("open")
	s.render(c, http.StatusOK, urls.FAQ, gin.H{
		"FAQ":    s.site.FAQ,
		"Panels": s.site.FAQPanels(open),
		"Open":   open,
	})
}

func (s *Server) handleNotFound(c *gin.Context) {
	s.render(c, http.StatusNotFound, c.Request.URL.Path, nil)
}
