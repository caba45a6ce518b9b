package site

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

// htmlRender lets gin's c.HTML execute the site's per-view templates.
type htmlRender struct {
	s *Site
}

func (h htmlRender) Instance(name string, data any) render.Render {
	return render.HTML{Template: h.s.views[name], Name: "base", Data: data}
}

// Handler returns a gin engine serving the site under the base path.
func (s *Site) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.HTMLRender = htmlRender{s: s}

	css := func(c *gin.Context) {
		c.Data(http.StatusOK, "text/css; charset=utf-8", s.Stylesheet())
	}
	js := func(c *gin.Context) {
		c.Data(http.StatusOK, "text/javascript; charset=utf-8", s.Script())
	}
	for _, prefix := range s.assetRoots() {
		r.GET(prefix+"/assets/site.css", css)
		r.GET(prefix+"/assets/site.js", js)
	}

	g := r.Group(s.opts.BasePath + "/")
	g.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, ViewHome, s.homeView())
	})
	g.GET("/thoughts/", func(c *gin.Context) {
		c.HTML(http.StatusOK, ViewThoughts, s.thoughtIndexView())
	})
	g.GET("/thoughts/:slug/", func(c *gin.Context) {
		v, err := s.thoughtView(c.Param("slug"))
		if err != nil {
			s.notFound(c)
			return
		}
		c.HTML(http.StatusOK, ViewThought, v)
	})

	r.NoRoute(s.notFound)
	return r
}

// assetRoots lists the local prefixes assets are served under. An
// absolute asset prefix (a CDN) is not served locally.
func (s *Site) assetRoots() []string {
	roots := []string{s.opts.BasePath}
	p := s.opts.AssetPrefix
	if p != s.opts.BasePath && strings.HasPrefix(p, "/") {
		roots = append(roots, p)
	}
	return roots
}

func (s *Site) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, ViewNotFound, s.notFoundView())
}

// requestLogger logs page requests. Asset fetches and requests sent with
// Do Not Track are skipped.
func (s *Site) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if strings.Contains(c.Request.URL.Path, "/assets/") || c.GetHeader("DNT") == "1" {
			return
		}
		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"referer", c.Request.Referer(),
		)
	}
}
