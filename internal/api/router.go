package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tgpulse/tgpulse/internal/loader"
	"github.com/tgpulse/tgpulse/internal/model"
)

type Server struct {
	loader  *loader.Loader
	channel string
	limit   int
}

func NewServer(l *loader.Loader, channel string, limit int) *Server {
	return &Server{loader: l, channel: channel, limit: limit}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(pageTemplate)

	r.GET("/", s.page)
	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/posts", s.listPosts)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listPosts(c *gin.Context) {
	limit := s.limit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < limit {
			limit = n
		}
	}

	posts, photos := s.loader.Load(c.Request.Context())
	if len(posts) > limit {
		posts = posts[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data": gin.H{
			"posts":     posts,
			"photos":    photos,
			"avatar":    s.loader.Avatar(),
			"updatedAt": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) page(c *gin.Context) {
	posts, _ := s.loader.Load(c.Request.Context())

	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, postView{Post: p, Icon: mediaIcon(p.MediaType)})
	}

	c.HTML(http.StatusOK, "page", gin.H{
		"Channel":   s.channel,
		"Avatar":    s.loader.Avatar(),
		"Posts":     views,
		"UpdatedAt": time.Now().Format("2006-01-02 15:04"),
	})
}

type postView struct {
	model.Post
	Icon string
}

func mediaIcon(t model.MediaType) string {
	switch t {
	case model.MediaPhoto:
		return "📷"
	case model.MediaVideo:
		return "🎥"
	default:
		return "💬"
	}
}
