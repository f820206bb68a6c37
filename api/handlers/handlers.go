package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/go-pkgz/lgr"

	"github.com/seojun-park/naverboard/internal/config"
	"github.com/seojun-park/naverboard/internal/services"
	"github.com/seojun-park/naverboard/internal/session"
)

// Handler serves the dashboard JSON API.
type Handler struct {
	Cfg      *config.Config
	Search   *services.SearchClient
	DataLab  *services.DataLabClient
	Sessions *session.Store
}

// New creates the API handler set.
func New(cfg *config.Config, search *services.SearchClient, datalab *services.DataLabClient, sessions *session.Store) *Handler {
	return &Handler{
		Cfg:      cfg,
		Search:   search,
		DataLab:  datalab,
		Sessions: sessions,
	}
}

// abortWithError maps error kinds to HTTP responses: missing configuration
// becomes 503 with the instructional message, an upstream non-200 becomes
// 502 with full diagnostic context, anything else 500. All of them are
// terminal for the triggering user action.
func abortWithError(c *gin.Context, err error) {
	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": cfgErr.Msg, "kind": "configuration"})
		return
	}

	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		log.Printf("[WARN] upstream error: %v", apiErr)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":    "네이버 API 호출에 실패했습니다.",
			"kind":     "remote",
			"endpoint": apiErr.Endpoint,
			"status":   apiErr.StatusCode,
			"body":     apiErr.Body,
		})
		return
	}

	log.Printf("[ERROR] request failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// credentials resolves the API secrets for this request, preferring the
// session override supplied through the dashboard sidebar.
func (h *Handler) credentials(c *gin.Context) (config.Credentials, error) {
	return session.FromContext(c).Credentials(h.Cfg)
}
