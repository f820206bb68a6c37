package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seojun-park/naverboard/internal/session"
)

// HandleHealth serves GET /api/health.
func (h *Handler) HandleHealth(c *gin.Context) {
	_, err := h.Cfg.Credentials()
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"time":        time.Now().Format(time.RFC3339),
		"credentials": err == nil,
		"sessions":    h.Sessions.Len(),
	})
}

// credentialsRequest is the sidebar credential override form.
type credentialsRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// HandleSetCredentials serves POST /api/session/credentials: an override
// scoped to the calling session, never written to the environment or disk.
func (h *Handler) HandleSetCredentials(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 요청입니다.", "details": err.Error()})
		return
	}
	if req.ClientID == "" || req.ClientSecret == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Client ID와 Client Secret을 모두 입력하세요."})
		return
	}

	session.FromContext(c).SetCredentials(req.ClientID, req.ClientSecret)
	c.JSON(http.StatusOK, gin.H{"notice": "현재 세션에 자격증명을 적용했습니다."})
}

// HandleIndex serves the dashboard page. Autorun fires only on a session's
// first page load so a fresh tab starts with results already on screen.
func (h *Handler) HandleIndex(c *gin.Context) {
	st := session.FromContext(c)

	autorun := false
	var lastQuery string
	st.Update(func(s *session.State) {
		autorun = !s.DidFirstLoad
		s.DidFirstLoad = true
		lastQuery = s.LastQuery
	})
	if lastQuery == "" {
		lastQuery = "리뷰 자동화"
	}

	_, credErr := st.Credentials(h.Cfg)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Autorun":        autorun,
		"Query":          lastQuery,
		"HasCredentials": credErr == nil,
	})
}
