package handler

import (
	"ipguard/internal/pkg/response"
	"ipguard/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// AuthHandler 登入端點本身只是限流的掛載點，實際驗證交給上游身分系統
type AuthHandler struct {
	trace *telemetry.Trace
}

func NewAuthHandler(trace *telemetry.Trace) *AuthHandler {
	return &AuthHandler{trace: trace}
}

// Login 登入
// @Summary 登入（受 IP 與用戶雙重限流保護）
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	_, _, end := h.trace.WithSpan(c)
	defer end(nil)

	response.Success(c, "login attempt processed")
}
