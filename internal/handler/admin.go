package handler

import (
	"ipguard/internal/dto"
	cErr "ipguard/internal/pkg/error"
	"ipguard/internal/pkg/response"
	"ipguard/internal/service"
	"ipguard/internal/telemetry"
	"ipguard/utils/validate"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	trace      *telemetry.Trace
	blocklist  *service.BlocklistService
	requestLog *service.RequestLogService
	detector   *service.DetectorService
}

func NewAdminHandler(
	trace *telemetry.Trace,
	blocklist *service.BlocklistService,
	requestLog *service.RequestLogService,
	detector *service.DetectorService,
) *AdminHandler {
	return &AdminHandler{
		trace:      trace,
		blocklist:  blocklist,
		requestLog: requestLog,
		detector:   detector,
	}
}

// ListRequestLogs 請求紀錄列表
// @Summary 取得請求紀錄（新到舊）
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param page query int false "頁碼"
// @Param size query int false "每頁筆數"
// @Success 200 {array} dto.RequestLogResponseDto
// @Failure 500 {object} map[string]string
// @Router /admin/request-logs [get]
func (h *AdminHandler) ListRequestLogs(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	page, size, respErr := pageParams(c)
	if respErr != nil {
		response.AbortWithError(c, respErr)
		return
	}
	logs, err := h.requestLog.List(ctx, page, size)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, logs)
}

// ListBlockedIPs 封鎖名單列表
// @Summary 取得封鎖名單（新到舊）
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param page query int false "頁碼"
// @Param size query int false "每頁筆數"
// @Success 200 {array} dto.BlockedIPResponseDto
// @Failure 500 {object} map[string]string
// @Router /admin/blocked-ips [get]
func (h *AdminHandler) ListBlockedIPs(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	page, size, respErr := pageParams(c)
	if respErr != nil {
		response.AbortWithError(c, respErr)
		return
	}
	entries, err := h.blocklist.List(ctx, page, size)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, entries)
}

// BlockIP 封鎖 IP
// @Summary 將 IP 加入封鎖名單
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.BlockIPDto true "封鎖資訊"
// @Success 201 {object} dto.BlockedIPResponseDto
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/blocked-ips [post]
func (h *AdminHandler) BlockIP(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var req dto.BlockIPDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	entry, created, err := h.blocklist.Block(ctx, req.IPAddress, req.Reason)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	if created {
		response.Create(c, entry)
		return
	}
	response.Success(c, entry)
}

// UnblockIP 解除封鎖
// @Summary 將 IP 移出封鎖名單
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param ip path string true "IP address"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/blocked-ips/{ip} [delete]
func (h *AdminHandler) UnblockIP(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	ip := c.Param("ip")
	if err := h.blocklist.Unblock(ctx, ip); err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, "ip unblocked successfully")
}

// ListSuspiciousIPs 可疑名單列表
// @Summary 取得可疑 IP 名單（新到舊）
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param page query int false "頁碼"
// @Param size query int false "每頁筆數"
// @Success 200 {array} dto.SuspiciousIPResponseDto
// @Failure 500 {object} map[string]string
// @Router /admin/suspicious-ips [get]
func (h *AdminHandler) ListSuspiciousIPs(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	page, size, respErr := pageParams(c)
	if respErr != nil {
		response.AbortWithError(c, respErr)
		return
	}
	entries, err := h.detector.ListSuspicious(ctx, page, size)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, entries)
}

// RunDetector 立即執行一次可疑流量掃描
// @Summary 觸發可疑流量掃描
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} service.DetectorSummary
// @Failure 500 {object} map[string]string
// @Router /admin/detector/run [post]
func (h *AdminHandler) RunDetector(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	summary, err := h.detector.Run(ctx)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, summary)
}

func pageParams(c *gin.Context) (page, size int64, respErr error) {
	page, err := validate.GetInt64Query(c, "page", 0)
	if err != nil {
		return 0, 0, cErr.BadRequestParams("invalid page")
	}
	size, err = validate.GetInt64Query(c, "size", 20)
	if err != nil {
		return 0, 0, cErr.BadRequestParams("invalid size")
	}
	return page, size, nil
}
