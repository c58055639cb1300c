package handler

import (
	"net/http"
	"strconv"

	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/middleware"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/model"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/service"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	svc *service.ApplicationService
}

type SubmitApplicationReq struct {
	JobID   uint64 `json:"jobId"`
	Message string `json:"message"`
}

type ReviewApplicationReq struct {
	NewStatus  int    `json:"newStatus"`
	AdminNotes string `json:"adminNotes"`
	TicketLink string `json:"ticketLink"`
}

func NewApplicationHandler(svc *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

// Submit 提交报名
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req SubmitApplicationReq
	if err := c.ShouldBindJSON(&req); err != nil || req.JobID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), middleware.MemberEmail(c), req.JobID, req.Message)
	if err != nil {
		c.JSON(statusFor(err), service.SubmitResult{ErrorMessage: service.MsgFor(err)})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Withdraw 本人撤回 Pending 报名
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	appID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || appID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid application id"})
		return
	}

	if err := h.svc.Withdraw(c.Request.Context(), middleware.MemberEmail(c), appID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "withdrawn"})
}

// Mine 我的报名列表
func (h *ApplicationHandler) Mine(c *gin.Context) {
	list, err := h.svc.MemberApplications(c.Request.Context(), middleware.MemberEmail(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": list})
}

// ReviewList 审核页三桶视图
func (h *ApplicationHandler) ReviewList(c *gin.Context) {
	data, err := h.svc.ApplicationsForReview(c.Request.Context(), middleware.MemberEmail(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// Review 评审（accept / reject）
func (h *ApplicationHandler) Review(c *gin.Context) {
	appID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || appID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid application id"})
		return
	}

	var req ReviewApplicationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	result, err := h.svc.Review(c.Request.Context(), middleware.MemberEmail(c), service.ReviewRequest{
		ApplicationID: appID,
		NewStatus:     model.ApplicationStatus(req.NewStatus),
		AdminNotes:    req.AdminNotes,
		TicketLink:    req.TicketLink,
	})
	if err != nil {
		c.JSON(statusFor(err), service.ReviewResult{ErrorMessage: service.MsgFor(err)})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get 单条报名详情（本人或有权限的评审人）
func (h *ApplicationHandler) Get(c *gin.Context) {
	appID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || appID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid application id"})
		return
	}

	detail, err := h.svc.ApplicationByID(c.Request.Context(), middleware.MemberEmail(c), appID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ListForJob 单个岗位的全部报名（管理视角）
func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || jobID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid job id"})
		return
	}

	list, err := h.svc.ApplicationsForJob(c.Request.Context(), middleware.MemberEmail(c), jobID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": list})
}

// PendingCount 待审数角标
func (h *ApplicationHandler) PendingCount(c *gin.Context) {
	n, err := h.svc.PendingCount(c.Request.Context(), middleware.MemberEmail(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pendingCount": n})
}
