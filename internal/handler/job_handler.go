package handler

import (
	"net/http"
	"strconv"

	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/middleware"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/service"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	svc *service.JobService
}

func NewJobHandler(svc *service.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

// Available 报名页：活跃有空位的岗位 + 总空位数
func (h *JobHandler) Available(c *gin.Context) {
	data, err := h.svc.AvailableJobs(c.Request.Context(), middleware.MemberEmail(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// ListByCrew 某 crew 的全部岗位（管理视角）
func (h *JobHandler) ListByCrew(c *gin.Context) {
	crewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || crewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid crew id"})
		return
	}

	list, err := h.svc.JobsForCrew(c.Request.Context(), middleware.MemberEmail(c), crewID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": list})
}

// Get 单个岗位
func (h *JobHandler) Get(c *gin.Context) {
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || jobID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid job id"})
		return
	}

	job, err := h.svc.GetJob(c.Request.Context(), jobID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Create 建岗（admin 或主管该 crew 的 scheduler）
func (h *JobHandler) Create(c *gin.Context) {
	var req service.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	job, err := h.svc.CreateJob(c.Request.Context(), middleware.MemberEmail(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobId": job.ID})
}

// Update 部分更新；body 里没给的字段不动
func (h *JobHandler) Update(c *gin.Context) {
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || jobID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid job id"})
		return
	}

	var req service.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	req.JobID = jobID

	job, err := h.svc.UpdateJob(c.Request.Context(), middleware.MemberEmail(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobId": job.ID})
}

// Delete 删岗，连带删除报名记录
func (h *JobHandler) Delete(c *gin.Context) {
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || jobID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid job id"})
		return
	}

	if err := h.svc.DeleteJob(c.Request.Context(), middleware.MemberEmail(c), jobID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "deleted"})
}
