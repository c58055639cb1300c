package handler

import (
	"net/http"
	"strconv"

	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/middleware"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/service"

	"github.com/gin-gonic/gin"
)

type CrewHandler struct {
	crews *service.CrewService
	perm  *service.PermissionService
}

func NewCrewHandler(crews *service.CrewService, perm *service.PermissionService) *CrewHandler {
	return &CrewHandler{crews: crews, perm: perm}
}

// List admin 看全量 crew（带人数），普通成员只看自己被分配的
func (h *CrewHandler) List(c *gin.Context) {
	email := middleware.MemberEmail(c)
	role, err := h.perm.ResolveRole(c.Request.Context(), email)
	if err != nil {
		fail(c, err)
		return
	}

	data, err := h.crews.CrewsForMember(c.Request.Context(), email, role.IsAdmin)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// Get crew 详情；admin 额外带成员列表，非 admin 必须在分配名单里
func (h *CrewHandler) Get(c *gin.Context) {
	crewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || crewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid crew id"})
		return
	}

	email := middleware.MemberEmail(c)
	role, err := h.perm.ResolveRole(c.Request.Context(), email)
	if err != nil {
		fail(c, err)
		return
	}

	detail, err := h.crews.CrewDetail(c.Request.Context(), crewID, email, role.IsAdmin)
	if err != nil {
		fail(c, err)
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "crew not found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}
