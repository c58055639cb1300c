package service

import (
	"time"

	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/model"
)

// CreateJobRequest crew 引用 + 岗位信息
type CreateJobRequest struct {
	CrewContentID  int    `json:"crewContentId"`
	CrewKey        string `json:"crewKey"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	TotalPositions int    `json:"totalPositions"`
}

// UpdateJobRequest 指针字段区分"没传"和"清空"
type UpdateJobRequest struct {
	JobID          uint64  `json:"jobId"`
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	TotalPositions *int    `json:"totalPositions"`
	IsActive       *bool   `json:"isActive"`
}

// JobListItem 岗位 + crew 展示信息 + 当前用户报名标注
type JobListItem struct {
	JobID              uint64                   `json:"jobId"`
	CrewContentID      int                      `json:"crewContentId"`
	CrewKey            string                   `json:"crewKey"`
	CrewName           string                   `json:"crewName"`
	CrewURL            string                   `json:"crewUrl"`
	JobTitle           string                   `json:"jobTitle"`
	JobDescription     string                   `json:"jobDescription"`
	TotalPositions     int                      `json:"totalPositions"`
	FilledPositions    int                      `json:"filledPositions"`
	AvailablePositions int                      `json:"availablePositions"`
	IsActive           bool                     `json:"isActive"`
	HasApplied         bool                     `json:"hasApplied"`
	ApplicationID      *uint64                  `json:"applicationId,omitempty"`
	ApplicationStatus  *model.ApplicationStatus `json:"applicationStatus,omitempty"`
}

// AvailableJobsData 报名页聚合
type AvailableJobsData struct {
	Jobs                    []JobListItem `json:"jobs"`
	IsAuthenticated         bool          `json:"isAuthenticated"`
	TotalJobs               int           `json:"totalJobs"`
	TotalAvailablePositions int           `json:"totalAvailablePositions"`
}

// ApplicationDetail 报名单 + crew/member 展示信息
type ApplicationDetail struct {
	ApplicationID      uint64                  `json:"applicationId"`
	JobID              uint64                  `json:"jobId"`
	JobTitle           string                  `json:"jobTitle"`
	CrewContentID      int                     `json:"crewContentId"`
	CrewKey            string                  `json:"crewKey"`
	CrewName           string                  `json:"crewName"`
	CrewURL            string                  `json:"crewUrl"`
	MemberID           int                     `json:"memberId"`
	MemberKey          string                  `json:"memberKey"`
	MemberEmail        string                  `json:"memberEmail"`
	MemberName         string                  `json:"memberName"`
	MemberPhone        string                  `json:"memberPhone,omitempty"`
	MemberBirthdate    *time.Time              `json:"memberBirthdate,omitempty"`
	MemberAge          *int                    `json:"memberAge,omitempty"`
	Status             model.ApplicationStatus `json:"status"`
	ApplicationMessage string                  `json:"applicationMessage,omitempty"`
	SubmittedAt        time.Time               `json:"submittedAt"`
	ReviewedAt         *time.Time              `json:"reviewedAt,omitempty"`
	ReviewedByMemberID *int                    `json:"reviewedByMemberId,omitempty"`
	ReviewedByName     string                  `json:"reviewedByName,omitempty"`
	TicketLink         string                  `json:"ticketLink,omitempty"`
	AdminNotes         string                  `json:"adminNotes,omitempty"`
}

// SubmitResult 提交结果；失败时 ErrorMessage 可直接展示
type SubmitResult struct {
	Success       bool    `json:"success"`
	ApplicationID *uint64 `json:"applicationId,omitempty"`
	ErrorMessage  string  `json:"errorMessage,omitempty"`
}

// ReviewRequest 评审入参；TicketLink 为空表示保留旧值
type ReviewRequest struct {
	ApplicationID uint64                  `json:"applicationId"`
	NewStatus     model.ApplicationStatus `json:"newStatus"`
	AdminNotes    string                  `json:"adminNotes"`
	TicketLink    string                  `json:"ticketLink"`
}

// ReviewResult EmailSent 独立于 Success：通知失败不回滚状态
type ReviewResult struct {
	Success      bool   `json:"success"`
	EmailSent    bool   `json:"emailSent"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// ManageApplicationsData 审核页三桶视图
type ManageApplicationsData struct {
	PendingApplications  []ApplicationDetail `json:"pendingApplications"`
	AcceptedApplications []ApplicationDetail `json:"acceptedApplications"`
	RejectedApplications []ApplicationDetail `json:"rejectedApplications"`
	IsAdmin              bool                `json:"isAdmin"`
	IsScheduler          bool                `json:"isScheduler"`
	ManagedCrewIDs       []int               `json:"managedCrewIds"`
}
