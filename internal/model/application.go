package model

import "time"

// ApplicationStatus 报名状态机：Pending -> Accepted/Rejected/Withdrawn
type ApplicationStatus int

const (
	StatusPending   ApplicationStatus = 0
	StatusAccepted  ApplicationStatus = 1
	StatusRejected  ApplicationStatus = 2
	StatusWithdrawn ApplicationStatus = 3
)

func (s ApplicationStatus) Valid() bool {
	return s >= StatusPending && s <= StatusWithdrawn
}

func (s ApplicationStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusAccepted:
		return "accepted"
	case StatusRejected:
		return "rejected"
	case StatusWithdrawn:
		return "withdrawn"
	default:
		return "unknown"
	}
}

// JobApplication 成员对岗位的一次报名
// member 的 email/name 是提交时刻的快照，之后不回刷（审计需要）
type JobApplication struct {
	ID                 uint64            `gorm:"primaryKey"`
	CrewJobID          uint64            `gorm:"not null;index;uniqueIndex:uk_job_member"`
	CrewJob            CrewJob           `gorm:"foreignKey:CrewJobID;constraint:OnDelete:CASCADE"`
	MemberID           int               `gorm:"not null"`
	MemberKey          string            `gorm:"size:36;not null;index;uniqueIndex:uk_job_member"`
	MemberEmail        string            `gorm:"size:255;not null;index"`
	MemberName         string            `gorm:"size:200;not null"`
	Status             ApplicationStatus `gorm:"not null;default:0;index"`
	ApplicationMessage string            `gorm:"size:1000"`
	SubmittedAt        time.Time         `gorm:"not null;index"`
	ReviewedAt         *time.Time
	ReviewedByMemberID *int
	TicketLink         string `gorm:"size:500"`
	AdminNotes         string `gorm:"size:1000"`
}

func (JobApplication) TableName() string { return "job_applications" }
