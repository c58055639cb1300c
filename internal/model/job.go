package model

import "time"

// CrewJob 一个 crew 下的招募岗位；crew 本体存在外部 CMS，这里只存引用
type CrewJob struct {
	ID              uint64     `gorm:"primaryKey"`
	CrewContentID   int        `gorm:"not null;index"`         // CMS 内容 int id，查询用的主关联键
	CrewKey         string     `gorm:"size:36;not null;index"` // CMS 内容 GUID，仅用于展示/链接
	Title           string     `gorm:"size:200;not null"`
	Description     string     `gorm:"size:2000"`
	TotalPositions  int        `gorm:"not null"`
	FilledPositions int        `gorm:"not null;default:0"`
	// 不给 default 标签：带 default 的零值字段会被 Create 跳过，false 会被吃掉
	IsActive        bool       `gorm:"not null;index"`
	CreatedAt       time.Time
	UpdatedAt       *time.Time `gorm:"autoUpdateTime:false"`
}

func (CrewJob) TableName() string { return "crew_jobs" }

// AvailablePositions 剩余名额；filled 超过 total 时也不返回负数
func (j *CrewJob) AvailablePositions() int {
	if n := j.TotalPositions - j.FilledPositions; n > 0 {
		return n
	}
	return 0
}
