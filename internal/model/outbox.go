package model

import "time"

// ApplicationOutbox 报名事件监控表，和业务写同一事务，由 relay 异步投递 kafka
type ApplicationOutbox struct {
	ID            uint64 `gorm:"primaryKey"`
	EventType     string `gorm:"size:16;not null"` // submitted / accepted / rejected / withdrawn
	ApplicationID uint64 `gorm:"not null;index"`
	CrewJobID     uint64 `gorm:"not null"`
	Payload       string `gorm:"type:json;not null"`
	Status        int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry         int    `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (ApplicationOutbox) TableName() string { return "application_outbox" }
