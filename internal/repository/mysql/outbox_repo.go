package mysql

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// Insert 和业务写同一事务调用（传事务句柄进来）
func (r *OutboxRepository) Insert(ctx context.Context, event string, app *model.JobApplication) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time":     time.Now().UTC().Format(time.RFC3339Nano),
		"application_id": app.ID,
		"job_id":         app.CrewJobID,
		"member_key":     app.MemberKey,
		"status":         app.Status.String(),
	})
	ob := &model.ApplicationOutbox{
		EventType:     event,
		ApplicationID: app.ID,
		CrewJobID:     app.CrewJobID,
		Payload:       string(payload),
		Status:        0,
	}
	return r.DB.WithContext(ctx).Create(ob).Error
}

func (r *OutboxRepository) ListPending(ctx context.Context, batchSize int) ([]model.ApplicationOutbox, error) {
	var list []model.ApplicationOutbox
	err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error
	return list, err
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ApplicationOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}

// MarkFailed 标记失败并计数，由人工或对账任务决定是否重投
func (r *OutboxRepository) MarkFailed(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ApplicationOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}
