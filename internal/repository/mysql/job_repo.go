package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/model"

	"gorm.io/gorm"
)

type JobRepository struct {
	DB *gorm.DB
}

func (r *JobRepository) Create(ctx context.Context, job *model.CrewJob) error {
	return r.DB.WithContext(ctx).Create(job).Error
}

// FindByID 不存在返回 (nil, nil)，error 只表示存储层故障
func (r *JobRepository) FindByID(ctx context.Context, id uint64) (*model.CrewJob, error) {
	var job model.CrewJob
	err := r.DB.WithContext(ctx).First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateFields 局部更新；返回影响行数区分 NotFound
func (r *JobRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]any) (int64, error) {
	fields["updated_at"] = time.Now().UTC()
	tx := r.DB.WithContext(ctx).Model(&model.CrewJob{}).Where("id = ?", id).Updates(fields)
	return tx.RowsAffected, tx.Error
}

// Delete 硬删除，报名记录按外键级联；调用侧先把级联删掉兜底（sqlite 外键默认关）
func (r *JobRepository) Delete(ctx context.Context, id uint64) (int64, error) {
	var affected int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("crew_job_id = ?", id).Delete(&model.JobApplication{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.CrewJob{}, id)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}

// ListActive 还在招且有名额的岗位，老岗位排前面
func (r *JobRepository) ListActive(ctx context.Context) ([]model.CrewJob, error) {
	var list []model.CrewJob
	err := r.DB.WithContext(ctx).
		Where("is_active = ? AND filled_positions < total_positions", true).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

// ListByCrew 一个 crew 的全部岗位（含关闭的），新岗位排前面
func (r *JobRepository) ListByCrew(ctx context.Context, crewContentID int) ([]model.CrewJob, error) {
	var list []model.CrewJob
	err := r.DB.WithContext(ctx).
		Where("crew_content_id = ?", crewContentID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// SumAvailablePositions 活跃未满岗位的剩余名额合计
func (r *JobRepository) SumAvailablePositions(ctx context.Context) (int, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&model.CrewJob{}).
		Where("is_active = ? AND filled_positions < total_positions", true).
		Select("COALESCE(SUM(total_positions - filled_positions), 0)").
		Scan(&total).Error
	return int(total), err
}

// IncrementFilled 条件自增：名额满了就失败（RowsAffected=0），并发下也不会超录
func (r *JobRepository) IncrementFilled(ctx context.Context, jobID uint64) (bool, error) {
	tx := r.DB.WithContext(ctx).Model(&model.CrewJob{}).
		Where("id = ? AND filled_positions < total_positions", jobID).
		UpdateColumn("filled_positions", gorm.Expr("filled_positions + 1"))
	return tx.RowsAffected > 0, tx.Error
}

// DecrementFilled 自减，防负由 SQL 兜底
func (r *JobRepository) DecrementFilled(ctx context.Context, jobID uint64) error {
	return r.DB.WithContext(ctx).Model(&model.CrewJob{}).
		Where("id = ?", jobID).
		UpdateColumn("filled_positions",
			gorm.Expr("CASE WHEN filled_positions > 0 THEN filled_positions - 1 ELSE 0 END")).
		Error
}
