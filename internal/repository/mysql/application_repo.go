package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/model"

	"gorm.io/gorm"
)

type ApplicationRepository struct {
	DB *gorm.DB
}

func (r *ApplicationRepository) Create(ctx context.Context, app *model.JobApplication) error {
	return r.DB.WithContext(ctx).Create(app).Error
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id uint64) (*model.JobApplication, error) {
	var app model.JobApplication
	err := r.DB.WithContext(ctx).Preload("CrewJob").First(&app, id).Error
	return &app, err
}

// Exists (job, memberKey) 是否已有报名；Withdrawn 也算（唯一索引同款语义）
func (r *ApplicationRepository) Exists(ctx context.Context, jobID uint64, memberKey string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.JobApplication{}).
		Where("crew_job_id = ? AND member_key = ?", jobID, memberKey).
		Count(&count).Error
	return count > 0, err
}

// FindForJobAndEmail 岗位列表上标注"我是否已报名"用
func (r *ApplicationRepository) FindForJobAndEmail(ctx context.Context, jobID uint64, email string) (*model.JobApplication, error) {
	var app model.JobApplication
	err := r.DB.WithContext(ctx).
		Where("crew_job_id = ? AND member_email = ?", jobID, email).
		First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) ListForMember(ctx context.Context, email string) ([]model.JobApplication, error) {
	var list []model.JobApplication
	err := r.DB.WithContext(ctx).Preload("CrewJob").
		Where("member_email = ?", email).
		Order("submitted_at DESC").
		Find(&list).Error
	return list, err
}

func (r *ApplicationRepository) ListForJob(ctx context.Context, jobID uint64) ([]model.JobApplication, error) {
	var list []model.JobApplication
	err := r.DB.WithContext(ctx).Preload("CrewJob").
		Where("crew_job_id = ?", jobID).
		Order("submitted_at DESC").
		Find(&list).Error
	return list, err
}

// ListForCrews crewContentIDs 为 nil 表示不过滤（admin 全量）
func (r *ApplicationRepository) ListForCrews(ctx context.Context, crewContentIDs []int) ([]model.JobApplication, error) {
	q := r.DB.WithContext(ctx).Preload("CrewJob")
	if crewContentIDs != nil {
		jobIDs, err := r.jobIDsForCrews(ctx, crewContentIDs)
		if err != nil {
			return nil, err
		}
		q = q.Where("crew_job_id IN ?", jobIDs)
	}
	var list []model.JobApplication
	err := q.Order("submitted_at DESC").Find(&list).Error
	return list, err
}

// PendingCount crewContentIDs 为 nil 表示全量
func (r *ApplicationRepository) PendingCount(ctx context.Context, crewContentIDs []int) (int, error) {
	q := r.DB.WithContext(ctx).Model(&model.JobApplication{}).
		Where("status = ?", model.StatusPending)
	if crewContentIDs != nil {
		jobIDs, err := r.jobIDsForCrews(ctx, crewContentIDs)
		if err != nil {
			return 0, err
		}
		q = q.Where("crew_job_id IN ?", jobIDs)
	}
	var count int64
	err := q.Count(&count).Error
	return int(count), err
}

// Withdraw 一步条件更新：本人 + Pending 才允许；没命中返回 false
func (r *ApplicationRepository) Withdraw(ctx context.Context, id uint64, email string) (bool, error) {
	tx := r.DB.WithContext(ctx).Model(&model.JobApplication{}).
		Where("id = ? AND member_email = ? AND status = ?", id, email, model.StatusPending).
		Update("status", model.StatusWithdrawn)
	return tx.RowsAffected > 0, tx.Error
}

// ApplyReview 状态带前置条件更新，并发评审互不覆盖；ticketLink 为空不动旧值
func (r *ApplicationRepository) ApplyReview(ctx context.Context, id uint64, prev, next model.ApplicationStatus,
	reviewerID int, adminNotes, ticketLink string) (bool, error) {
	now := time.Now().UTC()
	fields := map[string]any{
		"status":                next,
		"reviewed_at":           now,
		"reviewed_by_member_id": reviewerID,
		"admin_notes":           adminNotes,
	}
	if ticketLink != "" {
		fields["ticket_link"] = ticketLink
	}
	tx := r.DB.WithContext(ctx).Model(&model.JobApplication{}).
		Where("id = ? AND status = ?", id, prev).
		Updates(fields)
	return tx.RowsAffected > 0, tx.Error
}

func (r *ApplicationRepository) jobIDsForCrews(ctx context.Context, crewContentIDs []int) ([]uint64, error) {
	var jobIDs []uint64
	err := r.DB.WithContext(ctx).Model(&model.CrewJob{}).
		Where("crew_content_id IN ?", crewContentIDs).
		Pluck("id", &jobIDs).Error
	return jobIDs, err
}
