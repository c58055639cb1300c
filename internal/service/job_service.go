package service

import (
	"context"
	"strings"
	"time"

	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/cms"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/model"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/repository/mysql"
)

const (
	maxJobTitleLen       = 200
	maxJobDescriptionLen = 2000
)

// JobService 岗位目录 CRUD 与列表投影
type JobService struct {
	jobs    *mysql.JobRepository
	apps    *mysql.ApplicationRepository
	content cms.ContentDirectory
	crews   *CrewService
	perm    *PermissionService
}

func NewJobService(content cms.ContentDirectory, crews *CrewService, perm *PermissionService) *JobService {
	return &JobService{
		jobs:    &mysql.JobRepository{DB: mysql.DB},
		apps:    &mysql.ApplicationRepository{DB: mysql.DB},
		content: content,
		crews:   crews,
		perm:    perm,
	}
}

func validateJobFields(title, description string, totalPositions int) error {
	if strings.TrimSpace(title) == "" {
		return errf(ErrValidation, "job title is required")
	}
	if len(title) > maxJobTitleLen {
		return errf(ErrValidation, "job title must be at most 200 characters")
	}
	if len(description) > maxJobDescriptionLen {
		return errf(ErrValidation, "job description must be at most 2000 characters")
	}
	if totalPositions < 0 {
		return errf(ErrValidation, "total positions cannot be negative")
	}
	return nil
}

// CreateJob 仅 admin 或主管该 crew 的 scheduler 可建岗；新岗位默认上架
func (s *JobService) CreateJob(ctx context.Context, actorEmail string, req CreateJobRequest) (*model.CrewJob, error) {
	role, err := s.perm.ResolveRole(ctx, actorEmail)
	if err != nil {
		return nil, err
	}
	if err := s.requireCrewManage(ctx, role, req.CrewContentID); err != nil {
		return nil, err
	}
	if err := validateJobFields(req.Title, req.Description, req.TotalPositions); err != nil {
		return nil, err
	}

	crew, err := s.content.FindByID(ctx, req.CrewContentID)
	if err != nil {
		return nil, err
	}
	if crew == nil || crew.TypeAlias != cms.CrewContentTypeAlias {
		return nil, errf(ErrValidation, "crew page not found")
	}

	job := &model.CrewJob{
		CrewContentID:  req.CrewContentID,
		CrewKey:        strings.ToLower(crew.Key),
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		TotalPositions: req.TotalPositions,
		IsActive:       true,
		CreatedAt:      time.Now(),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// UpdateJob 部分更新；nil 字段保持原值。filled_positions 只走评审路径，不在此处改。
func (s *JobService) UpdateJob(ctx context.Context, actorEmail string, req UpdateJobRequest) (*model.CrewJob, error) {
	job, err := s.jobs.FindByID(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	role, err := s.perm.ResolveRole(ctx, actorEmail)
	if err != nil {
		return nil, err
	}
	if err := s.requireCrewManage(ctx, role, job.CrewContentID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Title != nil {
		job.Title = strings.TrimSpace(*req.Title)
		fields["title"] = job.Title
	}
	if req.Description != nil {
		job.Description = *req.Description
		fields["description"] = job.Description
	}
	if req.TotalPositions != nil {
		job.TotalPositions = *req.TotalPositions
		fields["total_positions"] = job.TotalPositions
	}
	if req.IsActive != nil {
		job.IsActive = *req.IsActive
		fields["is_active"] = job.IsActive
	}
	if err := validateJobFields(job.Title, job.Description, job.TotalPositions); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return job, nil
	}
	if _, err := s.jobs.UpdateFields(ctx, req.JobID, fields); err != nil {
		return nil, err
	}
	return job, nil
}

// DeleteJob 连带删除全部报名记录
func (s *JobService) DeleteJob(ctx context.Context, actorEmail string, jobID uint64) error {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return ErrJobNotFound
	}

	role, err := s.perm.ResolveRole(ctx, actorEmail)
	if err != nil {
		return err
	}
	if err := s.requireCrewManage(ctx, role, job.CrewContentID); err != nil {
		return err
	}

	affected, err := s.jobs.Delete(ctx, jobID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (s *JobService) GetJob(ctx context.Context, jobID uint64) (*model.CrewJob, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// AvailableJobs 活跃且有空位的岗位，按创建时间正序；登录用户带已报名标注
func (s *JobService) AvailableJobs(ctx context.Context, actorEmail string) (*AvailableJobsData, error) {
	jobs, err := s.jobs.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]JobListItem, 0, len(jobs))
	for i := range jobs {
		item := s.toListItem(ctx, &jobs[i])
		s.annotateForActor(ctx, &item, &jobs[i], actorEmail)
		items = append(items, item)
	}

	total, err := s.jobs.SumAvailablePositions(ctx)
	if err != nil {
		return nil, err
	}
	return &AvailableJobsData{
		Jobs:                    items,
		IsAuthenticated:         actorEmail != "",
		TotalJobs:               len(items),
		TotalAvailablePositions: total,
	}, nil
}

// JobsForCrew 某 crew 的全部岗位（含停用和满员），倒序
func (s *JobService) JobsForCrew(ctx context.Context, actorEmail string, crewContentID int) ([]JobListItem, error) {
	role, err := s.perm.ResolveRole(ctx, actorEmail)
	if err != nil {
		return nil, err
	}
	if err := s.requireCrewManage(ctx, role, crewContentID); err != nil {
		return nil, err
	}

	jobs, err := s.jobs.ListByCrew(ctx, crewContentID)
	if err != nil {
		return nil, err
	}
	items := make([]JobListItem, 0, len(jobs))
	for i := range jobs {
		items = append(items, s.toListItem(ctx, &jobs[i]))
	}
	return items, nil
}

func (s *JobService) toListItem(ctx context.Context, job *model.CrewJob) JobListItem {
	return JobListItem{
		JobID:              job.ID,
		CrewContentID:      job.CrewContentID,
		CrewKey:            job.CrewKey,
		CrewName:           s.crews.CrewName(ctx, job.CrewContentID),
		CrewURL:            s.crews.CrewURL(ctx, job.CrewContentID),
		JobTitle:           job.Title,
		JobDescription:     job.Description,
		TotalPositions:     job.TotalPositions,
		FilledPositions:    job.FilledPositions,
		AvailablePositions: job.AvailablePositions(),
		IsActive:           job.IsActive,
	}
}

func (s *JobService) annotateForActor(ctx context.Context, item *JobListItem, job *model.CrewJob, actorEmail string) {
	if actorEmail == "" {
		return
	}
	app, err := s.apps.FindForJobAndEmail(ctx, job.ID, actorEmail)
	if err != nil || app == nil {
		return
	}
	item.HasApplied = true
	item.ApplicationID = &app.ID
	status := app.Status
	item.ApplicationStatus = &status
}

// requireCrewManage admin 放行；scheduler 必须主管该 crew
func (s *JobService) requireCrewManage(ctx context.Context, role Role, crewContentID int) error {
	if role.IsAdmin {
		return nil
	}
	if !role.IsScheduler {
		return ErrForbidden
	}
	crewIDs, err := s.perm.SupervisedCrewIDs(ctx, role.MemberKey)
	if err != nil {
		return err
	}
	for _, id := range crewIDs {
		if id == crewContentID {
			return nil
		}
	}
	return ErrForbidden
}
