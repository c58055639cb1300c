package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/cms"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/model"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/repository/mysql"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/repository/redis"
)

const maxApplicationMessageLen = 1000

// 出站事件类型
const (
	EventSubmitted = "submitted"
	EventAccepted  = "accepted"
	EventRejected  = "rejected"
	EventWithdrawn = "withdrawn"
)

// ApplicationService 报名工作流：提交、撤回、评审、列表投影。
// 容量账本（filled_positions）只在这里的事务里动。
type ApplicationService struct {
	apps     *mysql.ApplicationRepository
	jobs     *mysql.JobRepository
	cache    *redis.CountCacheRepository
	members  cms.MemberDirectory
	crews    *CrewService
	perm     *PermissionService
	notifier Notifier
}

func NewApplicationService(members cms.MemberDirectory, crews *CrewService, perm *PermissionService, notifier Notifier) *ApplicationService {
	return &ApplicationService{
		apps:     &mysql.ApplicationRepository{DB: mysql.DB},
		jobs:     &mysql.JobRepository{DB: mysql.DB},
		cache:    redis.NewCountCacheRepository(),
		members:  members,
		crews:    crews,
		perm:     perm,
		notifier: notifier,
	}
}

// Submit 提交报名：成员和岗位都要存在，岗位在架、有空位、未报过。
// email/name 取提交时刻快照。唯一索引兜底并发重复提交。
func (s *ApplicationService) Submit(ctx context.Context, actorEmail string, jobID uint64, message string) (*SubmitResult, error) {
	member, err := s.members.FindByEmail(ctx, actorEmail)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	if !job.IsActive {
		return nil, ErrJobClosed
	}
	if job.AvailablePositions() <= 0 {
		return nil, ErrNoCapacity
	}
	if len(message) > maxApplicationMessageLen {
		return nil, errf(ErrValidation, "application message must be at most 1000 characters")
	}

	exists, err := s.apps.Exists(ctx, jobID, member.Key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateApplication
	}

	app := &model.JobApplication{
		CrewJobID:          jobID,
		MemberID:           member.ID,
		MemberKey:          member.Key,
		MemberEmail:        member.Email,
		MemberName:         member.DisplayName(),
		Status:             model.StatusPending,
		ApplicationMessage: message,
		SubmittedAt:        time.Now().UTC(),
	}
	err = mysql.DB.Transaction(func(tx *gorm.DB) error {
		apps := &mysql.ApplicationRepository{DB: tx}
		if err := apps.Create(ctx, app); err != nil {
			return err
		}
		outbox := &mysql.OutboxRepository{DB: tx}
		return outbox.Insert(ctx, EventSubmitted, app)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateApplication
		}
		return nil, err
	}

	s.invalidatePendingCount(ctx)
	return &SubmitResult{Success: true, ApplicationID: &app.ID}, nil
}

// Withdraw 本人撤回自己的 Pending 报名；其余状态一律拒绝
func (s *ApplicationService) Withdraw(ctx context.Context, actorEmail string, applicationID uint64) error {
	app, err := s.findApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	// 非本人按不存在处理，不向外确认这条报名存在
	if app.MemberEmail != actorEmail {
		return ErrApplicationNotFound
	}
	if app.Status != model.StatusPending {
		return errf(ErrValidation, "only pending applications can be withdrawn")
	}

	err = mysql.DB.Transaction(func(tx *gorm.DB) error {
		apps := &mysql.ApplicationRepository{DB: tx}
		changed, err := apps.Withdraw(ctx, applicationID, actorEmail)
		if err != nil {
			return err
		}
		if !changed {
			return ErrConcurrentUpdate
		}
		app.Status = model.StatusWithdrawn
		outbox := &mysql.OutboxRepository{DB: tx}
		return outbox.Insert(ctx, EventWithdrawn, app)
	})
	if err != nil {
		return err
	}

	s.invalidatePendingCount(ctx)
	return nil
}

// Review 评审：目标状态只能是 Accepted/Rejected。
// 转入 Accepted 要先抢到名额（条件自增），满了整个评审回滚；
// 从 Accepted 转出释放名额；Accepted -> Accepted 名额不动。
// 邮件在事务提交后发，失败只压 EmailSent 标志，不回滚状态。
func (s *ApplicationService) Review(ctx context.Context, reviewerEmail string, req ReviewRequest) (*ReviewResult, error) {
	if req.NewStatus != model.StatusAccepted && req.NewStatus != model.StatusRejected {
		return nil, errf(ErrValidation, "new status must be accepted or rejected")
	}

	app, err := s.findApplication(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}

	role, err := s.perm.ResolveRole(ctx, reviewerEmail)
	if err != nil {
		return nil, err
	}
	if role.MemberID == 0 {
		return nil, ErrReviewerNotFound
	}
	if !role.CanReview() {
		return nil, ErrForbidden
	}
	if !role.IsAdmin {
		allowed, err := s.supervisesCrew(ctx, role, app.CrewJob.CrewContentID)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrForbidden
		}
	}
	if app.Status == model.StatusWithdrawn {
		return nil, errf(ErrValidation, "withdrawn applications cannot be reviewed")
	}

	prev := app.Status
	next := req.NewStatus
	err = mysql.DB.Transaction(func(tx *gorm.DB) error {
		jobs := &mysql.JobRepository{DB: tx}
		if next == model.StatusAccepted && prev != model.StatusAccepted {
			ok, err := jobs.IncrementFilled(ctx, app.CrewJobID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrNoCapacity
			}
		}
		if prev == model.StatusAccepted && next != model.StatusAccepted {
			if err := jobs.DecrementFilled(ctx, app.CrewJobID); err != nil {
				return err
			}
		}

		apps := &mysql.ApplicationRepository{DB: tx}
		changed, err := apps.ApplyReview(ctx, app.ID, prev, next, role.MemberID, req.AdminNotes, req.TicketLink)
		if err != nil {
			return err
		}
		if !changed {
			return ErrConcurrentUpdate
		}

		app.Status = next
		event := EventRejected
		if next == model.StatusAccepted {
			event = EventAccepted
		}
		outbox := &mysql.OutboxRepository{DB: tx}
		return outbox.Insert(ctx, event, app)
	})
	if err != nil {
		return nil, err
	}

	s.invalidatePendingCount(ctx)

	emailSent := false
	if next == model.StatusAccepted && prev != model.StatusAccepted {
		ticketLink := req.TicketLink
		if ticketLink == "" {
			ticketLink = app.TicketLink
		}
		crewName := s.crews.CrewName(ctx, app.CrewJob.CrewContentID)
		emailSent = s.notifier.SendJobApplicationAccepted(
			app.MemberEmail, app.MemberName, app.CrewJob.Title, crewName, ticketLink)
	}
	return &ReviewResult{Success: true, EmailSent: emailSent}, nil
}

// MemberApplications 我的报名列表，倒序
func (s *ApplicationService) MemberApplications(ctx context.Context, actorEmail string) ([]ApplicationDetail, error) {
	list, err := s.apps.ListForMember(ctx, actorEmail)
	if err != nil {
		return nil, err
	}
	details := make([]ApplicationDetail, 0, len(list))
	for i := range list {
		details = append(details, s.toDetail(ctx, &list[i], false))
	}
	return details, nil
}

// ApplicationsForReview 审核页三桶视图。admin 全量；scheduler 只看主管 crew 的，
// 一个 crew 都不主管就什么都看不到。Withdrawn 不进任何桶。
// 无权限的访问者拿到空视图（两个标志都 false），不报错。
func (s *ApplicationService) ApplicationsForReview(ctx context.Context, actorEmail string) (*ManageApplicationsData, error) {
	role, err := s.perm.ResolveRole(ctx, actorEmail)
	if err != nil {
		return nil, err
	}
	if !role.CanReview() {
		return &ManageApplicationsData{
			PendingApplications:  []ApplicationDetail{},
			AcceptedApplications: []ApplicationDetail{},
			RejectedApplications: []ApplicationDetail{},
			ManagedCrewIDs:       []int{},
		}, nil
	}

	var crewIDs []int
	if !role.IsAdmin {
		crewIDs, err = s.perm.SupervisedCrewIDs(ctx, role.MemberKey)
		if err != nil {
			return nil, err
		}
	}

	list, err := s.apps.ListForCrews(ctx, crewIDs)
	if err != nil {
		return nil, err
	}

	data := &ManageApplicationsData{
		PendingApplications:  []ApplicationDetail{},
		AcceptedApplications: []ApplicationDetail{},
		RejectedApplications: []ApplicationDetail{},
		IsAdmin:              role.IsAdmin,
		IsScheduler:          role.IsScheduler,
		ManagedCrewIDs:       crewIDs,
	}
	for i := range list {
		detail := s.toDetail(ctx, &list[i], true)
		switch list[i].Status {
		case model.StatusPending:
			data.PendingApplications = append(data.PendingApplications, detail)
		case model.StatusAccepted:
			data.AcceptedApplications = append(data.AcceptedApplications, detail)
		case model.StatusRejected:
			data.RejectedApplications = append(data.RejectedApplications, detail)
		}
	}
	return data, nil
}

// ApplicationsForJob 单个岗位的全部报名；需要对岗位所属 crew 有评审权
func (s *ApplicationService) ApplicationsForJob(ctx context.Context, actorEmail string, jobID uint64) ([]ApplicationDetail, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	if err := s.requireReviewScope(ctx, actorEmail, job.CrewContentID); err != nil {
		return nil, err
	}

	list, err := s.apps.ListForJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	details := make([]ApplicationDetail, 0, len(list))
	for i := range list {
		details = append(details, s.toDetail(ctx, &list[i], true))
	}
	return details, nil
}

// ApplicationByID 本人可看自己的；评审人要有该 crew 的权限
func (s *ApplicationService) ApplicationByID(ctx context.Context, actorEmail string, applicationID uint64) (*ApplicationDetail, error) {
	app, err := s.findApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	enrich := false
	if app.MemberEmail != actorEmail {
		if err := s.requireReviewScope(ctx, actorEmail, app.CrewJob.CrewContentID); err != nil {
			return nil, err
		}
		enrich = true
	}
	detail := s.toDetail(ctx, app, enrich)
	return &detail, nil
}

// PendingCount admin 全量计数走 redis 缓存；scheduler 按主管 crew 实时算
func (s *ApplicationService) PendingCount(ctx context.Context, actorEmail string) (int, error) {
	role, err := s.perm.ResolveRole(ctx, actorEmail)
	if err != nil {
		return 0, err
	}
	if !role.CanReview() {
		return 0, ErrForbidden
	}

	if role.IsAdmin {
		if n, hit, err := s.cache.GetPendingCount(ctx); err == nil && hit {
			return n, nil
		}
		n, err := s.apps.PendingCount(ctx, nil)
		if err != nil {
			return 0, err
		}
		if err := s.cache.SetPendingCount(ctx, n); err != nil {
			log.Printf("application: cache pending count failed: %v", err)
		}
		return n, nil
	}

	crewIDs, err := s.perm.SupervisedCrewIDs(ctx, role.MemberKey)
	if err != nil {
		return 0, err
	}
	return s.apps.PendingCount(ctx, crewIDs)
}

func (s *ApplicationService) findApplication(ctx context.Context, id uint64) (*model.JobApplication, error) {
	app, err := s.apps.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (s *ApplicationService) requireReviewScope(ctx context.Context, actorEmail string, crewContentID int) error {
	role, err := s.perm.ResolveRole(ctx, actorEmail)
	if err != nil {
		return err
	}
	if !role.CanReview() {
		return ErrForbidden
	}
	if role.IsAdmin {
		return nil
	}
	allowed, err := s.supervisesCrew(ctx, role, crewContentID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrForbidden
	}
	return nil
}

func (s *ApplicationService) supervisesCrew(ctx context.Context, role Role, crewContentID int) (bool, error) {
	crewIDs, err := s.perm.SupervisedCrewIDs(ctx, role.MemberKey)
	if err != nil {
		return false, err
	}
	for _, id := range crewIDs {
		if id == crewContentID {
			return true, nil
		}
	}
	return false, nil
}

// toDetail 补 crew 展示信息；enrich 再补成员联系方式/年龄和评审人名字（审核视图用）
func (s *ApplicationService) toDetail(ctx context.Context, app *model.JobApplication, enrich bool) ApplicationDetail {
	detail := ApplicationDetail{
		ApplicationID:      app.ID,
		JobID:              app.CrewJobID,
		JobTitle:           app.CrewJob.Title,
		CrewContentID:      app.CrewJob.CrewContentID,
		CrewKey:            app.CrewJob.CrewKey,
		CrewName:           s.crews.CrewName(ctx, app.CrewJob.CrewContentID),
		CrewURL:            s.crews.CrewURL(ctx, app.CrewJob.CrewContentID),
		MemberID:           app.MemberID,
		MemberKey:          app.MemberKey,
		MemberEmail:        app.MemberEmail,
		MemberName:         app.MemberName,
		Status:             app.Status,
		ApplicationMessage: app.ApplicationMessage,
		SubmittedAt:        app.SubmittedAt,
		ReviewedAt:         app.ReviewedAt,
		ReviewedByMemberID: app.ReviewedByMemberID,
		TicketLink:         app.TicketLink,
		AdminNotes:         app.AdminNotes,
	}
	if enrich {
		profile := s.crews.MemberProfile(ctx, app.MemberEmail)
		detail.MemberPhone = profile.Phone
		detail.MemberBirthdate = profile.Birthdate
		detail.MemberAge = profile.Age
		if app.ReviewedByMemberID != nil {
			detail.ReviewedByName = s.crews.ReviewerName(ctx, *app.ReviewedByMemberID)
		}
	}
	return detail
}

func (s *ApplicationService) invalidatePendingCount(ctx context.Context) {
	if err := s.cache.InvalidatePendingCount(ctx); err != nil {
		log.Printf("application: invalidate pending count failed: %v", err)
	}
}
