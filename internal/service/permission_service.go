package service

import (
	"context"
	"log"
	"sync"

	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/cms"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/config"
)

// Role 按 email 解析出的权限；查不到成员时两个标志都为 false（fail closed）
type Role struct {
	IsAdmin     bool
	IsScheduler bool
	MemberID    int
	MemberKey   string
}

func (r Role) CanReview() bool { return r.IsAdmin || r.IsScheduler }

// PermissionService 只读权限解析：角色组成员关系 + scheduler 名下的 crew。
// 组 GUID 来自配置，组名首次用到时解析并缓存。
type PermissionService struct {
	members cms.MemberDirectory
	content cms.ContentDirectory
	roles   config.RoleConfig

	mu            sync.Mutex
	adminName     string
	schedulerName string
}

func NewPermissionService(members cms.MemberDirectory, content cms.ContentDirectory, roles config.RoleConfig) *PermissionService {
	return &PermissionService{
		members: members,
		content: content,
		roles:   roles,
	}
}

func (s *PermissionService) ResolveRole(ctx context.Context, email string) (Role, error) {
	var role Role
	if email == "" {
		return role, nil
	}

	member, err := s.members.FindByEmail(ctx, email)
	if err != nil {
		return role, err
	}
	if member == nil {
		return role, nil
	}
	role.MemberID = member.ID
	role.MemberKey = member.Key

	memberRoles, err := s.members.RolesOf(ctx, member.ID)
	if err != nil {
		return role, err
	}

	adminName, schedulerName, err := s.groupNames(ctx)
	if err != nil {
		return role, err
	}
	for _, name := range memberRoles {
		if adminName != "" && name == adminName {
			role.IsAdmin = true
		}
		if schedulerName != "" && name == schedulerName {
			role.IsScheduler = true
		}
	}
	return role, nil
}

// SupervisedCrewIDs 线性扫全部 crew 页面，看 supervisors / scheduleSupervisor
// 两个引用串里有没有该成员。O(crews)，crew 量级在几十到一两百，可接受。
func (s *PermissionService) SupervisedCrewIDs(ctx context.Context, memberKey string) ([]int, error) {
	crews, err := s.content.ListByType(ctx, cms.CrewContentTypeAlias)
	if err != nil {
		return nil, err
	}

	memberUDI := cms.MemberUDI(memberKey)
	ids := make([]int, 0)
	for i := range crews {
		crew := &crews[i]
		supervisors := crew.GetString(cms.PropSupervisors)
		scheduleSupervisor := crew.GetString(cms.PropScheduleSupervisor)
		if cms.ContainsUDI(supervisors, memberUDI) || cms.ContainsUDI(scheduleSupervisor, memberUDI) {
			ids = append(ids, crew.ID)
		}
	}
	return ids, nil
}

// groupNames 组名懒解析；失败只记日志，下次再试
func (s *PermissionService) groupNames(ctx context.Context) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.adminName == "" {
		name, err := s.members.GroupNameByKey(ctx, s.roles.AdminGroupKey)
		if err != nil {
			return "", "", err
		}
		if name == "" {
			log.Printf("permission: admin group %s not found in cms", s.roles.AdminGroupKey)
		}
		s.adminName = name
	}
	if s.schedulerName == "" {
		name, err := s.members.GroupNameByKey(ctx, s.roles.SchedulerGroupKey)
		if err != nil {
			return "", "", err
		}
		if name == "" {
			log.Printf("permission: scheduler group %s not found in cms", s.roles.SchedulerGroupKey)
		}
		s.schedulerName = name
	}
	return s.adminName, s.schedulerName, nil
}
