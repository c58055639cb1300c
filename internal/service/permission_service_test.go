package service

import (
	"context"
	"testing"

	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/cms"
)

func TestResolveRole(t *testing.T) {
	members := newFakeMembers().
		add(cms.Member{ID: 1, Key: "k1", Email: "admin@x.dk"}, "Admin").
		add(cms.Member{ID: 2, Key: "k2", Email: "sched@x.dk"}, "Scheduler").
		add(cms.Member{ID: 3, Key: "k3", Email: "both@x.dk"}, "Admin", "Scheduler").
		add(cms.Member{ID: 4, Key: "k4", Email: "plain@x.dk"}, "Bartenders")
	perm := NewPermissionService(members, newFakeContent(), testRoles)

	tests := []struct {
		email         string
		wantAdmin     bool
		wantScheduler bool
		wantMemberID  int
	}{
		{"admin@x.dk", true, false, 1},
		{"sched@x.dk", false, true, 2},
		{"both@x.dk", true, true, 3},
		{"plain@x.dk", false, false, 4},
		{"ghost@x.dk", false, false, 0},
		{"", false, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			role, err := perm.ResolveRole(context.Background(), tt.email)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if role.IsAdmin != tt.wantAdmin || role.IsScheduler != tt.wantScheduler || role.MemberID != tt.wantMemberID {
				t.Errorf("role = %+v", role)
			}
		})
	}
}

func TestCanReview(t *testing.T) {
	if (Role{}).CanReview() {
		t.Error("empty role should not review")
	}
	if !(Role{IsAdmin: true}).CanReview() || !(Role{IsScheduler: true}).CanReview() {
		t.Error("admin and scheduler should review")
	}
}

func TestSupervisedCrewIDs(t *testing.T) {
	const supervisorKey = "5f0c4b1a-90df-4c43-b6cf-7a3f1c2d4e5f"
	udi := cms.MemberUDI(supervisorKey)

	content := newFakeContent().
		addCrew(1, "key-1", "Bar", map[string]any{cms.PropSupervisors: udi + ",umb://member/other-key"}).
		addCrew(2, "key-2", "Gate", map[string]any{cms.PropScheduleSupervisor: udi}).
		addCrew(3, "key-3", "Stage", map[string]any{cms.PropSupervisors: "umb://member/other-key"}).
		addCrew(4, "key-4", "Empty", nil)
	perm := NewPermissionService(newFakeMembers(), content, testRoles)

	ids, err := perm.SupervisedCrewIDs(context.Background(), supervisorKey)
	if err != nil {
		t.Fatalf("supervised: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("ids = %v, want [1 2]", ids)
	}

	none, err := perm.SupervisedCrewIDs(context.Background(), "missing-key")
	if err != nil {
		t.Fatalf("supervised: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("ids = %v, want non-nil empty slice", none)
	}
}
