package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/cms"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/config"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/model"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/repository/mysql"
)

// setupDB 每个测试独立的内存库，挂到包全局 DB 上
func setupDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.CrewJob{}, &model.JobApplication{}, &model.ApplicationOutbox{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	mysql.DB = db
}

const (
	testAdminGroupKey     = "99e1edbb-8181-421d-a74b-e66a2f1e1148"
	testSchedulerGroupKey = "e6eef645-b13b-4edb-880b-7b3cdf5b6816"
)

var testRoles = config.RoleConfig{
	AdminGroupKey:     testAdminGroupKey,
	SchedulerGroupKey: testSchedulerGroupKey,
}

// fakeMembers 内存版成员库
type fakeMembers struct {
	byEmail map[string]*cms.Member
	roles   map[int][]string
	groups  map[string]string
}

var _ cms.MemberDirectory = (*fakeMembers)(nil)

func newFakeMembers() *fakeMembers {
	return &fakeMembers{
		byEmail: map[string]*cms.Member{},
		roles:   map[int][]string{},
		groups: map[string]string{
			testAdminGroupKey:     "Admin",
			testSchedulerGroupKey: "Scheduler",
		},
	}
}

func (f *fakeMembers) add(m cms.Member, roles ...string) *fakeMembers {
	f.byEmail[m.Email] = &m
	f.roles[m.ID] = roles
	return f
}

func (f *fakeMembers) FindByEmail(_ context.Context, email string) (*cms.Member, error) {
	return f.byEmail[email], nil
}

func (f *fakeMembers) FindByID(_ context.Context, id int) (*cms.Member, error) {
	for _, m := range f.byEmail {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMembers) FindByKey(_ context.Context, key string) (*cms.Member, error) {
	for _, m := range f.byEmail {
		if strings.EqualFold(m.Key, key) {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMembers) ListAll(_ context.Context) ([]cms.Member, error) {
	var out []cms.Member
	for _, m := range f.byEmail {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMembers) RolesOf(_ context.Context, memberID int) ([]string, error) {
	return f.roles[memberID], nil
}

func (f *fakeMembers) GroupNameByKey(_ context.Context, groupKey string) (string, error) {
	return f.groups[groupKey], nil
}

// fakeContent 内存版内容库
type fakeContent struct {
	nodes []cms.Content
	urls  map[string]string
}

var _ cms.ContentDirectory = (*fakeContent)(nil)

func newFakeContent() *fakeContent {
	return &fakeContent{urls: map[string]string{}}
}

func (f *fakeContent) addCrew(id int, key, name string, props map[string]any) *fakeContent {
	if props == nil {
		props = map[string]any{}
	}
	f.nodes = append(f.nodes, cms.Content{
		ID: id, Key: key, Name: name,
		TypeAlias:  cms.CrewContentTypeAlias,
		Properties: props,
	})
	return f
}

func (f *fakeContent) FindByID(_ context.Context, id int) (*cms.Content, error) {
	for i := range f.nodes {
		if f.nodes[i].ID == id {
			return &f.nodes[i], nil
		}
	}
	return nil, nil
}

func (f *fakeContent) FindByKey(_ context.Context, key string) (*cms.Content, error) {
	for i := range f.nodes {
		if strings.EqualFold(f.nodes[i].Key, key) {
			return &f.nodes[i], nil
		}
	}
	return nil, nil
}

func (f *fakeContent) ListByType(_ context.Context, typeAlias string) ([]cms.Content, error) {
	var out []cms.Content
	for i := range f.nodes {
		if f.nodes[i].TypeAlias == typeAlias {
			out = append(out, f.nodes[i])
		}
	}
	return out, nil
}

func (f *fakeContent) PublicURL(_ context.Context, key string) (string, error) {
	return f.urls[strings.ToLower(key)], nil
}

// recordingNotifier 记录调用；succeed 控制返回值
type recordingNotifier struct {
	succeed bool
	calls   []string
}

var _ Notifier = (*recordingNotifier)(nil)

func (n *recordingNotifier) SendJobApplicationAccepted(toEmail, memberName, jobTitle, crewName, ticketLink string) bool {
	n.calls = append(n.calls, toEmail)
	return n.succeed
}

func mustCreateJob(t *testing.T, job *model.CrewJob) *model.CrewJob {
	t.Helper()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	if err := mysql.DB.Create(job).Error; err != nil {
		t.Fatalf("create job: %v", err)
	}
	return job
}
