package cms

import (
	"context"
	"strings"
	"time"
)

// CMS 里各实体识别用的固定别名 / 属性名
const (
	CrewContentTypeAlias = "bbvCrewPage"

	PropFirstName          = "firstName"
	PropLastName           = "lastName"
	PropPhone              = "phone"
	PropBirthdate          = "birthdate"
	PropCrews              = "crews"
	PropCrewWishes         = "crewWishes"
	PropSupervisors        = "supervisors"
	PropScheduleSupervisor = "scheduleSupervisor"
	PropDescription        = "description"
	PropAgeLimit           = "ageLimit"
	PropAccepted           = "accept2026"
)

// Member CMS 成员快照；Properties 是动态属性包，用类型化 Get 读
type Member struct {
	ID         int
	Key        string
	Name       string
	Email      string
	Roles      []string
	Properties map[string]any
}

// DisplayName first+last 拼接；为空则退回 Name，再退回 Email
func (m *Member) DisplayName() string {
	name := strings.TrimSpace(m.GetString(PropFirstName) + " " + m.GetString(PropLastName))
	if name != "" {
		return name
	}
	if m.Name != "" {
		return m.Name
	}
	return m.Email
}

func (m *Member) GetString(name string) string { return getString(m.Properties, name) }
func (m *Member) GetBool(name string) bool     { return getBool(m.Properties, name) }
func (m *Member) GetTime(name string) *time.Time {
	return getTime(m.Properties, name)
}

// Content CMS 内容节点（crew 页面等）
type Content struct {
	ID         int
	Key        string
	Name       string
	TypeAlias  string
	Properties map[string]any
}

func (c *Content) GetString(name string) string { return getString(c.Properties, name) }
func (c *Content) GetInt(name string) (int, bool) {
	v, ok := c.Properties[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func getString(props map[string]any, name string) string {
	if v, ok := props[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getBool(props map[string]any, name string) bool {
	if v, ok := props[name]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

func getTime(props map[string]any, name string) *time.Time {
	v, ok := props[name]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return &t
	case *time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return &parsed
		}
	}
	return nil
}

// MemberDirectory 外部 CMS 成员库；找不到返回 (nil, nil)，error 只表示连接层故障
type MemberDirectory interface {
	FindByEmail(ctx context.Context, email string) (*Member, error)
	FindByID(ctx context.Context, id int) (*Member, error)
	FindByKey(ctx context.Context, key string) (*Member, error)
	ListAll(ctx context.Context) ([]Member, error)
	RolesOf(ctx context.Context, memberID int) ([]string, error)
	GroupNameByKey(ctx context.Context, groupKey string) (string, error)
}

// ContentDirectory 外部 CMS 内容库（只读）
type ContentDirectory interface {
	FindByID(ctx context.Context, id int) (*Content, error)
	FindByKey(ctx context.Context, key string) (*Content, error)
	ListByType(ctx context.Context, typeAlias string) ([]Content, error)
	PublicURL(ctx context.Context, key string) (string, error)
}
