package service

import (
	"context"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/cms"
)

const (
	unknownCrewName = "Unknown Crew"
	unknownCrewURL  = "#"

	crewDescriptionPreviewLen = 150
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// CrewListItem crew 页面投影
type CrewListItem struct {
	ID               int    `json:"id"`
	Key              string `json:"key"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	AgeLimit         *int   `json:"ageLimit,omitempty"`
	URL              string `json:"url,omitempty"`
	MemberCount      int    `json:"memberCount,omitempty"`
	IsMemberAssigned bool   `json:"isMemberAssigned,omitempty"`
}

type CrewsPageData struct {
	Crews   []CrewListItem `json:"crews"`
	IsAdmin bool           `json:"isAdmin"`
}

type CrewMemberInfo struct {
	MemberID  int    `json:"memberId"`
	MemberKey string `json:"memberKey"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Accepted  bool   `json:"accepted"`
}

type CrewDetailData struct {
	CrewListItem
	Members []CrewMemberInfo `json:"members,omitempty"`
}

// MemberEnrichment 审核视图里成员联系方式/年龄等展示信息
type MemberEnrichment struct {
	Phone     string
	Birthdate *time.Time
	Age       *int
}

// CrewService 只读投影：把 job/报名记录补上 crew 名称、URL 和成员资料。
// 外部 CMS 不可用或节点不存在时一律回退展示值，绝不抛错中断业务。
type CrewService struct {
	members cms.MemberDirectory
	content cms.ContentDirectory
}

func NewCrewService(members cms.MemberDirectory, content cms.ContentDirectory) *CrewService {
	return &CrewService{members: members, content: content}
}

func (s *CrewService) CrewName(ctx context.Context, crewContentID int) string {
	crew, err := s.content.FindByID(ctx, crewContentID)
	if err != nil {
		log.Printf("crew: lookup %d failed: %v", crewContentID, err)
		return unknownCrewName
	}
	if crew == nil || crew.Name == "" {
		return unknownCrewName
	}
	return crew.Name
}

func (s *CrewService) CrewURL(ctx context.Context, crewContentID int) string {
	crew, err := s.content.FindByID(ctx, crewContentID)
	if err != nil || crew == nil {
		return unknownCrewURL
	}
	url, err := s.content.PublicURL(ctx, crew.Key)
	if err != nil || url == "" {
		return unknownCrewURL
	}
	return url
}

// ReviewerName 查不到就返回空串，由前端决定兜底
func (s *CrewService) ReviewerName(ctx context.Context, memberID int) string {
	member, err := s.members.FindByID(ctx, memberID)
	if err != nil || member == nil {
		return ""
	}
	return member.DisplayName()
}

func (s *CrewService) MemberProfile(ctx context.Context, email string) MemberEnrichment {
	var enrich MemberEnrichment
	member, err := s.members.FindByEmail(ctx, email)
	if err != nil || member == nil {
		return enrich
	}
	enrich.Phone = member.GetString(cms.PropPhone)
	if birthdate := member.GetTime(cms.PropBirthdate); birthdate != nil && birthdate.Year() > 1900 {
		enrich.Birthdate = birthdate
		age := AgeAt(*birthdate, time.Now())
		enrich.Age = &age
	}
	return enrich
}

// AgeAt 整年年龄；今年生日还没到要减一
func AgeAt(birthdate, today time.Time) int {
	age := today.Year() - birthdate.Year()
	if today.Month() < birthdate.Month() ||
		(today.Month() == birthdate.Month() && today.Day() < birthdate.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// CrewsForMember admin 看全量（带人数），普通成员只看自己被分配的 crew
func (s *CrewService) CrewsForMember(ctx context.Context, memberEmail string, isAdmin bool) (CrewsPageData, error) {
	result := CrewsPageData{IsAdmin: isAdmin, Crews: []CrewListItem{}}

	if isAdmin {
		crews, err := s.allCrews(ctx)
		if err != nil {
			return result, err
		}
		counts, err := s.crewMemberCounts(ctx)
		if err != nil {
			return result, err
		}
		for i := range crews {
			crews[i].MemberCount = counts[crews[i].ID]
		}
		result.Crews = crews
	} else {
		member, err := s.members.FindByEmail(ctx, memberEmail)
		if err != nil {
			return result, err
		}
		if member == nil {
			log.Printf("crew: member not found for email %s", memberEmail)
			return result, nil
		}
		for _, key := range cms.ParseUDIList(cms.UDIDocumentPrefix, member.GetString(cms.PropCrews)) {
			item := s.crewItemByKey(ctx, key)
			if item == nil {
				continue
			}
			item.IsMemberAssigned = true
			result.Crews = append(result.Crews, *item)
		}
	}

	sort.Slice(result.Crews, func(i, j int) bool { return result.Crews[i].Name < result.Crews[j].Name })
	return result, nil
}

// CrewDetail 非 admin 必须在 crew 的分配名单里；admin 额外带完整成员列表
func (s *CrewService) CrewDetail(ctx context.Context, crewID int, memberEmail string, isAdmin bool) (*CrewDetailData, error) {
	crew, err := s.content.FindByID(ctx, crewID)
	if err != nil {
		return nil, err
	}
	if crew == nil || crew.TypeAlias != cms.CrewContentTypeAlias {
		return nil, nil
	}

	if !isAdmin {
		member, err := s.members.FindByEmail(ctx, memberEmail)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, nil
		}
		if !s.memberAssignedTo(member, crewID, map[string]int{strings.ToLower(crew.Key): crew.ID}) {
			log.Printf("crew: member %s attempted to access crew %d without assignment", memberEmail, crewID)
			return nil, nil
		}
	}

	detail := &CrewDetailData{CrewListItem: s.toCrewItem(ctx, crew)}
	if isAdmin {
		members, err := s.crewMembers(ctx, crew)
		if err != nil {
			return nil, err
		}
		detail.Members = members
	}
	return detail, nil
}

func (s *CrewService) allCrews(ctx context.Context) ([]CrewListItem, error) {
	crews, err := s.content.ListByType(ctx, cms.CrewContentTypeAlias)
	if err != nil {
		return nil, err
	}
	items := make([]CrewListItem, 0, len(crews))
	for i := range crews {
		items = append(items, s.toCrewItem(ctx, &crews[i]))
	}
	return items, nil
}

func (s *CrewService) crewItemByKey(ctx context.Context, key string) *CrewListItem {
	crew, err := s.content.FindByKey(ctx, key)
	if err != nil || crew == nil || crew.TypeAlias != cms.CrewContentTypeAlias {
		return nil
	}
	item := s.toCrewItem(ctx, crew)
	return &item
}

func (s *CrewService) toCrewItem(ctx context.Context, crew *cms.Content) CrewListItem {
	item := CrewListItem{
		ID:   crew.ID,
		Key:  crew.Key,
		Name: crew.Name,
	}
	if item.Name == "" {
		item.Name = unknownCrewName
	}
	item.Description = descriptionPreview(crew.GetString(cms.PropDescription))
	if limit, ok := crew.GetInt(cms.PropAgeLimit); ok {
		item.AgeLimit = &limit
	}
	if url, err := s.content.PublicURL(ctx, crew.Key); err == nil && url != "" {
		item.URL = url
	}
	return item
}

// crewMemberCounts 扫一遍成员库，统计每个 crew 的已分配人数
func (s *CrewService) crewMemberCounts(ctx context.Context) (map[int]int, error) {
	members, err := s.members.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	keyToID, err := s.crewKeyIndex(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int)
	for i := range members {
		for _, key := range cms.ParseUDIList(cms.UDIDocumentPrefix, members[i].GetString(cms.PropCrews)) {
			if id, ok := keyToID[key]; ok {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (s *CrewService) crewMembers(ctx context.Context, crew *cms.Content) ([]CrewMemberInfo, error) {
	members, err := s.members.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	crewKey := strings.ToLower(crew.Key)
	var result []CrewMemberInfo
	for i := range members {
		member := &members[i]
		assigned := false
		for _, key := range cms.ParseUDIList(cms.UDIDocumentPrefix, member.GetString(cms.PropCrews)) {
			if key == crewKey {
				assigned = true
				break
			}
		}
		if !assigned {
			continue
		}
		result = append(result, CrewMemberInfo{
			MemberID:  member.ID,
			MemberKey: member.Key,
			FullName:  member.DisplayName(),
			Email:     member.Email,
			Phone:     member.GetString(cms.PropPhone),
			Accepted:  member.GetBool(cms.PropAccepted),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FullName < result[j].FullName })
	return result, nil
}

func (s *CrewService) memberAssignedTo(member *cms.Member, crewID int, keyToID map[string]int) bool {
	for _, key := range cms.ParseUDIList(cms.UDIDocumentPrefix, member.GetString(cms.PropCrews)) {
		if id, ok := keyToID[key]; ok && id == crewID {
			return true
		}
	}
	return false
}

func (s *CrewService) crewKeyIndex(ctx context.Context) (map[string]int, error) {
	crews, err := s.content.ListByType(ctx, cms.CrewContentTypeAlias)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(crews))
	for i := range crews {
		index[strings.ToLower(crews[i].Key)] = crews[i].ID
	}
	return index, nil
}

// descriptionPreview 去 HTML 标签、压空白、截 150 字符
func descriptionPreview(html string) string {
	if html == "" {
		return ""
	}
	text := htmlTagPattern.ReplaceAllString(html, "")
	text = strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
	if len(text) > crewDescriptionPreviewLen {
		text = text[:crewDescriptionPreviewLen] + "..."
	}
	return text
}
