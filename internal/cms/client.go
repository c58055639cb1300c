package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client 访问 CMS REST 接口的底层 http 封装；
// Members()/Content() 返回两个 directory 视图。
// 404 映射为 (nil, nil)，其余非 2xx 才作为错误上抛
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Members() MemberDirectory  { return &memberClient{c} }
func (c *Client) Content() ContentDirectory { return &contentClient{c} }

type memberClient struct{ *Client }
type contentClient struct{ *Client }

var (
	_ MemberDirectory  = (*memberClient)(nil)
	_ ContentDirectory = (*contentClient)(nil)
)

type memberDTO struct {
	ID         int            `json:"id"`
	Key        string         `json:"key"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Roles      []string       `json:"roles"`
	Properties map[string]any `json:"properties"`
}

type contentDTO struct {
	ID         int            `json:"id"`
	Key        string         `json:"key"`
	Name       string         `json:"name"`
	TypeAlias  string         `json:"contentType"`
	URL        string         `json:"url"`
	Properties map[string]any `json:"properties"`
}

func (d *memberDTO) toMember() *Member {
	props := d.Properties
	if props == nil {
		props = map[string]any{}
	}
	return &Member{ID: d.ID, Key: d.Key, Name: d.Name, Email: d.Email, Roles: d.Roles, Properties: props}
}

func (d *contentDTO) toContent() *Content {
	props := d.Properties
	if props == nil {
		props = map[string]any{}
	}
	return &Content{ID: d.ID, Key: d.Key, Name: d.Name, TypeAlias: d.TypeAlias, Properties: props}
}

func (c *memberClient) FindByEmail(ctx context.Context, email string) (*Member, error) {
	var dto memberDTO
	found, err := c.getJSON(ctx, "/api/members/by-email?email="+url.QueryEscape(email), &dto)
	if err != nil || !found {
		return nil, err
	}
	return dto.toMember(), nil
}

func (c *memberClient) FindByID(ctx context.Context, id int) (*Member, error) {
	var dto memberDTO
	found, err := c.getJSON(ctx, "/api/members/"+strconv.Itoa(id), &dto)
	if err != nil || !found {
		return nil, err
	}
	return dto.toMember(), nil
}

func (c *memberClient) FindByKey(ctx context.Context, key string) (*Member, error) {
	var dto memberDTO
	found, err := c.getJSON(ctx, "/api/members/by-key/"+url.PathEscape(key), &dto)
	if err != nil || !found {
		return nil, err
	}
	return dto.toMember(), nil
}

func (c *memberClient) ListAll(ctx context.Context) ([]Member, error) {
	var dtos []memberDTO
	found, err := c.getJSON(ctx, "/api/members", &dtos)
	if err != nil || !found {
		return nil, err
	}
	list := make([]Member, 0, len(dtos))
	for i := range dtos {
		list = append(list, *dtos[i].toMember())
	}
	return list, nil
}

func (c *memberClient) RolesOf(ctx context.Context, memberID int) ([]string, error) {
	var roles []string
	found, err := c.getJSON(ctx, "/api/members/"+strconv.Itoa(memberID)+"/roles", &roles)
	if err != nil || !found {
		return nil, err
	}
	return roles, nil
}

func (c *memberClient) GroupNameByKey(ctx context.Context, groupKey string) (string, error) {
	var dto struct {
		Name string `json:"name"`
	}
	found, err := c.getJSON(ctx, "/api/member-groups/"+url.PathEscape(groupKey), &dto)
	if err != nil || !found {
		return "", err
	}
	return dto.Name, nil
}

func (c *contentClient) FindByID(ctx context.Context, id int) (*Content, error) {
	var dto contentDTO
	found, err := c.getJSON(ctx, "/api/content/"+strconv.Itoa(id), &dto)
	if err != nil || !found {
		return nil, err
	}
	return dto.toContent(), nil
}

func (c *contentClient) FindByKey(ctx context.Context, key string) (*Content, error) {
	var dto contentDTO
	found, err := c.getJSON(ctx, "/api/content/by-key/"+url.PathEscape(key), &dto)
	if err != nil || !found {
		return nil, err
	}
	return dto.toContent(), nil
}

func (c *contentClient) ListByType(ctx context.Context, typeAlias string) ([]Content, error) {
	var dtos []contentDTO
	found, err := c.getJSON(ctx, "/api/content?type="+url.QueryEscape(typeAlias), &dtos)
	if err != nil || !found {
		return nil, err
	}
	list := make([]Content, 0, len(dtos))
	for i := range dtos {
		list = append(list, *dtos[i].toContent())
	}
	return list, nil
}

func (c *contentClient) PublicURL(ctx context.Context, key string) (string, error) {
	var dto contentDTO
	found, err := c.getJSON(ctx, "/api/content/by-key/"+url.PathEscape(key), &dto)
	if err != nil || !found {
		return "", err
	}
	return dto.URL, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("cms request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("cms request %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("cms decode %s: %w", path, err)
	}
	return true, nil
}
