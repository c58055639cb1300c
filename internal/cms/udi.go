package cms

import (
	"log"
	"strings"

	"github.com/google/uuid"
)

// UDI 引用格式：umb://document/<guid>,umb://member/<guid>,...
const (
	UDIDocumentPrefix = "umb://document/"
	UDIMemberPrefix   = "umb://member/"
)

// MemberUDI 构造成员引用 token（小写 guid）
func MemberUDI(memberKey string) string {
	return UDIMemberPrefix + strings.ToLower(memberKey)
}

// ParseUDIList 解析逗号分隔的引用串，返回小写 guid 列表。
// 坏 token 记日志后跳过，不中断整个列表。
func ParseUDIList(prefix, raw string) []string {
	var keys []string
	if strings.TrimSpace(raw) == "" {
		return keys
	}
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		if !strings.HasPrefix(lower, prefix) {
			log.Printf("cms: skipping unrecognized udi %q", trimmed)
			continue
		}
		guidPart := lower[len(prefix):]
		if _, err := uuid.Parse(guidPart); err != nil {
			log.Printf("cms: skipping malformed udi %q: %v", trimmed, err)
			continue
		}
		keys = append(keys, guidPart)
	}
	return keys
}

// ContainsUDI 判断引用串里是否出现指定 token，大小写不敏感
func ContainsUDI(raw, udi string) bool {
	if raw == "" || udi == "" {
		return false
	}
	return strings.Contains(strings.ToLower(raw), strings.ToLower(udi))
}
