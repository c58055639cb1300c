package service

import (
	"errors"
	"fmt"
)

// 工作流错误都是值，不跨边界 panic；handler 负责翻译成 HTTP 状态码
var (
	ErrMemberNotFound       = errors.New("member not found")
	ErrJobNotFound          = errors.New("job not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrReviewerNotFound     = errors.New("reviewer not found")
	ErrForbidden            = errors.New("forbidden")
	ErrJobClosed            = errors.New("job closed")
	ErrNoCapacity           = errors.New("no capacity")
	ErrDuplicateApplication = errors.New("duplicate application")
	ErrValidation           = errors.New("validation failed")
	ErrConcurrentUpdate     = errors.New("concurrent update")
)

// 面向用户的文案，和旧门户保持一致
const (
	MsgMemberNotFound       = "Member not found"
	MsgJobNotFound          = "Job not found"
	MsgApplicationNotFound  = "Application not found"
	MsgReviewerNotFound     = "Reviewer not found"
	MsgForbidden            = "You do not have permission to review applications"
	MsgJobClosed            = "This job is no longer accepting applications"
	MsgNoCapacity           = "This job has no available positions"
	MsgDuplicateApplication = "You have already applied for this job"
	MsgConcurrentUpdate     = "Application was updated concurrently, please reload"
)

// errf 附加细节，errors.Is 仍可匹配哨兵
func errf(base error, detail string) error {
	return fmt.Errorf("%w: %s", base, detail)
}

// MsgFor 哨兵错误翻译成面向用户的文案；其余错误不外露细节
func MsgFor(err error) string {
	switch {
	case errors.Is(err, ErrMemberNotFound):
		return MsgMemberNotFound
	case errors.Is(err, ErrJobNotFound):
		return MsgJobNotFound
	case errors.Is(err, ErrApplicationNotFound):
		return MsgApplicationNotFound
	case errors.Is(err, ErrReviewerNotFound):
		return MsgReviewerNotFound
	case errors.Is(err, ErrForbidden):
		return MsgForbidden
	case errors.Is(err, ErrJobClosed):
		return MsgJobClosed
	case errors.Is(err, ErrNoCapacity):
		return MsgNoCapacity
	case errors.Is(err, ErrDuplicateApplication):
		return MsgDuplicateApplication
	case errors.Is(err, ErrConcurrentUpdate):
		return MsgConcurrentUpdate
	case errors.Is(err, ErrValidation):
		return err.Error()
	default:
		return "Internal error"
	}
}
