package errors

import (
	"errors"
	"fmt"
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrLocked 排课方案正被其他请求修改
var ErrLocked = errors.New("排课方案正在被其他操作修改，请稍后重试")

// Kind 业务错误分类
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflictState
	KindIntegrityWarning
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindValidation:
		return "ValidationError"
	case KindConflictState:
		return "ConflictStateError"
	case KindIntegrityWarning:
		return "IntegrityWarning"
	default:
		return "Internal"
	}
}

// AppError 带分类与业务码的错误
//
// 模块级哨兵通过 NotFound/Validation/ConflictState 声明；
// 需要附带上下文时调用 With 得到副本，副本仍满足 errors.Is(副本, 哨兵)。
type AppError struct {
	Kind    Kind
	Code    int
	Message string
	Details map[string]interface{}

	sentinel *AppError
}

func (e *AppError) Error() string {
	return e.Message
}

// Is 支持 errors.Is 对哨兵及其副本的匹配
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e == t || (e.sentinel != nil && e.sentinel == t)
}

// With 返回附带详情字段的副本
func (e *AppError) With(key string, value interface{}) *AppError {
	cp := e.clone()
	cp.Details[key] = value
	return cp
}

// Withf 返回在原消息后追加说明的副本
func (e *AppError) Withf(format string, args ...interface{}) *AppError {
	cp := e.clone()
	cp.Message = e.Message + ": " + fmt.Sprintf(format, args...)
	return cp
}

func (e *AppError) clone() *AppError {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	root := e
	if e.sentinel != nil {
		root = e.sentinel
	}
	return &AppError{
		Kind:     e.Kind,
		Code:     e.Code,
		Message:  e.Message,
		Details:  details,
		sentinel: root,
	}
}

func newAppError(kind Kind, code int, msg string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: msg}
}

// NotFound 资源不存在
func NotFound(code int, msg string) *AppError { return newAppError(KindNotFound, code, msg) }

// Validation 参数不合法
func Validation(code int, msg string) *AppError { return newAppError(KindValidation, code, msg) }

// ConflictState 当前状态不允许该操作
func ConflictState(code int, msg string) *AppError {
	return newAppError(KindConflictState, code, msg)
}

// IntegrityWarning 非致命的数据完整性告警，不中断操作
func IntegrityWarning(code int, msg string) *AppError {
	return newAppError(KindIntegrityWarning, code, msg)
}

// KindOf 取出错误分类，非 AppError 视为内部错误
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
