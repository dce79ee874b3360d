package errors

import "errors"

// Kind 业务错误类别，Handler 层按类别映射 HTTP 状态码，不依赖错误文案
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindAlreadyProcessed
	KindInvalidState
	KindForbidden
	KindConflict
	KindUnauthenticated
	KindInvalid
)

// String 返回类别名称（用于日志与指标标签）
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAlreadyProcessed:
		return "already_processed"
	case KindInvalidState:
		return "invalid_state"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindInvalid:
		return "invalid"
	default:
		return "internal"
	}
}

// Error 带类别的业务错误。Msg 仅供展示
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// New 创建带类别的业务错误
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// KindOf 提取错误链上第一个业务错误的类别；非业务错误视为内部错误
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind 判断错误链上是否存在指定类别的业务错误
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrStateChanged 条件更新未命中：记录状态已不满足前置条件（或记录不存在）
var ErrStateChanged = errors.New("记录状态已变更")
