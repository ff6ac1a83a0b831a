package todo

import (
	"strconv"

	xerrors "TodoTally/internal/errors"
)

// DefaultSourceURL 是未显式配置数据源时使用的公共示例端点。
const DefaultSourceURL = "https://jsonplaceholder.typicode.com/todos"

// 统计结果中的分组键。键是 completed 字段的字面值，
// 缺失字段的记录落入 null 分组而不是被丢弃。
const (
	KeyTrue  = "true"
	KeyFalse = "false"
	KeyNull  = "null"
)

// Record 表示上游集合中的一条待办记录。
// ID 与 Completed 使用指针以区分“字段缺失”与零值；
// 上游返回的其余字段解码后即被忽略。
type Record struct {
	UserID    int64  `json:"userId,omitempty"`
	ID        *int64 `json:"id"`
	Title     string `json:"title,omitempty"`
	Completed *bool  `json:"completed"`
}

// CompletedKey 返回记录在统计结果中的分组键。
func (r Record) CompletedKey() string {
	if r.Completed == nil {
		return KeyNull
	}
	return strconv.FormatBool(*r.Completed)
}

const (
	CodeSourceUnavailable xerrors.Code = "TODO_SOURCE_UNAVAILABLE"
	CodeSourceStatus      xerrors.Code = "TODO_SOURCE_STATUS"
	CodeSourceDecode      xerrors.Code = "TODO_SOURCE_DECODE"
)

func init() {
	xerrors.Register(CodeSourceUnavailable, xerrors.Attributes{
		Message:   "todo source unreachable",
		Severity:  xerrors.SeverityCritical,
		Retryable: true,
		Alert:     true,
	})
	xerrors.Register(CodeSourceStatus, xerrors.Attributes{
		Message:   "todo source returned error status",
		Severity:  xerrors.SeverityWarning,
		Retryable: true,
		Alert:     true,
	})
	xerrors.Register(CodeSourceDecode, xerrors.Attributes{
		Message:   "todo source response malformed",
		Severity:  xerrors.SeverityWarning,
		Retryable: false,
		Alert:     true,
	})
}
