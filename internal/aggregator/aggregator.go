package aggregator

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	xerrors "TodoTally/internal/errors"
	"TodoTally/internal/observability/alerting"
	"TodoTally/internal/todo"
	"TodoTally/pkg/logger"
)

// Handler 将一次调用串联为 拉取 → 分组计数 → 装配响应 的直线流程。
// 数据源在构造时注入，而不是在处理时从环境读取。
type Handler struct {
	source todo.Source
	alerts alerting.Dispatcher
}

// Option 定义可选配置。
type Option func(*Handler)

// WithAlertDispatcher 指定失败时使用的告警分发器。
func WithAlertDispatcher(d alerting.Dispatcher) Option {
	return func(h *Handler) {
		h.alerts = d
	}
}

// NewHandler 构造聚合处理器。
func NewHandler(source todo.Source, opts ...Option) (*Handler, error) {
	if source == nil {
		return nil, xerrors.New(xerrors.CodeInitializationFailure, "数据源未初始化")
	}
	h := &Handler{source: source}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h, nil
}

// Handle 执行一次聚合。event 仅为宿主运行时要求的签名占位，内容不参与
// 逻辑。失败时错误原样向上传播，由宿主运行时记录为调用失败。
func (h *Handler) Handle(ctx context.Context, _ json.RawMessage) (todo.Summary, error) {
	invocationID := uuid.NewString()
	start := time.Now()

	records, err := h.source.Fetch(ctx)
	if err != nil {
		h.reportFailure(ctx, invocationID, err)
		return todo.Summary{}, err
	}

	summary := todo.Summarize(records)
	logger.Invocations().Info("聚合完成",
		slog.String("invocation_id", invocationID),
		slog.Int("records", len(records)),
		slog.Any("completed_count", summary.CompletedCount),
		slog.Duration("elapsed", time.Since(start)),
	)
	return summary, nil
}

func (h *Handler) reportFailure(ctx context.Context, invocationID string, err error) {
	logger.L().Error("聚合失败",
		slog.String("invocation_id", invocationID),
		slog.Any("error", err),
	)
	if h.alerts == nil || !xerrors.ShouldAlert(err) {
		return
	}
	event := alerting.Event{
		Code:         xerrors.CodeOf(err),
		Message:      err.Error(),
		Severity:     xerrors.SeverityOf(err),
		InvocationID: invocationID,
		OccurredAt:   time.Now(),
	}
	if e, ok := xerrors.From(err); ok {
		event.Metadata = e.Metadata()
		if url, ok := event.Metadata["url"]; ok {
			event.SourceURL = url
		}
	}
	if notifyErr := h.alerts.Notify(ctx, event); notifyErr != nil {
		logger.L().Warn("告警发送失败", slog.Any("error", notifyErr))
	}
}
