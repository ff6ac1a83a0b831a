package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"TodoTally/internal/aggregator"
	xerrors "TodoTally/internal/errors"
	"TodoTally/internal/observability/metrics"
	"TodoTally/internal/todo"
)

// Server 负责暴露 REST 接口，在宿主运行时之外驱动同一套聚合逻辑。
type Server struct {
	addr    string
	handler *aggregator.Handler
}

// NewServer 构造 API 服务实例。
func NewServer(addr string, handler *aggregator.Handler) *Server {
	return &Server{addr: addr, handler: handler}
}

// Start 启动 HTTP 服务，直到上下文取消或出现错误。
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/summary", s.handleSummary)
	mux.HandleFunc("/api/v1/healthz", s.handleHealthz)
	mux.Handle("/metrics", metrics.Handler())

	server := &http.Server{
		Addr:              s.addr,
		Handler:           withContext(ctx, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// handleSummary 同步执行一次聚合并返回统计结果。
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		metrics.ObserveHTTPRequest("summary", r.Method, http.StatusMethodNotAllowed)
		http.Error(w, "仅支持 GET", http.StatusMethodNotAllowed)
		return
	}
	if s.handler == nil {
		metrics.ObserveHTTPRequest("summary", r.Method, http.StatusServiceUnavailable)
		http.Error(w, "聚合器未初始化", http.StatusServiceUnavailable)
		return
	}

	summary, err := s.handler.Handle(r.Context(), nil)
	if err != nil {
		status := statusForError(err)
		metrics.ObserveHTTPRequest("summary", r.Method, status)
		http.Error(w, err.Error(), status)
		return
	}

	metrics.ObserveHTTPRequest("summary", r.Method, http.StatusOK)
	writeJSON(w, summary)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "仅支持 GET", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// statusForError 将统一错误码映射为 HTTP 状态。上游失败一律按网关错误
// 上报，保持“单次失败、不降级”的语义。
func statusForError(err error) int {
	switch xerrors.CodeOf(err) {
	case todo.CodeSourceUnavailable, todo.CodeSourceStatus, todo.CodeSourceDecode:
		return http.StatusBadGateway
	case xerrors.CodeInitializationFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// withContext 确保请求处理能够感知根上下文取消。
func withContext(ctx context.Context, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-ctx.Done():
			http.Error(w, "服务已关闭", http.StatusServiceUnavailable)
			return
		default:
		}
		handler.ServeHTTP(w, r)
	})
}
