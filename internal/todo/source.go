package todo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	xerrors "TodoTally/internal/errors"
	"TodoTally/internal/observability/metrics"
)

const defaultFetchTimeout = 10 * time.Second

// Source 抽象待办记录的来源，方便在测试中替换为内存实现。
type Source interface {
	Fetch(ctx context.Context) ([]Record, error)
}

// SourceConfig 描述 HTTP 数据源的连接参数。
type SourceConfig struct {
	URL     string
	Timeout time.Duration
}

// HTTPSource 通过一次 GET 请求拉取 JSON 数组形式的待办记录。
type HTTPSource struct {
	url        string
	httpClient *http.Client
}

// NewHTTPSource 根据配置创建 HTTP 数据源。
func NewHTTPSource(cfg SourceConfig) *HTTPSource {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		url = DefaultSourceURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	return &HTTPSource{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// URL 返回数据源地址。
func (s *HTTPSource) URL() string { return s.url }

// Fetch 拉取并解析记录。任何失败都会让本次调用整体失败，不做重试，
// 也不返回部分结果。
func (s *HTTPSource) Fetch(ctx context.Context) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, xerrors.Wrap(CodeSourceUnavailable, err, "构建数据源请求失败")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.ObserveSourceFetch(0, time.Since(start))
		return nil, xerrors.Wrap(CodeSourceUnavailable, err, "请求数据源失败",
			xerrors.WithMetadata("url", s.url))
	}
	defer resp.Body.Close()
	metrics.ObserveSourceFetch(resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, xerrors.New(CodeSourceStatus,
			fmt.Sprintf("数据源返回错误状态 %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
			xerrors.WithMetadata("url", s.url),
			xerrors.WithMetadata("status", strconv.Itoa(resp.StatusCode)))
	}

	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, xerrors.Wrap(CodeSourceDecode, err, "解析数据源响应失败",
			xerrors.WithMetadata("url", s.url))
	}
	return records, nil
}
