package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"TodoTally/internal/aggregator"
	"TodoTally/internal/config"
	"TodoTally/internal/observability/alerting"
	"TodoTally/internal/todo"
	"TodoTally/pkg/logger"
)

// main 将聚合处理器挂载到 Lambda 运行时。配置完全来自环境变量，
// URI 覆盖默认数据源端点。
func main() {
	cfg := config.FromEnv()

	if err := logger.Init(cfg.Log.LoggerConfig()); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}

	source := todo.NewHTTPSource(todo.SourceConfig{
		URL:     cfg.Source.URL,
		Timeout: cfg.Source.Timeout(),
	})

	handler, err := aggregator.NewHandler(source,
		aggregator.WithAlertDispatcher(alerting.NewFanout(&alerting.LogNotifier{})),
	)
	if err != nil {
		log.Fatalf("初始化聚合器失败: %v", err)
	}

	lambda.Start(handler.Handle)
}
