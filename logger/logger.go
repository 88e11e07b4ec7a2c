package logger

import (
	"go.uber.org/zap"
)

// Log 全局日志对象。默认为 no-op，调用 Init 后输出生产格式日志。
var Log = zap.NewNop().Sugar()

func Init() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}
