package analytics

import (
	"os"

	"github.com/castflow/castflow/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ Collector = new(LogFileDataCollector)

// LogFileDataCollector appends one JSON line per flow run to a dedicated
// log file, kept apart from the process log so dashboards can tail it.
type LogFileDataCollector struct {
	fileName string
	logger   *zap.Logger
}

func NewLogFileDataCollector(fileName string) (*LogFileDataCollector, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.StacktraceKey = "" // to hide stacktrace info
	fileEncoder := zapcore.NewJSONEncoder(encoderConfig)
	logFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	writer := zapcore.AddSync(logFile)
	core := zapcore.NewTee(zapcore.NewCore(fileEncoder, writer, zapcore.InfoLevel))
	return &LogFileDataCollector{
		fileName: fileName,
		logger:   zap.New(core),
	}, nil
}

func (lc *LogFileDataCollector) RecordExecution(rec model.ExecutionRecord) {
	fields := []zap.Field{
		zap.String("executionId", rec.ExecutionId),
		zap.String("flowId", rec.FlowId),
		zap.String("flow", rec.FlowName),
		zap.Int("actions", len(rec.ActionResults)),
		zap.Int64("durationMs", rec.DurationMs),
	}
	if rec.Success {
		lc.logger.Info("success", fields...)
		return
	}
	fields = append(fields, zap.String("reason", rec.Error))
	lc.logger.Info("failure", fields...)
}
