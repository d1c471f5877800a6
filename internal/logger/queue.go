package logger

import "go.uber.org/zap"

// QueueLogger leitet die Logausgaben des Task-Servers an zap weiter.
// Die Methoden entsprechen dem Logger-Interface von asynq.
type QueueLogger struct {
	sugar *zap.SugaredLogger
}

func NewQueueLogger() *QueueLogger {
	return &QueueLogger{sugar: Log.Sugar()}
}

func (q *QueueLogger) Debug(args ...interface{}) { q.sugar.Debug(args...) }
func (q *QueueLogger) Info(args ...interface{})  { q.sugar.Info(args...) }
func (q *QueueLogger) Warn(args ...interface{})  { q.sugar.Warn(args...) }
func (q *QueueLogger) Error(args ...interface{}) { q.sugar.Error(args...) }
func (q *QueueLogger) Fatal(args ...interface{}) { q.sugar.Fatal(args...) }
