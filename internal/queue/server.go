package queue

import (
	"fmt"

	"github.com/hibiken/asynq"

	"scoresight/internal/logger"
)

// NewServer baut den Task-Server des Workers auf. Die Logausgaben des
// Servers laufen über den zentralen zap-Logger.
func NewServer(brokerURL string, concurrency int) (*asynq.Server, error) {
	opt, err := asynq.ParseRedisURI(brokerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid broker url: %w", err)
	}
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Logger:      logger.NewQueueLogger(),
	})
	return srv, nil
}
