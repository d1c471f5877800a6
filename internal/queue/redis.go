package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PingBroker prüft die Erreichbarkeit des Redis-Brokers für den Health-Check.
func PingBroker(ctx context.Context, brokerURL string) error {
	opt, err := redis.ParseURL(brokerURL)
	if err != nil {
		return fmt.Errorf("invalid broker url: %w", err)
	}
	client := redis.NewClient(opt)
	defer client.Close()
	return client.Ping(ctx).Err()
}
