package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Client reiht Tasks beim Broker ein.
type Client struct {
	inner *asynq.Client
}

// NewClient verbindet sich mit dem Broker unter der angegebenen Redis-URL.
func NewClient(brokerURL string) (*Client, error) {
	opt, err := asynq.ParseRedisURI(brokerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid broker url: %w", err)
	}
	return &Client{inner: asynq.NewClient(opt)}, nil
}

// Enqueue serialisiert die Nutzlast und reiht den Task unter der Job-ID ein.
// Die Task-ID entspricht der Job-ID in der Datenbank, damit Abfragen und
// Abbrüche ohne Zuordnungstabelle auskommen. Fehlgeschlagene Tasks werden
// nicht automatisch wiederholt; die Wiederholungslogik der KI-Aufrufe liegt
// im Worker selbst.
func (c *Client) Enqueue(ctx context.Context, taskType string, payload interface{}, taskID string) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal task payload: %w", err)
	}
	task := asynq.NewTask(taskType, raw)
	if _, err := c.inner.EnqueueContext(ctx, task, asynq.TaskID(taskID), asynq.MaxRetry(0)); err != nil {
		return err
	}
	return nil
}

// Close trennt die Verbindung zum Broker.
func (c *Client) Close() error {
	return c.inner.Close()
}
