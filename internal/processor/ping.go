package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"scoresight/internal/data"
	"scoresight/internal/queue"
)

// HandlePing beantwortet den Verbindungstest der API.
func (p *Processor) HandlePing(ctx context.Context, t *asynq.Task) error {
	var payload data.PingPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", queue.TypePing, err)
	}

	raw, err := json.Marshal(data.PingResult{Status: "completed", Message: "pong"})
	if err != nil {
		return err
	}
	return p.store.SetJobResult(ctx, payload.JobID, string(raw))
}
