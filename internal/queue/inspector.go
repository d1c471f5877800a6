package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
)

// Inspector fragt den Zustand des Brokers und seiner Worker ab.
type Inspector struct {
	inner     *asynq.Inspector
	brokerURL string
}

// NewInspector verbindet sich mit dem Broker unter der angegebenen Redis-URL.
func NewInspector(brokerURL string) (*Inspector, error) {
	opt, err := asynq.ParseRedisURI(brokerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid broker url: %w", err)
	}
	return &Inspector{inner: asynq.NewInspector(opt), brokerURL: brokerURL}, nil
}

// Ping prüft die Erreichbarkeit des Brokers.
func (i *Inspector) Ping(ctx context.Context) error {
	return PingBroker(ctx, i.brokerURL)
}

// Servers liefert die aktuell verbundenen Worker-Prozesse.
func (i *Inspector) Servers() ([]*asynq.ServerInfo, error) {
	return i.inner.Servers()
}

// CancelTask entfernt einen wartenden Task aus der Warteschlange oder
// signalisiert einem laufenden Task den Abbruch.
func (i *Inspector) CancelTask(jobID string) error {
	if err := i.inner.DeleteTask(defaultQueue, jobID); err == nil {
		return nil
	}
	return i.inner.CancelProcessing(jobID)
}

// Close trennt die Verbindung zum Broker.
func (i *Inspector) Close() error {
	return i.inner.Close()
}
