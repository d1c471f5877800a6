package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"scoresight/internal/ai"
	"scoresight/internal/config"
	"scoresight/internal/logger"
	"scoresight/internal/pdf"
	"scoresight/internal/persistence"
	"scoresight/internal/processor"
	"scoresight/internal/queue"
)

func main() {
	// Konfiguration laden
	config.InitConfig(logger.Log)

	// Logger initialisieren
	logger.InitLogger(config.Config.Debug)
	defer logger.Log.Sync()

	// Datenbank öffnen und Schema abgleichen
	store, err := persistence.NewStore(config.Config.DatabaseURL)
	if err != nil {
		logger.Log.Fatal("Datenbank konnte nicht geöffnet werden:", zap.Error(err))
	}
	if err := store.AutoMigrate(); err != nil {
		logger.Log.Fatal("Schema-Migration fehlgeschlagen:", zap.Error(err))
	}

	// Arbeitsverzeichnisse anlegen
	if err := os.MkdirAll(config.Config.UploadDir, 0755); err != nil {
		logger.Log.Fatal("Upload-Verzeichnis konnte nicht angelegt werden:", zap.Error(err))
	}
	if err := os.MkdirAll(config.Config.ReportDir, 0755); err != nil {
		logger.Log.Fatal("Report-Verzeichnis konnte nicht angelegt werden:", zap.Error(err))
	}

	// Eigener Broker-Client zum Verketten von Folgejobs
	client, err := queue.NewClient(config.Config.BrokerURL)
	if err != nil {
		logger.Log.Fatal("Broker-Client konnte nicht erstellt werden:", zap.Error(err))
	}

	llm := ai.New(config.Config.OpenAIAPIKey, config.Config.OpenAIModel, config.Config.OpenAIVisionModel)
	renderer := pdf.NewFitzRenderer()
	proc := processor.New(store, llm, renderer, client, config.Config)

	srv, err := queue.NewServer(config.Config.BrokerURL, config.Config.WorkerConcurrency)
	if err != nil {
		logger.Log.Fatal("Task-Server konnte nicht erstellt werden:", zap.Error(err))
	}
	mux := asynq.NewServeMux()
	proc.Register(mux)

	// Server starten (nicht blockierend), dann auf Shutdown-Signale warten
	logger.Log.Info("Worker startet...", zap.Int("concurrency", config.Config.WorkerConcurrency))
	if err := srv.Start(mux); err != nil {
		logger.Log.Fatal("Fehler beim Starten des Workers:", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Worker wird heruntergefahren...")

	// Keine neuen Tasks mehr annehmen, laufende zu Ende bringen
	srv.Stop()
	srv.Shutdown()

	if err := client.Close(); err != nil {
		logger.Log.Warn("Broker-Client ließ sich nicht schließen:", zap.Error(err))
	}
	if err := store.Close(); err != nil {
		logger.Log.Warn("Datenbank ließ sich nicht schließen:", zap.Error(err))
	}

	logger.Log.Info("Worker heruntergefahren.")
}
