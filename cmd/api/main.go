package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"scoresight/internal/config"
	"scoresight/internal/handlers"
	"scoresight/internal/logger"
	"scoresight/internal/persistence"
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

	// Verbindung zum Broker für das Einreihen und Überwachen von Tasks
	client, err := queue.NewClient(config.Config.BrokerURL)
	if err != nil {
		logger.Log.Fatal("Broker-Client konnte nicht erstellt werden:", zap.Error(err))
	}
	inspector, err := queue.NewInspector(config.Config.BrokerURL)
	if err != nil {
		logger.Log.Fatal("Broker-Inspector konnte nicht erstellt werden:", zap.Error(err))
	}

	// Gin-Router initialisieren
	router := gin.Default()
	handlers.Routes(router, store, client, inspector, config.Config)

	// Server starten
	port := config.Config.Port
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: router,
	}

	// Goroutine für das Abfangen von Shutdown-Signalen
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Log.Info("Server wird heruntergefahren...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Log.Fatal("Server-Shutdown fehlgeschlagen:", zap.Error(err))
		}

		if err := client.Close(); err != nil {
			logger.Log.Warn("Broker-Client ließ sich nicht schließen:", zap.Error(err))
		}
		if err := inspector.Close(); err != nil {
			logger.Log.Warn("Broker-Inspector ließ sich nicht schließen:", zap.Error(err))
		}
		if err := store.Close(); err != nil {
			logger.Log.Warn("Datenbank ließ sich nicht schließen:", zap.Error(err))
		}

		logger.Log.Info("Server heruntergefahren.")
	}()

	// Server starten (blockierend)
	logger.Log.Info("Server startet...", zap.String("port", port))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logger.Log.Fatal("Fehler beim Starten des Servers:", zap.Error(err))
	}
}
