package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"scoresight/internal/data"
)

const (
	DefaultPort        string = "8000"
	DefaultDatabaseURL string = "sqlite:///scoresight.db"
	DefaultBrokerURL   string = "redis://localhost:6379/0"
	DefaultResultURL   string = "redis://localhost:6379/1"
	DefaultModel       string = "gpt-4o-mini"
	DefaultConcurrency int    = 2
	DefaultUploadDir   string = "/tmp/scoresight_uploads"
	DefaultReportDir   string = "/tmp/scoresight_reports"
)

var Config *data.ScoreSightConfig

func InitConfig(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// .env ist optional, reale Deployments setzen die Variablen direkt
	if err := godotenv.Load(); err != nil {
		logger.Debug("Keine .env Datei gefunden, verwende Umgebungsvariablen")
	}

	v := viper.New()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("environment", "production")
	v.SetDefault("debug", false)
	v.SetDefault("database_url", DefaultDatabaseURL)
	v.SetDefault("celery_broker_url", DefaultBrokerURL)
	v.SetDefault("celery_result_backend", DefaultResultURL)
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_model", DefaultModel)
	v.SetDefault("openai_vision_model", "")
	v.SetDefault("worker_concurrency", DefaultConcurrency)
	v.SetDefault("upload_dir", DefaultUploadDir)
	v.SetDefault("report_dir", DefaultReportDir)
	v.AutomaticEnv()

	if err := v.Unmarshal(&Config); err != nil {
		logger.Error("Fehler beim Lesen der Konfiguration:", zap.Error(err))
	}

	// Ohne eigenes Vision-Modell transkribiert das Textmodell die Seiten mit
	if Config.OpenAIVisionModel == "" {
		Config.OpenAIVisionModel = Config.OpenAIModel
	}
}
