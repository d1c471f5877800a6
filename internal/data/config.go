package data

// ScoreSightConfig bündelt die komplette Laufzeitkonfiguration beider Prozesse.
type ScoreSightConfig struct {
	Port        string `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`

	DatabaseURL   string `mapstructure:"database_url"`
	BrokerURL     string `mapstructure:"celery_broker_url"`
	ResultBackend string `mapstructure:"celery_result_backend"`

	OpenAIAPIKey      string `mapstructure:"openai_api_key"`
	OpenAIModel       string `mapstructure:"openai_model"`
	OpenAIVisionModel string `mapstructure:"openai_vision_model"`

	WorkerConcurrency int `mapstructure:"worker_concurrency"`

	UploadDir string `mapstructure:"upload_dir"`
	ReportDir string `mapstructure:"report_dir"`
}
