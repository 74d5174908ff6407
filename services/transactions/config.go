package main

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Settings concentra a configuração do serviço, lida de variáveis de ambiente
type Settings struct {
	Port        string `env:"PORT" env-default:"8002"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	MongoURI string `env:"MONGODB_URI" env-default:"mongodb://localhost:27017/transaction_service"`
	MongoDB  string `env:"MONGODB_DB" env-default:"transaction_service"`

	FraudAPIURL  string `env:"FRAUD_API_URL" env-default:"http://localhost:8000/fraud"`
	NotifyAPIURL string `env:"NOTIFY_API_URL" env-default:"http://localhost:8003"`

	// FraudThreshold é carregado por compatibilidade com o deploy atual.
	// O veredito is_fraud do avaliador é a fonte autoritativa; nenhuma
	// comparação local de limiar é feita.
	FraudThreshold float64 `env:"FRAUD_THRESHOLD" env-default:"0.5"`

	ClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" env-default:"10s"`
	ListMaxLimit  int           `env:"LIST_MAX_LIMIT" env-default:"100"`

	ServiceName  string `env:"SERVICE_NAME" env-default:"transactions-service"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"localhost:4318"`
}

// MustLoadSettings carrega a configuração ou encerra o processo
func MustLoadSettings() *Settings {
	var cfg Settings
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to read settings from environment: %v", err)
	}
	return &cfg
}
