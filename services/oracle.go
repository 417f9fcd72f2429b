package services

import (
	"context"
	"fmt"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/caarlos0/env/v10"
	"github.com/mindforge/forge_api/oracle"
	log "github.com/sirupsen/logrus"
)

type OracleConfig struct {
	APIKey   string        `env:"GEMINI_API_KEY"`
	Models   []string      `env:"ORACLE_MODELS" envSeparator:","`
	Attempts int           `env:"ORACLE_RETRIES" envDefault:"2"`
	Backoff  time.Duration `env:"ORACLE_BACKOFF" envDefault:"2s"`
	Timeout  time.Duration `env:"ORACLE_TIMEOUT" envDefault:"60s"`
}

// OracleService owns the provider chain and exposes the Oracle built on it.
type OracleService struct {
	appContext.DefaultService

	cfg    OracleConfig
	chain  *oracle.Chain
	oracle *oracle.Oracle
}

const ORACLE_SVC = "oracle_svc"

func (svc OracleService) Id() string {
	return ORACLE_SVC
}

func (svc *OracleService) Configure(ctx *appContext.Context) error {
	if err := env.Parse(&svc.cfg); err != nil {
		return fmt.Errorf("failed to parse oracle config: %w", err)
	}
	if len(svc.cfg.Models) == 0 {
		svc.cfg.Models = oracle.DefaultModels
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *OracleService) Start() error {
	var providers []oracle.Provider

	if svc.cfg.APIKey == "" {
		log.Error("GEMINI_API_KEY is not set, the Oracle will answer with offline content")
	} else {
		client, err := oracle.NewGeminiClient(context.Background(), svc.cfg.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create gemini client: %w", err)
		}
		providers = oracle.GeminiProviders(client, svc.cfg.Models)
	}

	svc.chain = oracle.NewChain(providers,
		oracle.WithAttempts(svc.cfg.Attempts),
		oracle.WithInitialBackoff(svc.cfg.Backoff),
		oracle.WithAttemptHook(RecordOracleAttempt),
	)
	svc.oracle = oracle.New(svc, RecordOracleFallback)

	log.WithField("models", svc.chain.Providers()).Info("Oracle provider chain ready")
	return nil
}

// Generate runs the chain under the configured timeout.
func (svc *OracleService) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, svc.cfg.Timeout)
	defer cancel()
	return svc.chain.Generate(ctx, prompt)
}

func (svc *OracleService) Oracle() *oracle.Oracle {
	return svc.oracle
}
