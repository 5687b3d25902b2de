package repository

import (
	"context"
	"encoding/json"
	"time"

	"ipguard/config"
	"ipguard/internal/core"
	"ipguard/internal/database/client"
	"ipguard/internal/database/fluentd/model"
)

// AuditRepository 統一負責發送稽核事件到 Fluentd
type AuditRepository struct {
	fluentdClient *client.FluentdClient
	projectName   string
	version       string
}

func NewAuditRepository(config *config.Configuration, client *client.FluentdClient) *AuditRepository {
	version := "1.0.0"
	if config.App.Version != "" {
		version = config.App.Version
	}
	return &AuditRepository{
		fluentdClient: client,
		projectName:   config.App.Name,
		version:       version,
	}
}

func (repository *AuditRepository) LogEvent(ctx context.Context, event model.AuditLog) error {
	if event.EventTS == "" {
		event.EventTS = time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC")
	}
	if event.LoggedAt == "" {
		event.LoggedAt = time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC")
	}
	if event.ProjectName == "" {
		event.ProjectName = repository.projectName
	}
	if event.Version == "" {
		event.Version = repository.version
	}
	b, _ := json.Marshal(event)
	var fluentdMessage map[string]any
	_ = json.Unmarshal(b, &fluentdMessage)
	return repository.fluentdClient.Post(ctx, string(core.FluentdAudit), fluentdMessage)
}
