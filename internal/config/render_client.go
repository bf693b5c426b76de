package config

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// SecretStorage guarda arquivos secretos do serviço no provedor de hospedagem.
// No Render, secret files ficam disponíveis em /etc/secrets/<nome> e na raiz da aplicação.
type SecretStorage interface {
	ListSecrets(ctx context.Context, serviceID string) (map[string]string, error)
	AddOrUpdateSecret(ctx context.Context, serviceID, secretName, secretContent string) error
}

type AddOrUpdateSecretRequest struct {
	Content string `json:"content"`
}

type secretFileItem struct {
	SecretFile struct {
		Content string `json:"content"`
		Name    string `json:"name"`
	} `json:"secretFile"`
	Cursor string `json:"cursor"`
}

type RenderClient struct {
	client *resty.Client
}

func NewRenderClient(config *Config) *RenderClient {
	client := resty.New().
		SetBaseURL(config.Render.BaseURL).
		SetAuthToken(config.Render.APIKey).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(time.Second)

	return &RenderClient{client: client}
}

func (c *RenderClient) ListSecrets(ctx context.Context, serviceID string) (map[string]string, error) {
	var response []secretFileItem

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("serviceID", serviceID).
		SetQueryParam("limit", "100").
		SetResult(&response).
		Get("/services/{serviceID}/secret-files")
	if err != nil {
		return nil, fmt.Errorf("config: erro ao listar secret files: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("config: erro ao listar secret files (%d): %s", resp.StatusCode(), resp.String())
	}

	secretsMap := make(map[string]string, len(response))
	for _, sf := range response {
		secretsMap[sf.SecretFile.Name] = sf.SecretFile.Content
	}

	return secretsMap, nil
}

func (c *RenderClient) AddOrUpdateSecret(ctx context.Context, serviceID, secretName, secretContent string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"serviceID":  serviceID,
			"secretName": secretName,
		}).
		SetHeader("Content-Type", "application/json").
		SetBody(AddOrUpdateSecretRequest{Content: secretContent}).
		Put("/services/{serviceID}/secret-files/{secretName}")
	if err != nil {
		return fmt.Errorf("config: erro ao gravar secret file: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("config: erro ao gravar secret file (%d): %s", resp.StatusCode(), resp.String())
	}

	return nil
}
