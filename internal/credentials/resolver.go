// Package credentials resolve a conta de serviço do Google usada para acessar a
// planilha. A variável de ambiente tem precedência sobre os arquivos locais.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// EnvCredentialsJSON guarda o conteúdo literal do JSON da conta de serviço
	EnvCredentialsJSON = "GOOGLE_CREDENTIALS_JSON"
	// EnvLegacyCredentials é o nome usado nas primeiras versões do painel
	EnvLegacyCredentials = "GOOGLE_CREDENTIALS"
	// DefaultFile é procurado no diretório de trabalho
	DefaultFile = "credentials.json"

	serviceAccountType = "service_account"
)

var (
	ErrCredentialsNotFound  = errors.New("credenciais do Google não encontradas")
	ErrMalformedCredentials = errors.New("documento de credenciais inválido")
)

// ServiceAccount é o formato padrão do JSON de conta de serviço do Google
type ServiceAccount struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
}

// Credentials é o documento pronto para os clientes do Google
type Credentials struct {
	JSON    []byte
	Account ServiceAccount
	Source  string
}

type Resolver struct {
	lookupEnv func(string) (string, bool)
	readFile  func(string) ([]byte, error)
	envVars   []string
	paths     []string
}

type Option func(*Resolver)

func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(r *Resolver) { r.lookupEnv = fn }
}

func WithReadFile(fn func(string) ([]byte, error)) Option {
	return func(r *Resolver) { r.readFile = fn }
}

func NewResolver(cfg config.Credentials, opts ...Option) *Resolver {
	file := cfg.File
	if file == "" {
		file = DefaultFile
	}

	r := &Resolver{
		lookupEnv: os.LookupEnv,
		readFile:  os.ReadFile,
		envVars:   []string{EnvCredentialsJSON, EnvLegacyCredentials},
		paths:     append([]string{file}, cfg.SecretPaths...),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve tenta as variáveis de ambiente e depois os arquivos, nessa ordem.
// Uma variável malformada é registrada e a busca continua pelos arquivos.
func (r *Resolver) Resolve() (*Credentials, error) {
	var attempts []string

	for _, name := range r.envVars {
		raw, ok := r.lookupEnv(name)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}

		creds, err := Parse([]byte(raw))
		if err != nil {
			log.L.WithFields(log.Fields{
				"source": "env:" + name,
				"error":  err.Error(),
			}).Warn("credentials: variável de ambiente com credenciais inválidas, tentando arquivo local")
			attempts = append(attempts, fmt.Sprintf("env:%s: %v", name, err))
			continue
		}

		creds.Source = "env:" + name
		log.L.WithField("source", creds.Source).Info("credentials: autenticação Google via variável de ambiente")
		return creds, nil
	}

	for _, path := range r.paths {
		data, err := r.readFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				attempts = append(attempts, fmt.Sprintf("file:%s: arquivo não encontrado", path))
			} else {
				attempts = append(attempts, fmt.Sprintf("file:%s: %v", path, err))
			}
			continue
		}

		creds, err := Parse(data)
		if err != nil {
			log.L.WithFields(log.Fields{
				"source": "file:" + path,
				"error":  err.Error(),
			}).Warn("credentials: arquivo de credenciais inválido")
			attempts = append(attempts, fmt.Sprintf("file:%s: %v", path, err))
			continue
		}

		creds.Source = "file:" + path
		log.L.WithField("source", creds.Source).Info("credentials: autenticação Google via arquivo local")
		return creds, nil
	}

	if len(attempts) == 0 {
		return nil, fmt.Errorf("%w: defina %s ou forneça %s", ErrCredentialsNotFound, EnvCredentialsJSON, DefaultFile)
	}

	return nil, fmt.Errorf("%w (%s)", ErrCredentialsNotFound, strings.Join(attempts, "; "))
}

// Parse valida um documento de conta de serviço. Chaves privadas com "\n"
// literais (variável escapada duas vezes) são convertidas em quebras de linha reais.
func Parse(data []byte) (*Credentials, error) {
	var document map[string]any
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCredentials, err)
	}

	if key, ok := document["private_key"].(string); ok && strings.Contains(key, `\n`) {
		document["private_key"] = strings.ReplaceAll(key, `\n`, "\n")

		normalized, err := json.Marshal(document)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCredentials, err)
		}
		data = normalized
	}

	var account ServiceAccount
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCredentials, err)
	}

	switch {
	case account.Type != serviceAccountType:
		return nil, fmt.Errorf("%w: type deve ser %q, recebido %q", ErrMalformedCredentials, serviceAccountType, account.Type)
	case account.ClientEmail == "":
		return nil, fmt.Errorf("%w: client_email ausente", ErrMalformedCredentials)
	case account.PrivateKey == "":
		return nil, fmt.Errorf("%w: private_key ausente", ErrMalformedCredentials)
	}

	return &Credentials{
		JSON:    data,
		Account: account,
	}, nil
}
