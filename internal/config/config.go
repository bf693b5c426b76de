package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// insecureAuthSecret é o valor de exemplo das primeiras versões do .env
const insecureAuthSecret = "your_secret_key"

type Config struct {
	App             App             `mapstructure:",squash"`
	Server          Server          `mapstructure:",squash"`
	Spreadsheet     Spreadsheet     `mapstructure:",squash"`
	Credentials     Credentials     `mapstructure:",squash"`
	Dashboard       Dashboard       `mapstructure:",squash"`
	SalesRefresh    SalesRefresh    `mapstructure:",squash"`
	RateLimit       RateLimit       `mapstructure:",squash"`
	Auth            Auth            `mapstructure:",squash"`
	Database        Database        `mapstructure:",squash"`
	SubmissionAudit SubmissionAudit `mapstructure:",squash"`
	Render          Render          `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// Addr retorna o endereço de bind do servidor HTTP
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type Spreadsheet struct {
	ID             string `mapstructure:"spreadsheet_id"`
	WorksheetName  string `mapstructure:"worksheet_name"`
	TimeoutSeconds int    `mapstructure:"sheets_timeout_seconds"`
}

// Credentials indica onde procurar o arquivo da conta de serviço quando a
// variável GOOGLE_CREDENTIALS_JSON não está definida.
type Credentials struct {
	File        string   `mapstructure:"google_credentials_file"`
	SecretPaths []string `mapstructure:"google_credentials_secret_paths"`
}

type Dashboard struct {
	AssetsDir   string `mapstructure:"assets_dir"`
	RecentLimit int    `mapstructure:"sales_recent_limit"`
}

type SalesRefresh struct {
	IntervalSeconds int  `mapstructure:"sales_refresh_interval_seconds"`
	Enabled         bool `mapstructure:"sales_refresh_enabled"`
}

type RateLimit struct {
	PerSecond float64 `mapstructure:"rate_limit_per_second"`
	Burst     int     `mapstructure:"rate_limit_burst"`
}

type Auth struct {
	Enabled           bool   `mapstructure:"auth_enabled"`
	Secret            string `mapstructure:"auth_secret"`
	TokenTTLHours     int    `mapstructure:"auth_token_ttl_hours"`
	AdminEmail        string `mapstructure:"admin_email"`
	AdminPasswordHash string `mapstructure:"admin_password_hash"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type SubmissionAudit struct {
	Enabled bool `mapstructure:"submission_audit_enabled"`
}

type Render struct {
	APIKey    string `mapstructure:"render_api_key"`
	ServiceID string `mapstructure:"render_service_id"`
	BaseURL   string `mapstructure:"render_base_url"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "127.0.0.1")
	viper.SetDefault("PORT", 8050)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:8050,http://127.0.0.1:8050")

	viper.SetDefault("SPREADSHEET_ID", "1NTScbiIna-iE7roQ9XBdjUOssRihTFFby4INAAQNXTg")
	viper.SetDefault("WORKSHEET_NAME", "Vendas")
	viper.SetDefault("SHEETS_TIMEOUT_SECONDS", 15)

	viper.SetDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json")
	viper.SetDefault("GOOGLE_CREDENTIALS_SECRET_PATHS", "/etc/secrets/credentials.json") // Secret files do Render

	viper.SetDefault("ASSETS_DIR", "assets")
	viper.SetDefault("SALES_RECENT_LIMIT", 15)

	viper.SetDefault("SALES_REFRESH_INTERVAL_SECONDS", 60) // Mesmo intervalo do painel original
	viper.SetDefault("SALES_REFRESH_ENABLED", true)

	viper.SetDefault("RATE_LIMIT_PER_SECOND", 2)
	viper.SetDefault("RATE_LIMIT_BURST", 5)

	viper.SetDefault("AUTH_ENABLED", false)
	viper.SetDefault("AUTH_SECRET", "")
	viper.SetDefault("AUTH_TOKEN_TTL_HOURS", 12)
	viper.SetDefault("ADMIN_EMAIL", "")
	viper.SetDefault("ADMIN_PASSWORD_HASH", "")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/vendas?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("SUBMISSION_AUDIT_ENABLED", false)

	viper.SetDefault("RENDER_API_KEY", "")
	viper.SetDefault("RENDER_SERVICE_ID", "")
	viper.SetDefault("RENDER_BASE_URL", "https://api.render.com/v1")

	viper.SetDefault("LOG_LEVEL", "info")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis de ambiente (viper não conseguiu ler .env): ", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = buildDSN(config.Database)
	config.Credentials.SecretPaths = compact(config.Credentials.SecretPaths)
	config.Server.AllowedOrigins = compact(config.Server.AllowedOrigins)

	if config.Spreadsheet.ID == "" {
		return nil, fmt.Errorf("config: SPREADSHEET_ID não pode ser vazio")
	}

	// Heroku injeta PORT e espera o bind em todas as interfaces
	if _, hostSet := os.LookupEnv("HOST"); !hostSet {
		if _, portSet := os.LookupEnv("PORT"); portSet {
			config.Server.Host = "0.0.0.0"
		}
	}

	if config.Auth.Enabled && (config.Auth.Secret == "" || config.Auth.Secret == insecureAuthSecret) {
		return nil, fmt.Errorf("config: AUTH_ENABLED exige um AUTH_SECRET próprio")
	}

	if config.Auth.Enabled && (config.Auth.AdminEmail == "" || config.Auth.AdminPasswordHash == "") {
		return nil, fmt.Errorf("config: AUTH_ENABLED exige ADMIN_EMAIL e ADMIN_PASSWORD_HASH")
	}

	return config, nil
}

// buildDSN monta a conexão no formato do lib/pq. Uma URL completa
// (como a do Render) é usada sem alterações.
func buildDSN(db Database) string {
	if strings.HasPrefix(db.URL, "postgres://") || strings.HasPrefix(db.URL, "postgresql://") {
		return db.URL
	}

	return fmt.Sprintf(
		"%s://%s:%s@%s",
		db.Driver,
		db.User,
		db.Password,
		db.URL,
	)
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de: ", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
