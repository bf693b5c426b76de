package main

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/spreadsheet"
	"github.com/vfg2006/sales-dashboard-api/internal/api"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/credentials"
	"github.com/vfg2006/sales-dashboard-api/internal/scheduler"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/selling"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.L.Fatal(err)
	}

	log.Configure(cfg.App.LogLevel)
	log.L.Infof("Nível de log configurado para: %s", cfg.App.LogLevel)

	// Valores monetários saem como número no JSON
	decimal.MarshalJSONWithoutQuotes = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	creds, err := credentials.NewResolver(cfg.Credentials).Resolve()
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao carregar as credenciais do Google")
	}
	log.L.WithFields(log.Fields{
		"source":       creds.Source,
		"client_email": creds.Account.ClientEmail,
	}).Info("Credenciais do Google carregadas")

	sheet, err := spreadsheet.NewClient(ctx, cfg.Spreadsheet, creds)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao criar cliente da planilha")
	}

	// A planilha fora do ar não impede o servidor de subir
	if err := sheet.Ping(ctx); err != nil {
		log.L.WithError(err).Warn("Planilha indisponível na inicialização")
	}

	opts := []selling.Option{}
	if cfg.SubmissionAudit.Enabled {
		pgConn := pgconn(ctx, cfg.Database)
		defer pgConn.Close()

		opts = append(opts, selling.WithSubmissions(repository.NewSubmissionRepository(pgConn)))
	}

	salesService := selling.NewService(sheet, opts...)
	authenticator := authenticating.NewService(cfg.Auth)

	salesRefreshService := scheduler.NewSalesRefreshService(salesService, cfg)
	if err := salesRefreshService.Start(ctx); err != nil {
		log.L.WithError(err).Error("Erro ao iniciar o agendador de atualização da planilha")
	}

	server, err := api.New(cfg, salesService, authenticator, salesRefreshService)
	if err != nil {
		log.L.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		log.L.Error(err)
	}
}

// pgconn cria uma conexão com o banco de auditoria
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	log.L.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
