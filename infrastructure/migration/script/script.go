package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

const migrationTimeout = 30 * time.Second

const createSubmissionsTable = `
	CREATE TABLE sale_submissions (
		id          VARCHAR(21) PRIMARY KEY,
		sale_date   DATE NOT NULL,
		card        NUMERIC(12, 2) NOT NULL DEFAULT 0,
		cash        NUMERIC(12, 2) NOT NULL DEFAULT 0,
		pix         NUMERIC(12, 2) NOT NULL DEFAULT 0,
		total       NUMERIC(12, 2) NOT NULL DEFAULT 0,
		status      VARCHAR(16) NOT NULL,
		message     TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

func createSubmissionsTableIfMissing(ctx context.Context, conn postgres.Queryer) error {
	log.L.Info("Criando tabela sale_submissions...")

	// Verificar se a tabela já existe
	var tableExists bool
	err := conn.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_name = 'sale_submissions'
		)
	`).Scan(&tableExists)
	if err != nil {
		return err
	}

	if tableExists {
		log.L.Info("Tabela sale_submissions já existe")
		return nil
	}

	if _, err := conn.ExecContext(ctx, createSubmissionsTable); err != nil {
		return err
	}

	log.L.Info("Tabela sale_submissions criada com sucesso")
	return nil
}

func addCreatedAtIndex(ctx context.Context, conn postgres.Queryer) error {
	log.L.Info("Adicionando índice em sale_submissions.created_at...")

	_, err := conn.ExecContext(ctx,
		"CREATE INDEX IF NOT EXISTS sale_submissions_created_at_idx ON sale_submissions (created_at DESC)")
	if err != nil {
		return err
	}

	log.L.Info("Índice created_at pronto")
	return nil
}

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.L.Fatalf("ERRO ao carregar configuração: %v", err)
	}
	log.Configure(cfg.App.LogLevel)
	log.L.Info("Iniciando script de migração...")

	ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
	defer cancel()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.L.Fatalf("ERRO ao conectar ao banco de dados: %v", err)
	}
	defer conn.Close()
	log.L.Info("Conexão com o banco de dados estabelecida com sucesso")

	err = conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if err := createSubmissionsTableIfMissing(ctx, tx); err != nil {
			return err
		}
		return addCreatedAtIndex(ctx, tx)
	})
	if err != nil {
		log.L.Fatalf("ERRO ao executar migração: %v", err)
	}

	log.L.Info("Migração concluída")
}
