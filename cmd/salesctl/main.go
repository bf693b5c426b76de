package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/spreadsheet"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/credentials"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/selling"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

const commandTimeout = time.Minute

func main() {
	kingpinApp := kingpin.New("salesctl", "Ferramentas de linha de comando do painel de vendas")

	checkCmd := kingpinApp.Command("check-credentials", "Valida as credenciais do Google e o acesso à planilha")

	listCmd := kingpinApp.Command("list", "Lista as últimas vendas da planilha")
	listLimit := listCmd.Flag("limit", "Quantidade de vendas").Default("15").Int()
	listJSON := listCmd.Flag("json", "Imprime em JSON").Bool()

	addCmd := kingpinApp.Command("add", "Registra as vendas de um dia na planilha")
	addDate := addCmd.Flag("date", "Data no formato aaaa-mm-dd").Required().String()
	addCard := addCmd.Flag("card", "Valor em cartão").Default("").String()
	addCash := addCmd.Flag("cash", "Valor em dinheiro").Default("").String()
	addPix := addCmd.Flag("pix", "Valor em Pix").Default("").String()

	uploadCmd := kingpinApp.Command("upload-secret", "Envia o credentials.json para o Render como secret file")
	uploadFile := uploadCmd.Flag("file", "Arquivo de credenciais").Default(credentials.DefaultFile).String()
	uploadName := uploadCmd.Flag("name", "Nome do secret file no Render").Default(credentials.DefaultFile).String()

	command := kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	cfg, err := config.NewConfig()
	if err != nil {
		kingpinApp.Fatalf("erro ao carregar configuração: %v", err)
	}
	log.Configure(cfg.App.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	cli := newCLI(cfg, os.Stdout)

	switch command {
	case checkCmd.FullCommand():
		err = cli.checkCredentials(ctx)
	case listCmd.FullCommand():
		err = cli.list(ctx, *listLimit, *listJSON)
	case addCmd.FullCommand():
		err = cli.add(ctx, *addDate, *addCard, *addCash, *addPix)
	case uploadCmd.FullCommand():
		err = cli.uploadSecret(ctx, *uploadFile, *uploadName)
	}

	if err != nil {
		kingpinApp.Fatalf("%v", err)
	}
}

type cli struct {
	cfg      *config.Config
	out      io.Writer
	resolve  func() (*credentials.Credentials, error)
	newSheet func(ctx context.Context, creds *credentials.Credentials) (spreadsheet.SalesSheet, error)
	secrets  config.SecretStorage
	readFile func(string) ([]byte, error)
}

func newCLI(cfg *config.Config, out io.Writer) *cli {
	return &cli{
		cfg:     cfg,
		out:     out,
		resolve: credentials.NewResolver(cfg.Credentials).Resolve,
		newSheet: func(ctx context.Context, creds *credentials.Credentials) (spreadsheet.SalesSheet, error) {
			return spreadsheet.NewClient(ctx, cfg.Spreadsheet, creds)
		},
		secrets:  config.NewRenderClient(cfg),
		readFile: os.ReadFile,
	}
}

func (c *cli) sheet(ctx context.Context) (spreadsheet.SalesSheet, *credentials.Credentials, error) {
	creds, err := c.resolve()
	if err != nil {
		return nil, nil, err
	}

	sheet, err := c.newSheet(ctx, creds)
	if err != nil {
		return nil, nil, err
	}
	return sheet, creds, nil
}

func (c *cli) checkCredentials(ctx context.Context) error {
	sheet, creds, err := c.sheet(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Credenciais: %s (%s)\n", creds.Account.ClientEmail, creds.Source)

	if err := sheet.Ping(ctx); err != nil {
		return fmt.Errorf("planilha inacessível: %w", err)
	}

	fmt.Fprintf(c.out, "Planilha %s acessível, aba %q encontrada\n", c.cfg.Spreadsheet.ID, c.cfg.Spreadsheet.WorksheetName)
	return nil
}

func (c *cli) list(ctx context.Context, limit int, asJSON bool) error {
	sheet, _, err := c.sheet(ctx)
	if err != nil {
		return err
	}

	recent, err := selling.NewService(sheet).RecentSales(ctx, limit)
	if err != nil {
		return err
	}

	if asJSON {
		fmt.Fprintln(c.out, utils.PrettyJson(recent))
		return nil
	}

	if len(recent) == 0 {
		fmt.Fprintln(c.out, "Nenhuma venda registrada.")
		return nil
	}

	for _, sale := range recent {
		fmt.Fprintf(c.out, "%s  %-13s  cartão %s  dinheiro %s  pix %s  total %s\n",
			sale.FormattedDate,
			sale.Weekday,
			utils.FormatBRL(sale.Card),
			utils.FormatBRL(sale.Cash),
			utils.FormatBRL(sale.Pix),
			utils.FormatBRL(sale.Total),
		)
	}
	return nil
}

func (c *cli) add(ctx context.Context, date, card, cash, pix string) error {
	req := &domain.NewSaleRequest{Date: date}

	var err error
	if req.Card, err = amountFlag("card", card); err != nil {
		return err
	}
	if req.Cash, err = amountFlag("cash", cash); err != nil {
		return err
	}
	if req.Pix, err = amountFlag("pix", pix); err != nil {
		return err
	}

	sheet, _, err := c.sheet(ctx)
	if err != nil {
		return err
	}

	sale, err := selling.NewService(sheet).RegisterSale(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Venda de %s registrada: total %s\n", sale.FormattedDate, utils.FormatBRL(sale.Total))
	return nil
}

func amountFlag(name, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}

	value, err := utils.ParseAmount(raw)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &value, nil
}

func (c *cli) uploadSecret(ctx context.Context, file, name string) error {
	if c.cfg.Render.APIKey == "" || c.cfg.Render.ServiceID == "" {
		return fmt.Errorf("RENDER_API_KEY e RENDER_SERVICE_ID são obrigatórios")
	}

	content, err := c.readFile(file)
	if err != nil {
		return fmt.Errorf("erro ao ler %s: %w", file, err)
	}

	// Só envia um documento que o servidor conseguiria usar
	if _, err := credentials.Parse(content); err != nil {
		return err
	}

	existing, err := c.secrets.ListSecrets(ctx, c.cfg.Render.ServiceID)
	if err != nil {
		return err
	}

	current, exists := existing[name]
	if exists && current == string(content) {
		fmt.Fprintf(c.out, "Secret file %s já está atualizado no serviço %s\n", name, c.cfg.Render.ServiceID)
		return nil
	}

	if err := c.secrets.AddOrUpdateSecret(ctx, c.cfg.Render.ServiceID, name, string(content)); err != nil {
		return err
	}

	action := "criado"
	if exists {
		action = "atualizado"
	}
	fmt.Fprintf(c.out, "Secret file %s %s no serviço %s\n", name, action, c.cfg.Render.ServiceID)
	return nil
}
