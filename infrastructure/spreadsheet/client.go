package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/credentials"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

//go:generate mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks

const (
	defaultWorksheet = "Vendas"
	defaultTimeout   = 15 * time.Second

	valueInputUserEntered  = "USER_ENTERED"
	insertDataInsertRows   = "INSERT_ROWS"
	renderUnformattedValue = "UNFORMATTED_VALUE"
	renderFormattedString  = "FORMATTED_STRING"
)

// Escopos usados pela conta de serviço
var Scopes = []string{
	sheets.SpreadsheetsScope,
	sheets.DriveReadonlyScope,
}

var (
	ErrWorksheetNotFound = errors.New("aba da planilha não encontrada")
	ErrMissingDateColumn = errors.New("coluna Data ausente no cabeçalho")
)

// SalesSheet é o acesso à aba de vendas
type SalesSheet interface {
	ReadSales(ctx context.Context) ([]*domain.Sale, error)
	AppendSale(ctx context.Context, sale *domain.Sale) error
	Ping(ctx context.Context) error
}

type Client struct {
	service       *sheets.Service
	spreadsheetID string
	worksheet     string
	timeout       time.Duration
}

// NewClient autentica com a conta de serviço resolvida e abre a planilha configurada
func NewClient(ctx context.Context, cfg config.Spreadsheet, creds *credentials.Credentials) (*Client, error) {
	if creds == nil {
		return nil, credentials.ErrCredentialsNotFound
	}

	return NewClientWithOptions(ctx, cfg,
		option.WithCredentialsJSON(creds.JSON),
		option.WithScopes(Scopes...),
	)
}

func NewClientWithOptions(ctx context.Context, cfg config.Spreadsheet, opts ...option.ClientOption) (*Client, error) {
	if cfg.ID == "" {
		return nil, errors.New("spreadsheet: ID da planilha não informado")
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "spreadsheet: falha ao criar cliente do Google Sheets")
	}

	worksheet := cfg.WorksheetName
	if worksheet == "" {
		worksheet = defaultWorksheet
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		service:       service,
		spreadsheetID: cfg.ID,
		worksheet:     worksheet,
		timeout:       timeout,
	}, nil
}

// sheetRange cita o nome da aba para aceitar espaços e acentos
func (c *Client) sheetRange() string {
	return fmt.Sprintf("'%s'", strings.ReplaceAll(c.worksheet, "'", "''"))
}

func (c *Client) ReadSales(ctx context.Context) ([]*domain.Sale, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, c.sheetRange()).
		ValueRenderOption(renderUnformattedValue).
		DateTimeRenderOption(renderFormattedString).
		Context(ctx).
		Do()
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "spreadsheet: falha ao ler a aba %s", c.worksheet)
	}

	sales, skipped, err := parseSales(resp.Values)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "spreadsheet: aba %s", c.worksheet)
	}

	logger := log.ForContext(ctx).WithFields(log.Fields{
		"worksheet": c.worksheet,
		"records":   len(sales),
	})
	if skipped > 0 {
		logger.Warnf("spreadsheet: %d linhas descartadas por data inválida", skipped)
	} else {
		logger.Debug("spreadsheet: aba lida")
	}

	return sales, nil
}

func (c *Client) AppendSale(ctx context.Context, sale *domain.Sale) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := &sheets.ValueRange{
		Values: [][]interface{}{sale.SheetRow()},
	}

	_, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, c.sheetRange(), body).
		ValueInputOption(valueInputUserEntered).
		InsertDataOption(insertDataInsertRows).
		Context(ctx).
		Do()
	if err != nil {
		return pkgerrors.Wrapf(err, "spreadsheet: falha ao registrar venda de %s", sale.FormattedDate)
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"worksheet": c.worksheet,
		"sale_date": sale.FormattedDate,
	}).Info("spreadsheet: venda registrada")

	return nil
}

// Ping confirma o acesso à planilha e a existência da aba configurada
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	spreadsheet, err := c.service.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return pkgerrors.Wrap(err, "spreadsheet: falha ao acessar a planilha")
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == c.worksheet {
			return nil
		}
	}

	return pkgerrors.Wrapf(ErrWorksheetNotFound, "spreadsheet: %s", c.worksheet)
}
