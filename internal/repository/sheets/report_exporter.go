package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/vparedes/maricultor/internal/config"
	"github.com/vparedes/maricultor/internal/domain/models"
)

const (
	distributionsRange  = "Distribuciones!A:K"
	reconciliationRange = "Monitoreo!A:I"
	dateLayout          = "2006-01-02"
)

// Exporter appends report rows to an external spreadsheet for the operation's
// accountants.
type Exporter interface {
	AppendDistribution(ctx context.Context, d models.Distribution) error
	AppendReconciliationRow(ctx context.Context, row models.ReconciliationRow) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendDistribution writes one payout record to the distributions sheet.
func (e *GoogleSheetExporter) AppendDistribution(ctx context.Context, d models.Distribution) error {
	return e.appendRow(ctx, distributionsRange, []interface{}{
		d.DistributionDate.Format(dateLayout),
		d.LotID,
		d.HarvestPlanID,
		d.InvestorID,
		d.InvestmentPercentage,
		d.HarvestRevenue,
		d.HarvestExpenses,
		d.NetProfit,
		d.DistributedAmount,
		d.ROI,
		string(d.Status),
	})
}

// AppendReconciliationRow writes one monitoring comparison to the sheet.
func (e *GoogleSheetExporter) AppendReconciliationRow(ctx context.Context, row models.ReconciliationRow) error {
	realSize := interface{}("")
	if row.RealSize != nil {
		realSize = *row.RealSize
	}

	return e.appendRow(ctx, reconciliationRange, []interface{}{
		row.Date.Format(dateLayout),
		row.LotID,
		row.RealQuantity,
		row.TheoreticalQuantity,
		row.QuantityDifference,
		row.QuantityDifferencePct,
		realSize,
		row.TheoreticalSize,
		string(row.Status),
	})
}

func (e *GoogleSheetExporter) appendRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	e.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}
