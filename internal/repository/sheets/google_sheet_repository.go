package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/damagelog/internal/config"
)

// ErrEmptyRange is returned when an operation is given no A1 range.
var ErrEmptyRange = errors.New("sheetRange must not be empty")

// Repository defines the spreadsheet operations the intake service needs.
type Repository interface {
	// AppendRows appends all rows in a single call, so either every row lands
	// or none does.
	AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// GoogleSheetRepository implements Repository using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance
// authenticated with a service-account credentials file.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	return newRepository(ctx, cfg.SpreadsheetID, logger,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsScope))
}

func newRepository(ctx context.Context, spreadsheetID string, logger *zap.Logger, opts ...option.ClientOption) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: spreadsheetID,
		logger:        logger,
	}, nil
}

// AppendRows appends the provided rows below the table found in sheetRange.
func (r *GoogleSheetRepository) AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error {
	if sheetRange == "" {
		return ErrEmptyRange
	}
	if len(rows) == 0 {
		return nil
	}

	payload := &sheetsapi.ValueRange{Values: rows}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append %d rows into range %s: %w", len(rows), sheetRange, err)
	}

	r.logger.Debug("rows appended to sheet", zap.String("range", sheetRange), zap.Int("rows", len(rows)))
	return nil
}

// ReadRange fetches a rectangular data range from the spreadsheet.
func (r *GoogleSheetRepository) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if sheetRange == "" {
		return nil, ErrEmptyRange
	}

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	return resp.Values, nil
}
