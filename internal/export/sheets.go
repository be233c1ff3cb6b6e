// Package export writes computed reports to a Google Sheets spreadsheet.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"finboard/internal/log"
	"finboard/internal/reports"
)

// Exporter writes one report somewhere and returns where it landed.
type Exporter interface {
	Export(ctx context.Context, r reports.Report) (string, error)
}

// Config selects the spreadsheet and the service account credentials.
// CredentialsJSON wins over CredentialsFile.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// Client exports reports into tabs named "<SheetName> <selector>".
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

var _ Exporter = (*Client)(nil)

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Client, error) {
	credentials, err := credentialsJSON(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithOptions(ctx, cfg, logger,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

// NewWithOptions creates a client with explicit client options, e.g. an
// endpoint override.
func NewWithOptions(ctx context.Context, cfg Config, logger *log.Logger, opts ...goption.ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	name := strings.TrimSpace(cfg.SheetName)
	if name == "" {
		name = "Reports"
	}
	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     name,
		logger:        log.OrNop(logger).WithComponent(log.ComponentExport),
	}, nil
}

func credentialsJSON(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
}

// Tab returns the tab name a report is written to.
func (c *Client) Tab(sel reports.Selector) string {
	return c.sheetName + " " + string(sel)
}

// Export clears the report's tab and writes the report table from A1.
func (c *Client) Export(ctx context.Context, r reports.Report) (string, error) {
	rows := Table(r)
	if rows == nil {
		return "", fmt.Errorf("export %q: unsupported report", r.Selector)
	}
	return c.write(ctx, c.Tab(r.Selector), rows)
}

// ExportShares writes a filtered category distribution.
func (c *Client) ExportShares(ctx context.Context, shares []reports.CategoryShare) (string, error) {
	return c.write(ctx, c.Tab(reports.CategoryDistribution), ShareTable(shares))
}

func (c *Client) write(ctx context.Context, tab string, rows [][]any) (string, error) {
	rng := fmt.Sprintf("'%s'", tab)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear %s: %w", tab, err)
	}

	vr := &gsheet.ValueRange{Values: rows}
	resp, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng+"!A1", vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update %s: %w", tab, err)
	}

	c.logger.InfoContext(ctx, "Report exported",
		log.FieldOperation, log.OpExport,
		"range", resp.UpdatedRange,
		log.FieldCount, len(rows))
	return resp.UpdatedRange, nil
}
