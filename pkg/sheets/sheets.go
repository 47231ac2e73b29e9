package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/budsjett/budsjett/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client wraps the Sheets API for one spreadsheet tab.
type Client struct {
	svc           *gsheet.Service
	spreadsheetId string
	sheetName     string
}

// NewClient builds a Sheets client from OAuth client and token files.
// Returns nil without error when no spreadsheet is configured, so callers
// can treat the mirror as disabled.
func NewClient(ctx context.Context, cfg config.Sheets) (*Client, error) {
	if cfg.SpreadsheetId == "" {
		return nil, nil
	}

	clientJson, err := os.ReadFile(cfg.OAuthClientFile)
	if err != nil {
		return nil, fmt.Errorf("reading oauth client file: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJson, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parsing oauth client file: %w", err)
	}

	tokenJson, err := os.ReadFile(cfg.OAuthTokenFile)
	if err != nil {
		return nil, fmt.Errorf("reading oauth token file: %w", err)
	}
	var token oauth2.Token
	if err = json.Unmarshal(tokenJson, &token); err != nil {
		return nil, fmt.Errorf("parsing oauth token file: %w", err)
	}

	svc, err := gsheet.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, &token)))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetId: cfg.SpreadsheetId,
		sheetName:     cfg.SheetName,
	}, nil
}

func (c *Client) AppendRow(ctx context.Context, row []any) error {
	rng := fmt.Sprintf("%s!A:G", c.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetId, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending to sheet %s: %w", c.sheetName, err)
	}
	return nil
}

// ReplaceAll clears the tab and writes the given rows from the top.
func (c *Client) ReplaceAll(ctx context.Context, rows [][]any) error {
	rng := fmt.Sprintf("%s!A:G", c.sheetName)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetId, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clearing sheet %s: %w", c.sheetName, err)
	}
	if len(rows) == 0 {
		return nil
	}
	vr := &gsheet.ValueRange{Values: rows}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetId, fmt.Sprintf("%s!A1", c.sheetName), vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing sheet %s: %w", c.sheetName, err)
	}
	return nil
}
