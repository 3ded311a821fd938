package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Sheet tab names in the synced spreadsheet.
const (
	SheetEmployees   = "Empleados"
	SheetParameters  = "Parametros"
	SheetPayroll     = "Nominas"
	SheetSettlements = "Liquidaciones"
)

// Client appends rows to a Google Sheets document through an Apps Script
// web-app deployment. The script expects the tab name as a query parameter
// and the row as a flat JSON object in the body.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

func New(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether a webhook URL is configured. Callers skip sync
// entirely when it is not.
func (c *Client) Enabled() bool {
	return c.webhookURL != ""
}

func (c *Client) AddRow(ctx context.Context, sheet string, record map[string]any) error {
	if !c.Enabled() {
		return nil
	}

	body, err := json.Marshal(record)
	if err != nil {
		return err
	}

	endpoint := c.webhookURL + "?sheet=" + url.QueryEscape(sheet)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sheets webhook returned %d: %s", resp.StatusCode, raw)
	}
	return nil
}
