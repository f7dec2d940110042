// Package gsheets is a tabular backend over the Google Sheets v4 values API.
package gsheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/2beens/gymsheets/internal/tabular"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	valueRenderOption = "UNFORMATTED_VALUE"
	valueInputOption  = "USER_ENTERED"
)

type Backend struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewService creates a Sheets client authenticated with a service account
// (or any other google credentials JSON), with HTTP calls traced.
func NewService(ctx context.Context, credentialsJSON []byte) (*sheets.Service, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	base := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, base), creds.TokenSource)

	service, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("new sheets service: %w", err)
	}
	return service, nil
}

func New(service *sheets.Service, spreadsheetID string) *Backend {
	return &Backend{
		service:       service,
		spreadsheetID: spreadsheetID,
	}
}

func (b *Backend) GetValues(ctx context.Context, region tabular.Region) ([][]tabular.Cell, error) {
	ref, err := a1Range(region)
	if err != nil {
		return nil, err
	}

	resp, err := b.service.Spreadsheets.Values.Get(b.spreadsheetID, ref).
		ValueRenderOption(valueRenderOption).
		Context(ctx).
		Do()
	if err != nil {
		return nil, mapError(region, err)
	}

	values := make([][]tabular.Cell, len(resp.Values))
	for i, row := range resp.Values {
		values[i] = make([]tabular.Cell, len(row))
		for j, v := range row {
			values[i][j] = tabular.CellOf(v)
		}
	}
	return values, nil
}

func (b *Backend) SetValues(ctx context.Context, region tabular.Region, values [][]tabular.Cell) error {
	ref, err := a1Range(region)
	if err != nil {
		return err
	}

	rows := make([][]any, len(values))
	for i, row := range values {
		rows[i] = make([]any, len(row))
		for j, c := range row {
			// blanks must be sent as "" to clear a cell, null leaves it untouched
			if c.IsBlank() {
				rows[i][j] = ""
				continue
			}
			rows[i][j] = c.Value()
		}
	}

	_, err = b.service.Spreadsheets.Values.Update(b.spreadsheetID, ref, &sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         rows,
	}).ValueInputOption(valueInputOption).Context(ctx).Do()
	if err != nil {
		return mapError(region, err)
	}
	return nil
}

func a1Range(region tabular.Region) (string, error) {
	a1, err := region.A1()
	if err != nil {
		return "", err
	}
	return "'" + strings.ReplaceAll(region.Sheet, "'", "''") + "'!" + a1, nil
}

// mapError turns the "Unable to parse range" reply for unknown sheets into ErrMissingCollaborator.
func mapError(region tabular.Region, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest &&
		strings.Contains(apiErr.Message, "Unable to parse range") {
		return fmt.Errorf("sheet %q: %w", region.Sheet, tabular.ErrMissingCollaborator)
	}
	return fmt.Errorf("sheets api %s: %w", region, err)
}
