// Package source loads the dashboard's input workbooks and turns them into
// domain records.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvloznov/sales-dashboard/internal/auth"
	"github.com/dvloznov/sales-dashboard/internal/domain"
	"github.com/dvloznov/sales-dashboard/internal/report"
	"github.com/dvloznov/sales-dashboard/internal/sheet"
)

// ObjectStore is the slice of the bucket store the loader needs.
type ObjectStore interface {
	Download(ctx context.Context, object string) ([]byte, error)
	LatestSalesObject(ctx context.Context, prefix string) (name, date string, err error)
}

// Loader resolves and parses the sales, client, product and user workbooks.
type Loader struct {
	store         ObjectStore
	salesPrefix   string
	clientObject  string
	productObject string
	adminObject   string
}

func NewLoader(store ObjectStore, salesPrefix, clientObject, productObject, adminObject string) *Loader {
	return &Loader{
		store:         store,
		salesPrefix:   salesPrefix,
		clientObject:  clientObject,
		productObject: productObject,
		adminObject:   adminObject,
	}
}

// Sales downloads the newest dated sales workbook and normalizes its rows.
// It returns the transactions together with the object name and its YYYYMMDD
// stamp so the UI can show which file is being served.
func (l *Loader) Sales(ctx context.Context) ([]domain.Transaction, string, string, error) {
	name, date, err := l.store.LatestSalesObject(ctx, l.salesPrefix)
	if err != nil {
		return nil, "", "", fmt.Errorf("resolve latest sales workbook: %w", err)
	}

	rows, err := l.rows(ctx, name)
	if err != nil {
		return nil, "", "", err
	}

	txs := make([]domain.Transaction, 0, len(rows))
	for _, row := range skipHeader(rows) {
		if tx, ok := report.NormalizeRow(row, report.DefaultSalesLayout); ok {
			txs = append(txs, tx)
		}
	}
	return txs, name, date, nil
}

func (l *Loader) Clients(ctx context.Context) ([]domain.Client, error) {
	rows, err := l.rows(ctx, l.clientObject)
	if err != nil {
		return nil, err
	}
	clients := make([]domain.Client, 0, len(rows))
	for _, row := range skipHeader(rows) {
		if c, ok := report.NormalizeClientRow(row, report.DefaultClientLayout); ok {
			clients = append(clients, c)
		}
	}
	return clients, nil
}

func (l *Loader) Products(ctx context.Context) ([]domain.Product, error) {
	rows, err := l.rows(ctx, l.productObject)
	if err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(rows))
	for _, row := range skipHeader(rows) {
		if p, ok := report.NormalizeProductRow(row, report.DefaultProductLayout); ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func (l *Loader) Users(ctx context.Context) ([]auth.User, error) {
	rows, err := l.rows(ctx, l.adminObject)
	if err != nil {
		return nil, err
	}
	users := make([]auth.User, 0, len(rows))
	for _, row := range skipHeader(rows) {
		u := auth.User{
			Type:     cell(row, 0),
			Username: cell(row, 1),
			Password: cell(row, 2),
			Name:     cell(row, 3),
		}
		if u.Username == "" {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func (l *Loader) rows(ctx context.Context, object string) ([][]string, error) {
	blob, err := l.store.Download(ctx, object)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", object, err)
	}
	rows, err := sheet.Rows(blob)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", object, err)
	}
	return rows, nil
}

func skipHeader(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}
	return rows[1:]
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
