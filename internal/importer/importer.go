// Package importer ingests order history from CSV files.
//
// Row format: date, client name, product name, quantity, unit price — with
// one header row. Unknown clients and products are created on the fly so a
// raw export can be dropped in without any onboarding step.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/TiagoFrencia/smartcommerce-b2b/internal/models"
	"github.com/TiagoFrencia/smartcommerce-b2b/internal/store"
)

// Importer writes CSV rows into the store.
type Importer struct {
	store  *store.Store
	logger *zap.Logger
}

// New builds an importer.
func New(st *store.Store, logger *zap.Logger) *Importer {
	return &Importer{store: st, logger: logger}
}

// ImportFile imports every valid row of the file as one order, returning
// the number of orders created. Malformed rows are skipped with a warning.
func (i *Importer) ImportFile(ctx context.Context, path string, userID int64) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	n, err := i.importReader(ctx, f, userID)
	if err != nil {
		return n, err
	}
	i.logger.Info("csv import finished", zap.String("path", path), zap.Int("orders", n))
	return n, nil
}

func (i *Importer) importReader(ctx context.Context, r io.Reader, userID int64) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	imported := 0
	header := true

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("failed to read csv: %w", err)
		}
		if header {
			header = false
			continue
		}

		if err := i.importRow(ctx, row, userID); err != nil {
			i.logger.Warn("skipping invalid csv row", zap.Strings("row", row), zap.Error(err))
			continue
		}
		imported++
	}

	return imported, nil
}

func (i *Importer) importRow(ctx context.Context, row []string, userID int64) error {
	if len(row) < 5 {
		return fmt.Errorf("expected 5 columns, got %d", len(row))
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(row[0]))
	if err != nil {
		return fmt.Errorf("bad date: %w", err)
	}
	clientName := strings.TrimSpace(row[1])
	productName := strings.TrimSpace(row[2])
	if clientName == "" || productName == "" {
		return fmt.Errorf("empty client or product name")
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(row[3]))
	if err != nil || quantity <= 0 {
		return fmt.Errorf("bad quantity %q", row[3])
	}
	price, err := decimal.NewFromString(strings.TrimSpace(row[4]))
	if err != nil {
		return fmt.Errorf("bad price: %w", err)
	}

	client, err := i.store.UpsertClientByName(ctx, clientName, userID)
	if err != nil {
		return err
	}
	productID, err := i.store.UpsertProduct(ctx, productName, price)
	if err != nil {
		return err
	}

	order := models.Order{
		ClientID:  &client.ID,
		UserID:    userID,
		Total:     price.Mul(decimal.NewFromInt(int64(quantity))),
		Status:    "COMPLETED",
		CreatedAt: date,
		Lines: []models.OrderLine{{
			ProductID:   productID,
			ProductName: productName,
			Quantity:    quantity,
			UnitPrice:   price,
		}},
	}

	_, err = i.store.InsertOrder(ctx, order)
	return err
}
