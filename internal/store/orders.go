package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TiagoFrencia/smartcommerce-b2b/internal/apperr"
	"github.com/TiagoFrencia/smartcommerce-b2b/internal/models"
)

// OrdersByIDs loads the orders with the given identifiers, preserving the
// requested order. Unknown identifiers are skipped, matching the lookup
// semantics of a find-all-by-id collaborator.
func (s *Store) OrdersByIDs(ctx context.Context, ids []int64) ([]models.Order, error) {
	orders := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		order, err := s.orderByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// OrdersByClient loads every order of one client, oldest first.
func (s *Store) OrdersByClient(ctx context.Context, clientID int64) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM orders WHERE client_id = ? ORDER BY created_at, id`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan order id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return s.OrdersByIDs(ctx, ids)
}

func (s *Store) orderByID(ctx context.Context, id int64) (models.Order, error) {
	var (
		order     models.Order
		clientID  sql.NullInt64
		total     string
		createdAt time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, client_id, user_id, total, status, created_at FROM orders WHERE id = ?`, id).
		Scan(&order.ID, &clientID, &order.UserID, &total, &order.Status, &createdAt)
	if err != nil {
		return models.Order{}, err
	}

	order.CreatedAt = createdAt
	order.Total, err = decimal.NewFromString(total)
	if err != nil {
		return models.Order{}, fmt.Errorf("corrupt order total %q: %w", total, err)
	}

	if clientID.Valid {
		cid := clientID.Int64
		order.ClientID = &cid
		client, err := s.ClientByID(ctx, cid)
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return models.Order{}, err
		}
		if err == nil {
			order.Client = &client
		}
	}

	order.Lines, err = s.orderLines(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *Store) orderLines(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT i.product_id, p.name, p.category, i.quantity, i.price
		 FROM order_items i JOIN products p ON p.id = i.product_id
		 WHERE i.order_id = ? ORDER BY i.id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var lines []models.OrderLine
	for rows.Next() {
		var (
			line  models.OrderLine
			price string
		)
		if err := rows.Scan(&line.ProductID, &line.ProductName, &line.Category, &line.Quantity, &price); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		line.UnitPrice, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("corrupt item price %q: %w", price, err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// ClientByID loads one client.
func (s *Store) ClientByID(ctx context.Context, id int64) (models.Client, error) {
	var c models.Client
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, industry, contact_email, tier, user_id FROM clients WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Industry, &c.ContactEmail, &c.Tier, &c.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Client{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Client{}, fmt.Errorf("failed to load client: %w", err)
	}
	return c, nil
}

// UpsertClientByName finds a client owned by the user, creating one with
// the default tier when absent. Used by the CSV importer.
func (s *Store) UpsertClientByName(ctx context.Context, name string, userID int64) (models.Client, error) {
	var c models.Client
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, industry, contact_email, tier, user_id FROM clients WHERE name = ? AND user_id = ?`,
		name, userID).
		Scan(&c.ID, &c.Name, &c.Industry, &c.ContactEmail, &c.Tier, &c.UserID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Client{}, fmt.Errorf("failed to look up client: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO clients (name, tier, user_id) VALUES (?, ?, ?)`,
		name, models.DefaultTier, userID)
	if err != nil {
		return models.Client{}, fmt.Errorf("failed to create client: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Client{}, err
	}
	return models.Client{ID: id, Name: name, Tier: models.DefaultTier, UserID: userID}, nil
}

// UpsertProduct finds a product by name, creating it with the given price
// when absent.
func (s *Store) UpsertProduct(ctx context.Context, name string, price decimal.Decimal) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM products WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up product: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (name, price) VALUES (?, ?)`, name, price.String())
	if err != nil {
		return 0, fmt.Errorf("failed to create product: %w", err)
	}
	return res.LastInsertId()
}

// InsertOrder stores an order with its lines in one transaction.
func (s *Store) InsertOrder(ctx context.Context, order models.Order) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (client_id, user_id, total, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		nullableID(order.ClientID), order.UserID, order.Total.String(), order.Status, order.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, line := range order.Lines {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price) VALUES (?, ?, ?, ?)`,
			orderID, line.ProductID, line.Quantity, line.UnitPrice.String()); err != nil {
			return 0, fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit order: %w", err)
	}
	return orderID, nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
