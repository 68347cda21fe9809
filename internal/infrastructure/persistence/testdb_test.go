package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/proserv/backend/internal/domain/sales"
	"github.com/proserv/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupSalesTestDB creates an in-memory SQLite database with the sales schema
func setupSalesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE quotes (
			id TEXT PRIMARY KEY,
			version INTEGER NOT NULL DEFAULT 1,
			code TEXT NOT NULL UNIQUE,
			client_id TEXT NOT NULL,
			client_name TEXT NOT NULL,
			payment_terms TEXT,
			document_discount NUMERIC NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'QUOTED',
			expiration_date DATETIME,
			notes TEXT,
			subtotal NUMERIC NOT NULL DEFAULT 0,
			discount_amount NUMERIC NOT NULL DEFAULT 0,
			taxable_amount NUMERIC NOT NULL DEFAULT 0,
			total_tax NUMERIC NOT NULL DEFAULT 0,
			total NUMERIC NOT NULL DEFAULT 0,
			confirmed_at DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE orders (
			id TEXT PRIMARY KEY,
			version INTEGER NOT NULL DEFAULT 1,
			client_id TEXT NOT NULL,
			client_name TEXT NOT NULL,
			payment_terms TEXT,
			document_discount NUMERIC NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'DRAFT',
			notes TEXT,
			linked_quote_id TEXT,
			subtotal NUMERIC NOT NULL DEFAULT 0,
			discount_amount NUMERIC NOT NULL DEFAULT 0,
			taxable_amount NUMERIC NOT NULL DEFAULT 0,
			total_tax NUMERIC NOT NULL DEFAULT 0,
			total NUMERIC NOT NULL DEFAULT 0,
			confirmed_at DATETIME,
			completed_at DATETIME,
			cancelled_at DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE line_items (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			product_name TEXT NOT NULL,
			special_bid_id TEXT,
			quantity NUMERIC NOT NULL,
			unit_price NUMERIC NOT NULL,
			line_discount NUMERIC NOT NULL DEFAULT 0,
			note TEXT,
			product_cost NUMERIC NOT NULL DEFAULT 0,
			product_tax_rate NUMERIC NOT NULL DEFAULT 0,
			product_mol_percentage NUMERIC NOT NULL DEFAULT 0,
			special_bid_unit_price NUMERIC,
			special_bid_mol_percentage NUMERIC,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE products (
			id TEXT PRIMARY KEY,
			version INTEGER NOT NULL DEFAULT 1,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT,
			cost NUMERIC NOT NULL DEFAULT 0,
			tax_rate NUMERIC NOT NULL DEFAULT 0,
			mol_percentage NUMERIC NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE special_prices (
			id TEXT PRIMARY KEY,
			version INTEGER NOT NULL DEFAULT 1,
			product_id TEXT NOT NULL,
			client_id TEXT NOT NULL,
			unit_price NUMERIC NOT NULL,
			mol_percentage NUMERIC NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE clients (
			id TEXT PRIMARY KEY,
			version INTEGER NOT NULL DEFAULT 1,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			contact_name TEXT,
			email TEXT,
			phone TEXT,
			payment_terms TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			version INTEGER NOT NULL DEFAULT 1,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL DEFAULT 'employee',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE projects (
			id TEXT PRIMARY KEY,
			version INTEGER NOT NULL DEFAULT 1,
			client_id TEXT NOT NULL,
			name TEXT NOT NULL,
			color TEXT NOT NULL,
			description TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE(client_id, name)
		)`,
		`CREATE TABLE notifications (
			id TEXT PRIMARY KEY,
			version INTEGER NOT NULL DEFAULT 1,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			read_at DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
	}

	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

// repoTestItem builds a line item with an attached snapshot
func repoTestItem(t *testing.T, productID uuid.UUID, qty, price int64) sales.LineItem {
	t.Helper()

	item, err := sales.NewLineItem(
		productID,
		"Consulting",
		nil,
		decimal.NewFromInt(qty),
		valueobject.NewMoneyEUR(decimal.NewFromInt(price)),
		valueobject.ZeroPercent(),
		"",
	)
	require.NoError(t, err)

	item.AttachSnapshot(sales.Snapshot{
		ProductCost:    decimal.NewFromInt(price / 2),
		ProductTaxRate: decimal.NewFromInt(20),
	})
	return *item
}

// repoTestQuote builds a quote with the given items and computed totals
func repoTestQuote(t *testing.T, code string, items ...sales.LineItem) *sales.Quote {
	t.Helper()

	quote, err := sales.NewQuote(code, uuid.New(), "ACME Corp", "NET30", valueobject.ZeroPercent(), nil, "")
	require.NoError(t, err)
	require.NoError(t, quote.ReplaceItems(items))

	totals := sales.ComputeTotals(quote.Items, valueobject.ZeroPercent())
	quote.ApplyTotals(totals)
	return quote
}

// repoTestOrder builds a draft order with the given items
func repoTestOrder(t *testing.T, linkedQuoteID *uuid.UUID, items ...sales.LineItem) *sales.Order {
	t.Helper()

	order, err := sales.NewOrder(uuid.New(), "ACME Corp", "NET30", valueobject.ZeroPercent(), "", linkedQuoteID)
	require.NoError(t, err)
	require.NoError(t, order.ReplaceItems(items))

	totals := sales.ComputeTotals(order.Items, valueobject.ZeroPercent())
	order.ApplyTotals(totals)
	return order
}
