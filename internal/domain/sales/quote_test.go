package sales

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/proserv/backend/internal/domain/shared"
	"github.com/proserv/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quoteTestItem(t *testing.T) LineItem {
	t.Helper()
	item, err := NewLineItem(uuid.New(), "Service", nil,
		decimal.NewFromInt(1), valueobject.NewMoneyEUR(decimal.NewFromInt(100)), valueobject.ZeroPercent(), "")
	require.NoError(t, err)
	return *item
}

func quoteWithItems(t *testing.T) *Quote {
	t.Helper()
	quote, err := NewQuote("Q-2026-00001", uuid.New(), "Acme", "NET30", valueobject.ZeroPercent(), nil, "")
	require.NoError(t, err)
	require.NoError(t, quote.ReplaceItems([]LineItem{quoteTestItem(t)}))
	quote.ClearDomainEvents()
	return quote
}

func TestNewQuote(t *testing.T) {
	t.Run("creates a quote in QUOTED status", func(t *testing.T) {
		quote, err := NewQuote("Q-2026-00001", uuid.New(), "Acme", "NET30", valueobject.ZeroPercent(), nil, "")

		require.NoError(t, err)
		assert.Equal(t, QuoteStatusQuoted, quote.Status)
		assert.True(t, quote.CanModify())
		assert.True(t, quote.CanDelete())
		assert.Len(t, quote.GetDomainEvents(), 1)
	})

	t.Run("rejects missing code or client", func(t *testing.T) {
		_, err := NewQuote("", uuid.New(), "Acme", "", valueobject.ZeroPercent(), nil, "")
		assert.Error(t, err)

		_, err = NewQuote("Q-1", uuid.Nil, "Acme", "", valueobject.ZeroPercent(), nil, "")
		assert.Error(t, err)

		_, err = NewQuote("Q-1", uuid.New(), "", "", valueobject.ZeroPercent(), nil, "")
		assert.Error(t, err)
	})
}

func TestQuote_Confirm(t *testing.T) {
	t.Run("confirming freezes the quote", func(t *testing.T) {
		quote := quoteWithItems(t)

		require.NoError(t, quote.Confirm())

		assert.Equal(t, QuoteStatusConfirmed, quote.Status)
		assert.NotNil(t, quote.ConfirmedAt)
		assert.False(t, quote.CanModify())
		assert.False(t, quote.CanDelete())
		assert.Len(t, quote.GetDomainEvents(), 1)
	})

	t.Run("confirming twice is a no-op", func(t *testing.T) {
		quote := quoteWithItems(t)
		require.NoError(t, quote.Confirm())
		quote.ClearDomainEvents()

		require.NoError(t, quote.Confirm())

		assert.Empty(t, quote.GetDomainEvents())
	})

	t.Run("cannot confirm without items", func(t *testing.T) {
		quote, err := NewQuote("Q-2026-00001", uuid.New(), "Acme", "", valueobject.ZeroPercent(), nil, "")
		require.NoError(t, err)

		err = quote.Confirm()

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NO_ITEMS", domainErr.Code)
	})

	t.Run("confirmed quote rejects edits", func(t *testing.T) {
		quote := quoteWithItems(t)
		require.NoError(t, quote.Confirm())

		assert.Error(t, quote.UpdateTerms(uuid.New(), "Other", "", valueobject.ZeroPercent(), nil, ""))
		assert.Error(t, quote.ReplaceItems([]LineItem{quoteTestItem(t)}))
		assert.Error(t, quote.ChangeCode("Q-2026-00002"))
	})
}

func TestQuote_Restore(t *testing.T) {
	t.Run("restores a confirmed quote to QUOTED", func(t *testing.T) {
		quote := quoteWithItems(t)
		require.NoError(t, quote.Confirm())
		quote.ClearDomainEvents()

		require.NoError(t, quote.Restore())

		assert.Equal(t, QuoteStatusQuoted, quote.Status)
		assert.Nil(t, quote.ConfirmedAt)
		assert.True(t, quote.CanModify())
		assert.Len(t, quote.GetDomainEvents(), 1)
	})

	t.Run("only a confirmed quote can be restored", func(t *testing.T) {
		quote := quoteWithItems(t)

		err := quote.Restore()

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestQuote_IsExpired(t *testing.T) {
	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)

	t.Run("no expiration date never expires", func(t *testing.T) {
		quote := quoteWithItems(t)
		assert.False(t, quote.IsExpired(now))
	})

	t.Run("a confirmed quote never expires", func(t *testing.T) {
		quote := quoteWithItems(t)
		yesterday := now.AddDate(0, 0, -1)
		quote.ExpirationDate = &yesterday
		require.NoError(t, quote.Confirm())

		assert.False(t, quote.IsExpired(now))
	})

	t.Run("expired the day after the expiration date", func(t *testing.T) {
		quote := quoteWithItems(t)
		yesterday := now.AddDate(0, 0, -1)
		quote.ExpirationDate = &yesterday

		assert.True(t, quote.IsExpired(now))
	})

	t.Run("valid until the end of the expiration day", func(t *testing.T) {
		quote := quoteWithItems(t)
		// expiration earlier today: the time of day is ignored
		morning := time.Date(2026, time.August, 30, 8, 0, 0, 0, time.UTC)
		quote.ExpirationDate = &morning

		assert.False(t, quote.IsExpired(now))
		assert.False(t, quote.IsExpired(time.Date(2026, time.August, 30, 23, 59, 59, 0, time.UTC)))
		assert.True(t, quote.IsExpired(time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)))
	})
}
