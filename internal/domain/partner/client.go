package partner

import (
	"strings"

	"github.com/proserv/backend/internal/domain/shared"
)

// Client represents a client in the partner context
type Client struct {
	shared.BaseAggregateRoot
	Code         string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(200);not null"`
	ContactName  string `gorm:"type:varchar(100)"`
	Email        string `gorm:"type:varchar(200);index"`
	Phone        string `gorm:"type:varchar(50)"`
	PaymentTerms string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new client
func NewClient(code, name string) (*Client, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Client code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}

	return &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
	}, nil
}

// UpdateContact updates the client's contact information
func (c *Client) UpdateContact(contactName, email, phone string) {
	c.ContactName = contactName
	c.Email = email
	c.Phone = phone
	c.Touch()
}
