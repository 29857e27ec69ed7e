package database

import (
	"context"
	"fmt"
	"time"

	"techsetu-website-api/models"
)

func (c *Connection) SaveLead(lead *models.ContactLead) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO contact_leads (id, name, email, phone, company, service, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, lead.ID, lead.Name, lead.Email, lead.Phone, lead.Company, lead.Service,
		lead.Message, lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting lead: %v", err)
	}

	return nil
}
