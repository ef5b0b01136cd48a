package clients

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lamf-backend/internal/domain"
	ws "lamf-backend/internal/transport/websocket"
)

// WebSocketClient pushes lifecycle events to connected dashboard clients.
type WebSocketClient struct {
	hub *ws.Hub
}

func NewWebSocketClient(hub *ws.Hub) *WebSocketClient {
	return &WebSocketClient{
		hub: hub,
	}
}

func (c *WebSocketClient) NotifyApplicationCreated(ctx context.Context, app *domain.LoanApplication) error {
	if c.hub == nil {
		return nil
	}

	c.hub.Broadcast(&ws.Message{
		Type: "application_created",
		Data: map[string]interface{}{
			"id":               app.ID.String(),
			"status":           app.Status,
			"requested_amount": app.RequestedAmount.String(),
		},
	})
	return nil
}

func (c *WebSocketClient) NotifyApplicationStatus(ctx context.Context, appID uuid.UUID, status domain.ApplicationStatus) error {
	if c.hub == nil {
		return nil
	}

	c.hub.Broadcast(&ws.Message{
		Type: "application_status",
		Data: map[string]interface{}{
			"id":     appID.String(),
			"status": status,
		},
	})
	return nil
}

func (c *WebSocketClient) NotifyRepayment(ctx context.Context, loanID uuid.UUID, amount, outstanding decimal.Decimal, closed bool) error {
	if c.hub == nil {
		return nil
	}

	event := "loan_repayment"
	if closed {
		event = "loan_closed"
	}

	c.hub.Broadcast(&ws.Message{
		Type: event,
		Data: map[string]interface{}{
			"id":          loanID.String(),
			"amount":      amount.String(),
			"outstanding": outstanding.String(),
		},
	})
	return nil
}
