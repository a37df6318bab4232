package granola

import (
	"context"

	"github.com/hashicorp-forge/granola-client/pkg/granola/catalog"
	"github.com/hashicorp-forge/granola-client/pkg/models"
)

// GetCalendarEvents lists synced calendar events. req may be nil.
func (c *Client) GetCalendarEvents(ctx context.Context, req *models.CalendarEventsRequest) (models.CalendarEventsResponse, error) {
	return call[models.CalendarEventsResponse](ctx, c, catalog.OpGetCalendarEvents, nil, req)
}

// RefreshGoogleEvents asks the server to resync Google calendar events.
func (c *Client) RefreshGoogleEvents(ctx context.Context) error {
	return exec(ctx, c, catalog.OpRefreshGoogleEvents, nil, nil)
}
