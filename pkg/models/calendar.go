package models

// CalendarEventsRequest bounds the calendar query. The zero value returns the
// server's default window.
type CalendarEventsRequest struct {
	Start Timestamp `json:"start,omitzero"`
	End   Timestamp `json:"end,omitzero"`
	Limit int       `json:"limit,omitempty" validate:"gte=0"`
}

// CalendarEvent is a synced calendar entry.
type CalendarEvent struct {
	ID          string     `json:"id" validate:"required"`
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	Start       Timestamp  `json:"start"`
	End         Timestamp  `json:"end"`
	CalendarID  string     `json:"calendar_id,omitempty"`
	HTMLLink    string     `json:"html_link,omitempty"`
	DocumentID  string     `json:"document_id,omitempty"`
	Attendees   []Attendee `json:"attendees,omitempty"`
}

// Attendee is an invitee of a calendar event.
type Attendee struct {
	Email          string `json:"email"`
	DisplayName    string `json:"display_name,omitempty"`
	ResponseStatus string `json:"response_status,omitempty"`
	Organizer      bool   `json:"organizer,omitempty"`
}

// CalendarEventsResponse lists calendar events.
type CalendarEventsResponse struct {
	Events []CalendarEvent `json:"events" validate:"dive"`
}
