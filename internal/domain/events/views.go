package events

import (
	"fmt"
	"time"
)

// Summary is the short projection used by the "all events" and "joined
// events" listings.
type Summary struct {
	ID        int64
	Name      string
	Start     string
	Type      string
	Organiser string
}

// Detail is the full projection for a single event page.
type Detail struct {
	ID          int64
	Name        string
	Description string
	Start       string
	End         string
	CreatedOn   string
	Organiser   string
	Type        string
}

// TypeOption populates the type selection control on create/edit forms.
type TypeOption struct {
	ID   int64
	Name string
}

// FormatTimestamp renders timestamps as dd/MM/yyyy H:mm: zero-padded day and
// month, 24-hour clock with no zero padding on the hour. time.Format has no
// verb for a non-padded 24-hour value, hence the manual formatting.
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%02d/%02d/%04d %d:%02d", t.Day(), int(t.Month()), t.Year(), t.Hour(), t.Minute())
}

func summarize(event Event) Summary {
	return Summary{
		ID:        event.ID,
		Name:      event.Name,
		Start:     FormatTimestamp(event.Start),
		Type:      event.TypeName,
		Organiser: event.OrganiserName,
	}
}
