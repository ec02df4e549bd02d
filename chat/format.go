package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"go-restaurant/models"
)

// ActionBookingRetrieved marks a reply whose data is a stored booking.
const ActionBookingRetrieved = "booking_retrieved"

// booking holds the fields shown for a retrieved reservation. Values are
// kept loose because the backend sends guests and table as numbers or text.
type booking struct {
	Customer  any `json:"customer"`
	Date      any `json:"date"`
	Time      any `json:"time"`
	Guests    any `json:"guests"`
	TablePref any `json:"table_pref"`
	Table     any `json:"table"`
	Status    any `json:"status"`
}

// FormatReply turns a structured reply into the text shown in the chat
// window. Booking lookups get a details block appended.
func FormatReply(reply models.ChatReply) string {
	text := reply.Message
	if !reply.HasData() || reply.Action != ActionBookingRetrieved {
		return text
	}

	var b booking
	if err := json.Unmarshal(reply.Data, &b); err != nil {
		return text
	}

	table := b.TablePref
	if !present(table) {
		table = b.Table
	}

	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString("\n\n📅 Booking Details:\n")
	fmt.Fprintf(&sb, "Customer: %s\n", field(b.Customer))
	fmt.Fprintf(&sb, "Date: %s\n", field(b.Date))
	fmt.Fprintf(&sb, "Time: %s\n", field(b.Time))
	fmt.Fprintf(&sb, "Guests: %s\n", field(b.Guests))
	fmt.Fprintf(&sb, "Table: %s\n", field(table))
	fmt.Fprintf(&sb, "Status: %s", field(b.Status))
	return sb.String()
}

func present(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case float64:
		return v != 0
	case bool:
		return v
	}
	return true
}

func field(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
