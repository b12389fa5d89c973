// Package models defines the core data types for inboxdot.
package models

import "strings"

// ConversationVerdict is the persisted follow-up determination for one
// conversation. Field names match the durable cache layout.
type ConversationVerdict struct {
	// IsDue is true when the local user's last message has gone
	// unanswered for at least the configured threshold.
	IsDue bool `json:"isDue"`

	// FromMe records whether the latest message was sent by the local user.
	FromMe bool `json:"fromMe"`

	// Time is the raw display time text the verdict was derived from.
	Time string `json:"time"`

	// AgeDays is the heuristic age of the latest message, in days.
	AgeDays float64 `json:"ageDays"`
}

// Validate checks the verdict for internal consistency.
func (v *ConversationVerdict) Validate() error {
	validation := &ValidationErrors{}
	if v.AgeDays < 0 {
		validation.AddMessage("ageDays", "ageDays must not be negative")
	}
	if v.IsDue && !v.FromMe {
		validation.AddMessage("isDue", "a conversation is only due when the last message is from the local user")
	}
	if strings.TrimSpace(v.Time) == "" {
		validation.AddMessage("time", "time text is required")
	}
	return validation.Err()
}
