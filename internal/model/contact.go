package model

import "time"

// ContactStatus is the lifecycle state of a contact message.
type ContactStatus string

const (
	ContactStatusNew     ContactStatus = "new"
	ContactStatusReplied ContactStatus = "replied"
)

// Valid reports whether s is one of the known statuses.
func (s ContactStatus) Valid() bool {
	return s == ContactStatusNew || s == ContactStatusReplied
}

// ContactMessage represents a message submitted via the contact form.
// Reply and RepliedAt are nil until an operator replies; they serialize as null.
type ContactMessage struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	Reply     *string       `json:"reply"`
	CreatedAt time.Time     `json:"createdAt"`
	RepliedAt *time.Time    `json:"repliedAt"`
}

// Clone returns a deep copy so callers can never mutate stored state.
func (m *ContactMessage) Clone() *ContactMessage {
	if m == nil {
		return nil
	}
	c := *m
	if m.Reply != nil {
		reply := *m.Reply
		c.Reply = &reply
	}
	if m.RepliedAt != nil {
		at := *m.RepliedAt
		c.RepliedAt = &at
	}
	return &c
}

// ContactSubmission is the visitor-supplied part of a contact message.
type ContactSubmission struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required,min=10"`
}

// ContactReply is the operator's reply to a contact message.
type ContactReply struct {
	Reply string `json:"reply" validate:"required"`
}

// ContactListOptions carries filter and pagination parameters for listing contact messages.
type ContactListOptions struct {
	// Status filters by message status. Empty returns all messages.
	Status ContactStatus
	// Limit caps the number of results; 0 means no limit.
	Limit  int
	Offset int
}
