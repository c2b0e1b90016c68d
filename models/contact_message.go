package models

import (
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/rpupo63/portfolio-backend/errs"
)

const (
	ContactNameMax      = 120
	ContactEmailMax     = 254
	ContactMessageMax   = 5000
	ContactIPMax        = 64
	ContactUserAgentMax = 512

	ContactNameMin    = 2
	ContactMessageMin = 10
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ContactMessage is immutable once stored.
type ContactMessage struct {
	ID        uint   `gorm:"primaryKey"`
	FullName  string `gorm:"type:varchar(120);not null"`
	Email     string `gorm:"type:varchar(254);not null"`
	Message   string `gorm:"type:varchar(5000);not null"`
	IPAddress string `gorm:"column:ip_address;type:varchar(64);not null"`
	UserAgent string `gorm:"type:varchar(512);not null"`
	CreatedAt time.Time
}

type ContactMessageView struct {
	ID        uint      `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewContactMessageViews(messages []ContactMessage) []ContactMessageView {
	views := make([]ContactMessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, ContactMessageView{
			ID:        m.ID,
			FullName:  m.FullName,
			Email:     m.Email,
			Message:   m.Message,
			IPAddress: m.IPAddress,
			UserAgent: m.UserAgent,
			CreatedAt: m.CreatedAt,
		})
	}
	return views
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// RequestMeta is what the handler captures from the transport.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// Apply validates the submission and returns the row to store. Validation
// runs on trimmed values; caps are applied afterwards.
func (in ContactInput) Apply(meta RequestMeta) (ContactMessage, error) {
	name := Clip(in.Name, 0)
	email := Clip(in.Email, 0)
	message := Clip(in.Message, 0)

	if utf8.RuneCountInString(name) < ContactNameMin {
		return ContactMessage{}, errs.NewValidationError("name", "Name is required.")
	}
	if !emailPattern.MatchString(email) {
		return ContactMessage{}, errs.NewValidationError("email", "Valid email is required.")
	}
	if utf8.RuneCountInString(message) < ContactMessageMin {
		return ContactMessage{}, errs.NewValidationError("message", "Message is too short.")
	}

	return ContactMessage{
		FullName:  Clip(name, ContactNameMax),
		Email:     Clip(email, ContactEmailMax),
		Message:   Clip(message, ContactMessageMax),
		IPAddress: Clip(meta.IPAddress, ContactIPMax),
		UserAgent: Clip(meta.UserAgent, ContactUserAgentMax),
	}, nil
}
