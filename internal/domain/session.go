package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Session.
var (
	ErrEmptySessionID      = errors.New("session ID cannot be empty")
	ErrEmptyImageBuffer    = errors.New("image buffer cannot be empty")
	ErrEmptyTargetLanguage = errors.New("target language cannot be empty")
)

// Session represents one in-flight menu processing request. It exists only
// for the duration of pipeline execution and is never persisted; the ID is
// the routing key for progress events.
type Session struct {
	ID             uuid.UUID
	Image          []byte
	MimeType       string
	TargetLanguage string
	GenerateImages bool
	CreatedAt      time.Time
}

// NewSession creates a Session for the given request parameters.
// Returns an error if validation fails.
func NewSession(image []byte, mimeType, targetLanguage string, generateImages bool) (*Session, error) {
	s := &Session{
		ID:             uuid.New(),
		Image:          image,
		MimeType:       mimeType,
		TargetLanguage: targetLanguage,
		GenerateImages: generateImages,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the Session has valid data.
func (s *Session) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySessionID
	}
	if len(s.Image) == 0 {
		return ErrEmptyImageBuffer
	}
	if s.TargetLanguage == "" {
		return ErrEmptyTargetLanguage
	}
	return nil
}
