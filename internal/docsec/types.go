package docsec

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("docsec: not found")
	// ErrDecryption is deliberately generic: callers never learn whether the
	// key, the ciphertext or the bound document id was at fault.
	ErrDecryption   = errors.New("docsec: decryption failed")
	ErrInvalidInput = errors.New("docsec: invalid input")
)

// SecurityLevel classifies a document for the access policy.
type SecurityLevel string

const (
	LevelPublic       SecurityLevel = "public"
	LevelInternal     SecurityLevel = "internal"
	LevelConfidential SecurityLevel = "confidential"
	LevelRestricted   SecurityLevel = "restricted"
)

// ParseLevel normalizes and validates a security level string.
func ParseLevel(s string) (SecurityLevel, bool) {
	l := SecurityLevel(strings.TrimSpace(strings.ToLower(s)))
	switch l {
	case LevelPublic, LevelInternal, LevelConfidential, LevelRestricted:
		return l, true
	}
	return "", false
}

// WatermarkPosition is one of the five named overlay anchors.
type WatermarkPosition string

const (
	PositionTopLeft     WatermarkPosition = "top-left"
	PositionTopRight    WatermarkPosition = "top-right"
	PositionBottomLeft  WatermarkPosition = "bottom-left"
	PositionBottomRight WatermarkPosition = "bottom-right"
	PositionCenter      WatermarkPosition = "center"
)

// ParsePosition validates a watermark position, defaulting to center.
func ParsePosition(s string) (WatermarkPosition, bool) {
	p := WatermarkPosition(strings.TrimSpace(strings.ToLower(s)))
	switch p {
	case PositionTopLeft, PositionTopRight, PositionBottomLeft, PositionBottomRight, PositionCenter:
		return p, true
	case "":
		return PositionCenter, true
	}
	return "", false
}

// Metadata is the per-document security record. Created at upload, mutated
// only by explicit security updates, and deleted together with the document.
type Metadata struct {
	DocumentID        string
	OwnerID           string
	SecurityLevel     SecurityLevel
	EncryptedAtRest   bool
	EncryptionKeyID   string
	WatermarkText     string
	WatermarkPosition WatermarkPosition
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
