package asset

import (
	"errors"
	"fmt"
)

// Type identifies which store an asset belongs to.
type Type string

const (
	TypeMusic Type = "music"
	TypeIcon  Type = "icon"
)

var (
	ErrNotFound = errors.New("asset not found")
	ErrConflict = errors.New("asset name conflict")
)

// Extension allow-lists; assets are classified purely by suffix.
var (
	MusicExtensions = []string{".mp3", ".wav"}
	IconExtensions  = []string{".png", ".jpg", ".jpeg", ".webp"}
)

// ParseType resolves a client-supplied asset type string. The web UI
// historically sent both "icon" and "icons" for icon assets.
func ParseType(s string) (Type, error) {
	switch s {
	case "music":
		return TypeMusic, nil
	case "icon", "icons":
		return TypeIcon, nil
	default:
		return "", fmt.Errorf("unknown asset type: %q", s)
	}
}
