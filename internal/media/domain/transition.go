package domain

import "strings"

type TransitionKind int

const (
	TransitionNone TransitionKind = iota
	TransitionAdd
	TransitionReplace
	TransitionRemove
)

// Transition is the effect of an image URL change: which stored object to
// delete and how the tenant's image count moves.
type Transition struct {
	Kind      TransitionKind
	DeleteURL string
	Delta     int
}

// Classify derives the transition from the old and new image URL of a dish.
func Classify(oldURL, newURL *string) Transition {
	oldValue := deref(oldURL)
	newValue := deref(newURL)

	switch {
	case oldValue == "" && newValue == "":
		return Transition{Kind: TransitionNone}
	case oldValue == "":
		return Transition{Kind: TransitionAdd, Delta: 1}
	case newValue == "":
		return Transition{Kind: TransitionRemove, DeleteURL: oldValue, Delta: -1}
	case oldValue == newValue:
		return Transition{Kind: TransitionNone}
	default:
		return Transition{Kind: TransitionReplace, DeleteURL: oldValue}
	}
}

// ExtractKey recovers the object key from a stored image URL. Keys always
// start with the restaurants/ prefix, which survives both virtual-hosted
// and path-style URLs.
func ExtractKey(rawURL string) string {
	value := strings.TrimSpace(rawURL)
	if value == "" {
		return ""
	}
	if idx := strings.Index(value, "restaurants/"); idx >= 0 {
		return value[idx:]
	}
	return ""
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
