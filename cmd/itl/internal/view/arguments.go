package view

import "fmt"

// ViewType represents which view layer to use.
type ViewType rune

const (
	ViewNone  ViewType = 0
	ViewHuman ViewType = 'H'
	ViewJSON  ViewType = 'J'
)

// String returns the string representation of the ViewType.
func (vt ViewType) String() string {
	switch vt {
	case ViewNone:
		return "none"
	case ViewHuman:
		return "human"
	case ViewJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseOutputFormat maps the value of the -o/--output flag to a ViewType.
// An empty value selects the human view.
func ParseOutputFormat(format string) (ViewType, error) {
	switch format {
	case "", "human":
		return ViewHuman, nil
	case "json":
		return ViewJSON, nil
	default:
		return ViewNone, fmt.Errorf("unknown output format %q", format)
	}
}
