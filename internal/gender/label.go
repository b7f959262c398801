package gender

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLabel rejects a manual label outside m, f, n, x, g.
var ErrInvalidLabel = errors.New("invalid gender label")

// Label is a one-letter demographic label or a sentinel explaining why a
// source produced no label. The letters are what the store persists.
type Label string

const (
	Male       Label = "m"
	Female     Label = "f"
	NonBinary  Label = "n"
	Unknown    Label = "x"
	Collective Label = "g"

	NotFound     Label = "l"
	Disambiguous Label = "d"
	PageError    Label = "p"
	NoBio        Label = "b"
)

// Demographic lists the labels reported by gender counts, in display order.
func Demographic() []Label {
	return []Label{Male, Female, NonBinary, Unknown}
}

// IsSentinel reports whether l records a lookup failure rather than a label.
func (l Label) IsSentinel() bool {
	switch l {
	case NotFound, Disambiguous, PageError, NoBio:
		return true
	default:
		return false
	}
}

// Decisive reports whether l is male or female.
func (l Label) Decisive() bool {
	return l == Male || l == Female
}

func (l Label) String() string { return string(l) }

// Describe returns a human-readable name for l.
func (l Label) Describe() string {
	switch l {
	case Male:
		return "male"
	case Female:
		return "female"
	case NonBinary:
		return "non-binary"
	case Unknown:
		return "unknown"
	case Collective:
		return "group"
	case NotFound:
		return "not found"
	case Disambiguous:
		return "disambiguous"
	case PageError:
		return "page error"
	case NoBio:
		return "no biography"
	default:
		return string(l)
	}
}

// ParseLabel validates a manually supplied label. Sentinels are produced by
// lookups only and are rejected here.
func ParseLabel(value string) (Label, error) {
	label := Label(strings.ToLower(strings.TrimSpace(value)))
	switch label {
	case Male, Female, NonBinary, Unknown, Collective:
		return label, nil
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "male":
		return Male, nil
	case "female":
		return Female, nil
	case "non-binary", "nonbinary":
		return NonBinary, nil
	case "unknown":
		return Unknown, nil
	case "group", "collective":
		return Collective, nil
	}
	return "", fmt.Errorf("%w %q (want m, f, n, x, or g)", ErrInvalidLabel, value)
}
