package taxonomy

import (
	"fmt"
	"strings"
)

// Category is one of the three fixed skill categories.
type Category int

const (
	Technical Category = iota
	Soft
	Certifications
)

// Categories lists every category in reporting order.
var Categories = []Category{Technical, Soft, Certifications}

func (c Category) String() string {
	switch c {
	case Technical:
		return "technical"
	case Soft:
		return "soft"
	case Certifications:
		return "certifications"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ParseCategory accepts the lower-case names used in taxonomy files and
// API payloads.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "technical":
		return Technical, nil
	case "soft":
		return Soft, nil
	case "certifications":
		return Certifications, nil
	default:
		return 0, fmt.Errorf("unknown skill category %q (expected technical, soft or certifications)", s)
	}
}

func (c Category) MarshalText() ([]byte, error) {
	switch c {
	case Technical, Soft, Certifications:
		return []byte(c.String()), nil
	default:
		return nil, fmt.Errorf("invalid skill category %d", int(c))
	}
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
