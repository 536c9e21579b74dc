package engine

import (
	"fmt"
	"strings"
)

// Format identifies one of the supported export formats.
type Format string

// Supported export formats. Each run is configured with a non-empty subset.
const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// Ext returns the file extension for the format, without the leading dot.
func (f Format) Ext() string {
	return string(f)
}

// ParseFormat validates a single format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown export format %q (supported: svg, png, pdf)", s)
	}
}

// ParseFormats parses a comma-separated format list into a deduplicated,
// order-preserving set. An empty or all-blank list is an error: every run
// must request at least one format.
func ParseFormats(list string) ([]Format, error) {
	seen := make(map[Format]bool)
	var formats []Format

	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}

	if len(formats) == 0 {
		return nil, fmt.Errorf("no export formats requested")
	}

	return formats, nil
}

// FormatStrings renders a format set back to its comma-separated form.
func FormatStrings(formats []Format) string {
	parts := make([]string, len(formats))
	for i, f := range formats {
		parts[i] = string(f)
	}
	return strings.Join(parts, ",")
}
