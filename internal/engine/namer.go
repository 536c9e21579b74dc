package engine

import (
	"fmt"
	"strings"
)

// LocalName derives the stable local name for a remote item identifier by
// stripping the service base URL prefix. The result is used as a directory
// name for folders and a file stem for boards.
//
// Identifiers are always sourced from listings under the same base URL, so a
// prefix mismatch is an internal invariant violation, not a user error;
// callers treat it as fatal.
func LocalName(baseURL, identifier string) (string, error) {
	base := strings.TrimSuffix(baseURL, "/")
	id := strings.TrimSuffix(identifier, "/")

	if !strings.HasPrefix(id, base+"/") {
		return "", fmt.Errorf("identifier %q is not under base URL %q", identifier, baseURL)
	}

	name := strings.TrimPrefix(id, base+"/")
	if name == "" {
		return "", fmt.Errorf("identifier %q has no path segment after base URL", identifier)
	}

	// Sub-views ("<id>/svg") never appear in listings; a remaining slash
	// means the identifier was malformed upstream.
	if strings.Contains(name, "/") {
		return "", fmt.Errorf("identifier %q has more than one path segment", identifier)
	}

	return name, nil
}
