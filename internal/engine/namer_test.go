package engine

import (
	"strings"
	"testing"
)

// TestLocalName verifies base-URL stripping across identifier shapes
func TestLocalName(t *testing.T) {
	tests := []struct {
		name       string
		baseURL    string
		identifier string
		want       string
		wantErr    bool
	}{
		{
			name:       "simple identifier",
			baseURL:    "https://whimsical.test",
			identifier: "https://whimsical.test/my-board-Ab12Cd",
			want:       "my-board-Ab12Cd",
		},
		{
			name:       "trailing slash on base URL",
			baseURL:    "https://whimsical.test/",
			identifier: "https://whimsical.test/my-board-Ab12Cd",
			want:       "my-board-Ab12Cd",
		},
		{
			name:       "trailing slash on identifier",
			baseURL:    "https://whimsical.test",
			identifier: "https://whimsical.test/my-folder/",
			want:       "my-folder",
		},
		{
			name:       "identifier not under base URL",
			baseURL:    "https://whimsical.test",
			identifier: "https://elsewhere.test/my-board",
			wantErr:    true,
		},
		{
			name:       "identifier equals base URL",
			baseURL:    "https://whimsical.test",
			identifier: "https://whimsical.test/",
			wantErr:    true,
		},
		{
			name:       "nested path segment",
			baseURL:    "https://whimsical.test",
			identifier: "https://whimsical.test/folder/board",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LocalName(tt.baseURL, tt.identifier)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("LocalName(%q, %q) = %q, want error", tt.baseURL, tt.identifier, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("LocalName(%q, %q) error = %v", tt.baseURL, tt.identifier, err)
			}
			if got != tt.want {
				t.Errorf("LocalName(%q, %q) = %q, want %q", tt.baseURL, tt.identifier, got, tt.want)
			}
		})
	}
}

// TestLocalNameDeterministic verifies repeated calls agree
func TestLocalNameDeterministic(t *testing.T) {
	base := "https://whimsical.test"
	id := "https://whimsical.test/stable-name-Xy98Zw"

	first, err := LocalName(base, id)
	if err != nil {
		t.Fatalf("LocalName() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		got, err := LocalName(base, id)
		if err != nil {
			t.Fatalf("LocalName() error = %v", err)
		}
		if got != first {
			t.Fatalf("LocalName() = %q on call %d, want %q", got, i, first)
		}
	}
	if strings.Contains(first, "/") {
		t.Errorf("LocalName() = %q contains a path separator", first)
	}
}
