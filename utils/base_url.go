package utils

import (
	"strings"
)

// ShareBaseURL returns the origin that public share links are built on.
func ShareBaseURL() string {
	return strings.TrimRight(GetEnvAsString("SHARE_BASE_URL", "http://localhost:5173"), "/")
}
