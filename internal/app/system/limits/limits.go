// internal/app/system/limits/limits.go
package limits

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBody caps every JSON request body.
	MaxJSONBody = 1 << 20 // 1 MB

	// MaxDescription is the longest project or task description accepted.
	MaxDescription = 10000
)
