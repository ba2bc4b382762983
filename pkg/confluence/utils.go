package confluence

import (
	"io"
	"strings"

	"github.com/tonimelisma/confluence-client/internal/logger"
)

// closeBodySafely closes an HTTP response body and logs any error.
func closeBodySafely(body io.Closer, l logger.Logger, operation string) {
	if err := body.Close(); err != nil {
		l.Warnf("Failed to close %s body: %v", operation, err)
	}
}

// renderEndpoint substitutes id for the identifier placeholder in tmpl.
func renderEndpoint(tmpl, id string) string {
	return strings.ReplaceAll(tmpl, primaryPlaceholder, id)
}

// loggerFor returns the logger carried by caller, if any.
func loggerFor(caller Caller) logger.Logger {
	if p, ok := caller.(loggerProvider); ok {
		return logger.OrNoop(p.Logger())
	}
	return logger.NoopLogger{}
}
