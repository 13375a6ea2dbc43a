package utils

import (
	"log"
	"strings"
)

// LogEvent writes one application event line tied to a request. Keep the
// message free of sensitive payload; identifiers only.
func LogEvent(requestID, scope, action, message string) {
	log.Printf("[%s] %s request_id=%s %s", scope, action, strings.TrimSpace(requestID), message)
}
