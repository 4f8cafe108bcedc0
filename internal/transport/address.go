package transport

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAgentAddress accepts the two address shapes the referee CLI
// takes for each player: a bare port number, meaning localhost:port,
// or an explicit host:port. Anything else is rejected; this is input
// validation, not a general address grammar.
func ParseAgentAddress(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("transport: empty agent address")
	}

	if port, err := strconv.Atoi(raw); err == nil {
		if port < 1 || port > 65535 {
			return "", fmt.Errorf("transport: port %d out of range", port)
		}
		return fmt.Sprintf("localhost:%d", port), nil
	}

	host, portStr, ok := strings.Cut(raw, ":")
	if !ok || host == "" || portStr == "" {
		return "", fmt.Errorf("transport: %q is neither a bare port nor host:port", raw)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("transport: %q has an invalid port", raw)
	}

	return raw, nil
}
