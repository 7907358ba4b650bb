package service

import (
	"encoding/base64"
	"strconv"
	"strings"

	"taskflow/backend/internal/platform/apperr"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
	cursorPrefix    = "o:"
)

func normalizePageSize(n int) int {
	switch {
	case n <= 0:
		return defaultPageSize
	case n > maxPageSize:
		return maxPageSize
	}
	return n
}

func encodePageToken(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(cursorPrefix + strconv.Itoa(offset)))
}

// decodePageToken returns the offset carried by token. An empty token starts at zero.
func decodePageToken(token string) (int, error) {
	if token == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, apperr.Validation("invalid page token")
	}
	s, ok := strings.CutPrefix(string(raw), cursorPrefix)
	if !ok {
		return 0, apperr.Validation("invalid page token")
	}
	offset, err := strconv.Atoi(s)
	if err != nil || offset < 0 {
		return 0, apperr.Validation("invalid page token")
	}
	return offset, nil
}
