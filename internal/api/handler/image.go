package handler

import (
	"encoding/base64"
	"strings"

	"github.com/bookworm-social/bookworm-api/internal/core/domain"
)

// decodeImage accepts a raw base64 payload (padded or not) or a
// data:<mime>;base64,<payload> URI. An empty input yields nil so the service
// reports the missing field.
func decodeImage(raw string) ([]byte, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}

	if strings.HasPrefix(s, "data:") {
		meta, payload, ok := strings.Cut(s, ",")
		if !ok || !strings.HasSuffix(strings.ToLower(meta), ";base64") {
			return nil, domain.ErrInvalidImage
		}
		s = payload
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(s)
		if err != nil {
			return nil, domain.ErrInvalidImage
		}
	}
	if len(data) == 0 {
		return nil, domain.ErrInvalidImage
	}
	return data, nil
}
