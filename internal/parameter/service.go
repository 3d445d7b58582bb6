// Package parameter resolves named connection settings, preferring the
// parameters table and falling back to static configuration.
package parameter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/MikeSquared-Agency/Productivity/internal/store"
)

type Source interface {
	GetParameterByDescription(ctx context.Context, description string) (*store.Parameter, error)
}

type Service struct {
	source   Source
	fallback map[string]string
	logger   *slog.Logger
}

func NewService(source Source, fallback map[string]string, logger *slog.Logger) *Service {
	if fallback == nil {
		fallback = map[string]string{}
	}
	return &Service{source: source, fallback: fallback, logger: logger}
}

// Defaults builds the fallback map from the configured Notion base URL and
// headers. Empty values are left out.
func Defaults(baseURL string, headers map[string]string) map[string]string {
	out := map[string]string{}
	if baseURL != "" {
		out[store.ParamURLBaseNotion] = baseURL
	}
	if len(headers) > 0 {
		if data, err := json.Marshal(headers); err == nil {
			out[store.ParamHeadersNotion] = string(data)
		}
	}
	return out
}

// FindByDescription returns the parameter stored under description, or the
// configured fallback. It returns (nil, nil) when neither exists.
func (s *Service) FindByDescription(ctx context.Context, description string) (*store.Parameter, error) {
	if s.source != nil {
		p, err := s.source.GetParameterByDescription(ctx, description)
		if err != nil {
			return nil, fmt.Errorf("lookup parameter %s: %w", description, err)
		}
		if p != nil && strings.TrimSpace(p.Value) != "" {
			return p, nil
		}
	}
	if v, ok := s.fallback[description]; ok {
		s.logger.Debug("using configured parameter fallback", "description", description)
		return &store.Parameter{Description: description, Value: v}, nil
	}
	return nil, nil
}

// ExtractNotionHeaders parses a headers parameter. The value is either a JSON
// object or "Key: Value" pairs separated by newlines or semicolons. A nil
// parameter or an unparseable value yields an empty map.
func ExtractNotionHeaders(p *store.Parameter) map[string]string {
	headers := map[string]string{}
	if p == nil {
		return headers
	}
	value := strings.TrimSpace(p.Value)
	if value == "" {
		return headers
	}

	if strings.HasPrefix(value, "{") {
		var raw map[string]string
		if err := json.Unmarshal([]byte(value), &raw); err != nil {
			return headers
		}
		for k, v := range raw {
			addHeader(headers, k, v)
		}
		return headers
	}

	for _, line := range strings.FieldsFunc(value, func(r rune) bool { return r == '\n' || r == ';' }) {
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			k, v, ok = strings.Cut(line, "=")
		}
		if ok {
			addHeader(headers, k, v)
		}
	}
	return headers
}

func addHeader(headers map[string]string, k, v string) {
	k, v = strings.TrimSpace(k), strings.TrimSpace(v)
	if k == "" || v == "" {
		return
	}
	headers[k] = v
}

// HeaderNames returns the sorted header keys, for logging without values.
func HeaderNames(headers map[string]string) []string {
	names := make([]string, 0, len(headers))
	for k := range headers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
