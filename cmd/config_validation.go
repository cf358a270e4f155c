package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	errors "github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
)

// configGetter retrieves raw configuration values by dotted key path.
type configGetter func(key string) any

// validateStartupConfig validates startup configuration from the shared config source.
// It returns an error when any configured value is malformed or violates constraints.
func validateStartupConfig() error {
	return validateStartupConfigWithGetter(func(key string) any {
		return gconfig.Shared.Get(key)
	})
}

// validateStartupConfigWithGetter validates startup configuration via a key-value getter.
// Unset keys are skipped, defaults are applied elsewhere.
func validateStartupConfigWithGetter(get configGetter) error {
	if get == nil {
		return errors.New("config getter is nil")
	}

	validationErrs := make([]string, 0)

	validateBlogDBConfig(get, &validationErrs)
	validateWebConfig(get, &validationErrs)

	if len(validationErrs) == 0 {
		return nil
	}

	return errors.Errorf("invalid configuration:\n - %s", strings.Join(validationErrs, "\n - "))
}

// validateBlogDBConfig validates the mongodb connection settings.
func validateBlogDBConfig(get configGetter, errs *[]string) {
	validateOptionalHost(get, "settings.db.blog.addr", errs)
	validateOptionalIntRange(get, "settings.db.blog.port", 1, math.MaxUint16, errs)
	validateOptionalStringNonEmpty(get, "settings.db.blog.db", errs)
	validateOptionalStringNonEmpty(get, "settings.db.blog.collection", errs)
	validateOptionalString(get, "settings.db.blog.user", errs)
	validateOptionalString(get, "settings.db.blog.pwd", errs)
	validateOptionalString(get, "settings.db.blog.auth_db", errs)
	validateOptionalIntRange(get, "settings.db.blog.connect_timeout_sec", 1, math.MaxInt32, errs)
}

// validateWebConfig validates page rendering and CORS settings.
func validateWebConfig(get configGetter, errs *[]string) {
	validateOptionalBool(get, "settings.web.render_markdown", errs)
	validateOptionalBool(get, "settings.web.json.canonical", errs)
	validateOptionalBool(get, "settings.web.metric", errs)

	raw := get("settings.web.cors.allowed_domains")
	if raw == nil {
		return
	}

	domains, ok := parseStrictStringSlice(raw)
	if !ok {
		appendValidationError(errs, "settings.web.cors.allowed_domains must be a list of domains")
		return
	}
	for i, d := range domains {
		if !isValidHost(d) {
			appendValidationError(errs, "settings.web.cors.allowed_domains[%d] must be a valid domain", i)
		}
	}
}

// validateOptionalBool validates an optionally configured boolean key.
func validateOptionalBool(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	if _, ok := parseStrictBool(raw); !ok {
		appendValidationError(errs, "%s must be a boolean", key)
	}
}

// validateOptionalIntRange validates an optionally configured integer key within [min, max].
func validateOptionalIntRange(get configGetter, key string, min, max int, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictInt(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be an integer", key)
		return
	}

	if value < min || value > max {
		appendValidationError(errs, "%s must be within [%d, %d]", key, min, max)
	}
}

// validateOptionalString validates an optionally configured string key, empty is allowed.
func validateOptionalString(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	if _, parseErr := parseStrictString(raw); parseErr != nil {
		appendValidationError(errs, "%s must be a string", key)
	}
}

// validateOptionalStringNonEmpty validates an optionally configured non-empty string key.
func validateOptionalStringNonEmpty(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictString(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be a string", key)
		return
	}

	if strings.TrimSpace(value) == "" {
		appendValidationError(errs, "%s must not be empty", key)
	}
}

// validateOptionalHost validates an optionally configured host, with or without port.
func validateOptionalHost(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictString(raw)
	if parseErr != nil || !isValidHost(value) {
		appendValidationError(errs, "%s must be a valid host", key)
	}
}

// parseStrictBool parses a value as boolean using strict conversion rules.
// It accepts a raw value and returns the parsed boolean and whether parsing succeeded.
func parseStrictBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case int:
		return v != 0, true
	case int64:
		return v != 0, true
	case float64:
		if math.Trunc(v) != v {
			return false, false
		}
		return int64(v) != 0, true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false, false
		}
		switch strings.ToLower(trimmed) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		default:
			return false, false
		}
	default:
		return false, false
	}
}

// parseStrictInt parses a value as a strict integer.
// It accepts a raw value and returns the parsed int and an error when parsing fails.
func parseStrictInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if math.Trunc(v) != v {
			return 0, errors.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, errors.New("empty integer string")
		}
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, errors.Wrap(err, "atoi")
		}
		return parsed, nil
	default:
		return 0, errors.Errorf("unsupported int type %T", value)
	}
}

// parseStrictString parses a value as a strict string.
func parseStrictString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", errors.Errorf("unsupported string type %T", value)
	}
}

// parseStrictStringSlice accepts a yaml list of strings or a comma separated string.
func parseStrictStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, err := parseStrictString(item)
			if err != nil {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, true
		}
		return strings.Split(v, ","), true
	default:
		return nil, false
	}
}

// isValidHost validates a host string without scheme or path components.
func isValidHost(host string) bool {
	trimmed := strings.TrimSpace(host)
	if trimmed == "" {
		return false
	}
	if strings.Contains(trimmed, "://") || strings.Contains(trimmed, "/") {
		return false
	}
	return true
}

// appendValidationError appends a formatted validation error to the collector.
func appendValidationError(errs *[]string, format string, args ...any) {
	if errs == nil {
		return
	}
	*errs = append(*errs, fmt.Sprintf(format, args...))
}
