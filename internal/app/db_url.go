package app

import (
	"net/url"
	"strings"
)

// normalizeDBURL fills connection parameters the caller left unset. Explicit
// values in the URL always win. Key/value DSNs are returned untouched.
func normalizeDBURL(raw string, disablePreparedBinaryResult bool, applicationName string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	changed := false
	if disablePreparedBinaryResult && query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		changed = true
	}
	if name := strings.TrimSpace(applicationName); name != "" && query.Get("application_name") == "" {
		query.Set("application_name", name)
		changed = true
	}
	if !changed {
		return raw
	}

	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}
