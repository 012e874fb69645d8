// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/hay-kot/criterio"
)

var projectKeyRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ProjectKey validates a JIRA project key ("ABC", "jtl"). Empty is allowed
// and means no default project.
func ProjectKey(key string) error {
	if key == "" {
		return nil
	}
	if !projectKeyRe.MatchString(key) {
		return fmt.Errorf("%q is not a valid project key", key)
	}
	return nil
}

// ProjectKeyField returns a criterio validator for project keys.
func ProjectKeyField(field, key string) error {
	return criterio.Run(field, key, ProjectKey)
}

// HTTPURL validates that raw is empty or an absolute http(s) URL.
func HTTPURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

// HTTPURLField returns a criterio validator for URLs.
func HTTPURLField(field, raw string) error {
	return criterio.Run(field, raw, HTTPURL)
}
