package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"", false},
		{"jtl", false},
		{"ABC_2", false},
		{"1ABC", true},
		{"AB-C", true},
		{"AB C", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ProjectKey(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHTTPURL(t *testing.T) {
	assert.NoError(t, HTTPURL(""))
	assert.NoError(t, HTTPURL("https://example.atlassian.net"))
	assert.NoError(t, HTTPURL("http://localhost:8080/jira"))
	assert.Error(t, HTTPURL("ftp://example.com"))
	assert.Error(t, HTTPURL("example.com"))
	assert.Error(t, HTTPURL("https://"))
}

func TestFieldHelpers(t *testing.T) {
	err := HTTPURLField("jira.url", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jira.url")

	assert.NoError(t, ProjectKeyField("default_project_key", "ABC"))
}
