package jira

import (
	"encoding/base64"
	"net/http"
)

// BasicAuth authenticates with a username (or email) and API token.
type BasicAuth struct {
	Username string
	Token    string
}

func (b *BasicAuth) Apply(req *http.Request) error {
	cred := base64.StdEncoding.EncodeToString([]byte(b.Username + ":" + b.Token))
	req.Header.Set("Authorization", "Basic "+cred)
	return nil
}
