package auth

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/tcriess/openfire-admin/config"
	"github.com/tcriess/openfire-admin/globals"
)

// Header resolves the Authorization header value sent with every API request.
// A raw auth header wins, then a bearer token, then basic credentials. Supplying only one half of the basic
// credentials, or nothing at all, is a configuration error.
func Header(cfg *config.APIConfig) (string, error) {
	if h := strings.TrimSpace(cfg.AuthHeader); h != "" {
		globals.AppLogger.Debug("using explicit authorization header")
		return h, nil
	}
	if t := strings.TrimSpace(cfg.Token); t != "" {
		globals.AppLogger.Debug("using bearer token")
		return "Bearer " + t, nil
	}
	switch {
	case cfg.Username != "" && cfg.Password != "":
		globals.AppLogger.Debug("using basic authentication", "username", cfg.Username)
		return BasicHeader(cfg.Username, cfg.Password), nil
	case cfg.Username != "":
		return "", fmt.Errorf("%w: password is required when username is provided", config.ErrConfiguration)
	case cfg.Password != "":
		return "", fmt.Errorf("%w: username is required when password is provided", config.ErrConfiguration)
	}
	return "", fmt.Errorf("%w: either --auth-header, --token or both --username and --password must be provided", config.ErrConfiguration)
}

// BasicHeader builds the value of a basic Authorization header.
func BasicHeader(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}
