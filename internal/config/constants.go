// Package config contains everything related to configuration
package config

import "strings"

// AppID is the identity provider application identifier.
// It is meant to be set at build time:
//
//	go build -ldflags "-X github.com/j-veylop/page-insights-tui/internal/config.AppID=..."
var AppID = "1219424022424873"

const (
	defaultGraphBaseURL    = "https://graph.facebook.com"
	defaultGraphAPIVersion = "v20.0"
)

// LoginScopes are the permissions requested during login.
var LoginScopes = []string{
	"pages_read_engagement",
	"pages_show_list",
	"pages_manage_metadata",
	"pages_read_user_content",
}

// ScopeString returns LoginScopes joined the way the provider expects.
func ScopeString() string {
	return strings.Join(LoginScopes, ",")
}
