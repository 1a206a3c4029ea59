package graph

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Device login status subcodes returned while polling.
const (
	SubcodeAuthorizationPending = 1349174
	SubcodeSlowDown             = 1349172
	SubcodeCodeExpired          = 1349152
)

// DeviceCode is the response to starting a device login.
type DeviceCode struct {
	Code            string `json:"code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

// PollInterval returns the interval the provider asked clients to poll at.
func (d *DeviceCode) PollInterval() time.Duration {
	if d.Interval <= 0 {
		return 5 * time.Second
	}
	return time.Duration(d.Interval) * time.Second
}

// Deadline returns when the code stops being valid, relative to from.
func (d *DeviceCode) Deadline(from time.Time) time.Time {
	if d.ExpiresIn <= 0 {
		return from.Add(7 * time.Minute)
	}
	return from.Add(time.Duration(d.ExpiresIn) * time.Second)
}

// DeviceToken is the access token issued once the user approves the code.
type DeviceToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ExpiresAt converts ExpiresIn to an absolute time. Zero means no expiry
// was reported.
func (t *DeviceToken) ExpiresAt(from time.Time) time.Time {
	if t.ExpiresIn <= 0 {
		return time.Time{}
	}
	return from.Add(time.Duration(t.ExpiresIn) * time.Second)
}

// appToken is the client access token used for device login calls.
func (c *Client) appToken() (string, error) {
	if c.appID == "" || c.clientToken == "" {
		return "", fmt.Errorf("device login requires an app id and client token")
	}
	return c.appID + "|" + c.clientToken, nil
}

// DeviceLogin starts a device login for the given comma separated scope.
func (c *Client) DeviceLogin(ctx context.Context, scope string) (*DeviceCode, error) {
	token, err := c.appToken()
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("access_token", token)
	form.Set("scope", scope)

	var code DeviceCode
	if err := c.postForm(ctx, EndpointDeviceLogin, "device/login", form, &code); err != nil {
		return nil, err
	}
	if code.Code == "" || code.UserCode == "" {
		return nil, fmt.Errorf("device login response is missing a code")
	}
	return &code, nil
}

// DeviceLoginStatus polls once for the outcome of a device login. While the
// user has not approved yet the returned error is an *APIError with
// SubcodeAuthorizationPending.
func (c *Client) DeviceLoginStatus(ctx context.Context, code string) (*DeviceToken, error) {
	token, err := c.appToken()
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("access_token", token)
	form.Set("code", code)

	var tok DeviceToken
	if err := c.postForm(ctx, EndpointDeviceLoginStatus, "device/login_status", form, &tok); err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("device login status response has no access token")
	}
	return &tok, nil
}

func hasSubcode(err error, subcode int) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Subcode == subcode
}

// IsAuthorizationPending reports whether the user has not approved the code yet.
func IsAuthorizationPending(err error) bool {
	return hasSubcode(err, SubcodeAuthorizationPending)
}

// IsSlowDown reports whether the client is polling too often.
func IsSlowDown(err error) bool {
	return hasSubcode(err, SubcodeSlowDown)
}

// IsCodeExpired reports whether the device code is no longer valid.
func IsCodeExpired(err error) bool {
	return hasSubcode(err, SubcodeCodeExpired)
}
