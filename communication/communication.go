package communication

import (
	"errors"
	"fmt"
	"strings"
)

/*
A SecureClient performs a single HTTPS GET against a server whose identity
is checked against a fixed credential. The credential is either a
certificate fingerprint or a PEM root certificate, depending on the
implementation. A client is used like this:

	err := c.Begin(url, identity)
	code := c.Get()
	body := c.Body()
	c.End()

End must be called after every Begin, whether or not the request worked,
because it releases the connection and transport.
*/
type SecureClient interface {
	// Begin prepares a request to "uri" using "identity" to authenticate the
	// server. No network I/O happens until Get.
	Begin(uri, identity string) error
	// Get sends the request. It returns the HTTP status code, or one of the
	// negative Code values if no HTTP response was received.
	Get() int
	// Body returns the response body of the last successful Get.
	Body() string
	// ErrorString describes a negative code returned by Get.
	ErrorString(code int) string
	// LastError returns the underlying error of the last failed call.
	LastError() error
	// End releases everything acquired by Begin. It may be called more than once.
	End()
}

// Client-side error codes returned by Get. They are always negative so that
// they can never be confused with an HTTP status.
const (
	CodeConnectionRefused = -1
	CodeNotConnected      = -4
	CodeConnectionLost    = -5
	CodeReadTimeout       = -11
	CodeIdentityRejected  = -12
)

var (
	errNotConnected     = errors.New("Get called before Begin")
	errIdentityRejected = errors.New("server identity rejected")
)

/*
ErrorString returns a short description of a negative code returned by
SecureClient.Get.
*/
func ErrorString(code int) string {
	switch code {
	case CodeConnectionRefused:
		return "connection refused"
	case CodeNotConnected:
		return "not connected"
	case CodeConnectionLost:
		return "connection lost"
	case CodeReadTimeout:
		return "read Timeout"
	case CodeIdentityRejected:
		return "server identity rejected"
	default:
		return fmt.Sprintf("unknown error %d", code)
	}
}

/*
A Mode selects how the server identity is checked.
*/
type Mode string

const (
	// ModeFingerprint pins the SHA-1 fingerprint of a server certificate.
	ModeFingerprint Mode = "fingerprint"
	// ModeCertificate validates the server chain against a PEM root certificate.
	ModeCertificate Mode = "certificate"

	// DefaultMode is used when nothing else is configured.
	DefaultMode = ModeCertificate
)

/*
ParseMode turns a string from a config file or the command line into a Mode.
An empty string yields DefaultMode.
*/
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultMode, nil
	case string(ModeFingerprint):
		return ModeFingerprint, nil
	case string(ModeCertificate), "cert":
		return ModeCertificate, nil
	default:
		return "", fmt.Errorf("Invalid identity mode \"%s\"", s)
	}
}

/*
NewClient returns the SecureClient implementation for the mode.
*/
func NewClient(mode Mode) SecureClient {
	if mode == ModeFingerprint {
		return NewFingerprintClient()
	}
	return NewCertificateClient()
}

/*
DefaultIdentity returns the compiled-in identity for the mode.
*/
func DefaultIdentity(mode Mode) string {
	if mode == ModeFingerprint {
		return DefaultFingerprint
	}
	return DefaultCertificate
}
