package hooks

import (
	"github.com/30x/iftttwebhook/communication"
	"github.com/30x/iftttwebhook/log"
)

/*
This package triggers IFTTT "Webhooks" service events. Each call is a single
HTTPS GET to the maker endpoint, with up to three optional values in the
query string, and the server is authenticated with a fixed credential
rather than the system trust store.
*/

// DefaultBaseURL is the IFTTT maker endpoint.
const DefaultBaseURL = "https://maker.ifttt.com"

/*
A WebHook triggers a single IFTTT event. The API key, event name and
server identity are fixed when it is created. Calls are independent of each
other, but a WebHook must not be used by more than one goroutine at a time.
*/
type WebHook struct {
	apiKey    string
	event     string
	identity  string
	mode      communication.Mode
	baseURL   string
	newClient func() communication.SecureClient
	logger    log.Logger
}

/*
An Option changes how a WebHook is created.
*/
type Option func(h *WebHook)

/*
WithLogger sends diagnostic output to "l". Debug output contains the full
URL, including the API key, and the response body. The default is silent.
*/
func WithLogger(l log.Logger) Option {
	return func(h *WebHook) {
		h.logger = l
	}
}

/*
WithMode selects how the server identity is checked. When used with New it
also selects which compiled-in identity is used.
*/
func WithMode(m communication.Mode) Option {
	return func(h *WebHook) {
		h.mode = m
	}
}

/*
WithClient replaces the HTTPS client. The function is called once per
request.
*/
func WithClient(f func() communication.SecureClient) Option {
	return func(h *WebHook) {
		h.newClient = f
	}
}

// WithBaseURL sends requests somewhere other than DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(h *WebHook) {
		h.baseURL = u
	}
}

/*
New creates a WebHook that checks the server against the compiled-in
identity for its mode.
*/
func New(apiKey, event string, opts ...Option) *WebHook {
	h := create(apiKey, event, opts)
	h.identity = communication.DefaultIdentity(h.mode)
	return h
}

/*
NewWithIdentity creates a WebHook that checks the server against
"identity", which is a certificate fingerprint or PEM root certificate
depending on the mode.
*/
func NewWithIdentity(apiKey, event, identity string, opts ...Option) *WebHook {
	h := create(apiKey, event, opts)
	h.identity = identity
	return h
}

func create(apiKey, event string, opts []Option) *WebHook {
	h := &WebHook{
		apiKey:  apiKey,
		event:   event,
		mode:    communication.DefaultMode,
		baseURL: DefaultBaseURL,
		logger:  log.Silent(),
	}
	for _, o := range opts {
		o(h)
	}
	if h.newClient == nil {
		mode := h.mode
		h.newClient = func() communication.SecureClient {
			return communication.NewClient(mode)
		}
	}
	return h
}

// APIKey returns the key used in every request.
func (h *WebHook) APIKey() string {
	return h.apiKey
}

// Event returns the event name.
func (h *WebHook) Event() string {
	return h.event
}

// Identity returns the credential used to authenticate the server.
func (h *WebHook) Identity() string {
	return h.identity
}

// Mode returns how the server identity is checked.
func (h *WebHook) Mode() communication.Mode {
	return h.mode
}
