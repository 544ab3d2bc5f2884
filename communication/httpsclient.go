package communication

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

const (
	// Matches the default of the HTTP clients on the boards this library
	// started on. It is not configurable.
	requestTimeout = 5 * time.Second
)

// prepareFunc turns an identity string into a handshake check.
type prepareFunc func(identity string) (checkFunc, error)

type httpsClient struct {
	prepare   prepareFunc
	transport *http.Transport
	client    *http.Client
	uri       string
	body      string
	lastErr   error
}

/*
NewFingerprintClient returns a SecureClient that authenticates the server
by the SHA-1 fingerprint of its certificate. The chain itself is not
validated.
*/
func NewFingerprintClient() SecureClient {
	return &httpsClient{
		prepare: func(identity string) (checkFunc, error) {
			fp, err := ParseFingerprint(identity)
			if err != nil {
				return nil, err
			}
			return checkFingerprint(fp), nil
		},
	}
}

/*
NewCertificateClient returns a SecureClient that authenticates the server by
validating its certificate chain and host name against the PEM root
certificates passed as the identity. The system roots are not consulted.
*/
func NewCertificateClient() SecureClient {
	return &httpsClient{
		prepare: func(identity string) (checkFunc, error) {
			pool, err := loadCertPool(identity)
			if err != nil {
				return nil, err
			}
			return checkRoots(pool), nil
		},
	}
}

func (c *httpsClient) Begin(uri, identity string) error {
	c.End()

	u, err := url.Parse(uri)
	if err != nil {
		c.lastErr = err
		return err
	}
	if u.Scheme != "https" {
		c.lastErr = fmt.Errorf("URL \"%s\" does not use https", uri)
		return c.lastErr
	}

	check, err := c.prepare(identity)
	if err != nil {
		c.lastErr = err
		return err
	}

	transport := cleanhttp.DefaultTransport()
	// The identity check lives in the dialer, so a proxy would bypass it.
	transport.Proxy = nil
	transport.DialTLSContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return connectTLS(ctx, network, addr, check)
	}

	c.transport = transport
	c.client = &http.Client{
		Transport: transport,
		Timeout:   requestTimeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	c.uri = uri
	c.lastErr = nil
	return nil
}

func (c *httpsClient) Get() int {
	if c.client == nil {
		c.lastErr = errNotConnected
		return CodeNotConnected
	}
	c.body = ""

	resp, err := c.client.Get(c.uri)
	if err != nil {
		c.lastErr = err
		return errorCode(err)
	}
	defer resp.Body.Close()

	buf, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		c.lastErr = err
		return CodeConnectionLost
	}
	c.body = string(buf)
	c.lastErr = nil
	return resp.StatusCode
}

func (c *httpsClient) Body() string {
	return c.body
}

func (c *httpsClient) ErrorString(code int) string {
	return ErrorString(code)
}

func (c *httpsClient) LastError() error {
	return c.lastErr
}

func (c *httpsClient) End() {
	if c.transport != nil {
		c.transport.CloseIdleConnections()
	}
	c.transport = nil
	c.client = nil
	c.uri = ""
}

func errorCode(err error) int {
	if errors.Is(err, errIdentityRejected) {
		return CodeIdentityRejected
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CodeReadTimeout
	}
	return CodeConnectionRefused
}
