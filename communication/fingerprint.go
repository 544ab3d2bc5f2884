package communication

import (
	"bytes"
	"crypto/sha1"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"net"
	"strings"
)

/*
CertFingerprint returns the SHA-1 fingerprint of the certificate as
colon-separated upper case hex pairs, which is the format printed by
"openssl x509 -fingerprint".
*/
func CertFingerprint(cert *x509.Certificate) string {
	fingerprint := sha1.Sum(cert.Raw)
	return formatFingerprint(fingerprint[:])
}

func formatFingerprint(fp []byte) string {
	var buf bytes.Buffer
	for i, f := range fp {
		if i > 0 {
			buf.WriteByte(':')
		}
		fmt.Fprintf(&buf, "%02X", f)
	}
	return buf.String()
}

/*
ParseFingerprint decodes a SHA-1 fingerprint. Hex pairs may be separated
by colons, spaces, or nothing at all, in either case. Anything that does not
decode to exactly 20 bytes is an error.
*/
func ParseFingerprint(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		if r == ':' || r == ' ' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))

	fp, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("Invalid fingerprint \"%s\": %s", s, err)
	}
	if len(fp) != sha1.Size {
		return nil, fmt.Errorf("Invalid fingerprint \"%s\": expected %d bytes, got %d",
			s, sha1.Size, len(fp))
	}
	return fp, nil
}

/*
FetchFingerprint connects to "addr" (host:port) and returns the fingerprint
of the certificate the server presents, along with the last certificate of
the presented chain in PEM form. This is the information needed to
configure either identity mode. The server is not verified in any way.
*/
func FetchFingerprint(addr string) (string, string, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return "", "", err
	}

	dialer := &net.Dialer{Timeout: requestTimeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{
		ServerName:         host,
		InsecureSkipVerify: true,
	})
	if err != nil {
		return "", "", err
	}
	defer conn.Close()

	peers := conn.ConnectionState().PeerCertificates
	if len(peers) == 0 {
		return "", "", fmt.Errorf("No TLS certificate from %s", addr)
	}

	last := peers[len(peers)-1]
	pemText := pem.EncodeToMemory(&pem.Block{
		Type:  "CERTIFICATE",
		Bytes: last.Raw,
	})
	return CertFingerprint(peers[0]), string(pemText), nil
}
