package communication

import (
	"crypto/x509"
	"encoding/pem"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Fingerprints", func() {
	It("Format", func() {
		Expect(CertFingerprint(&x509.Certificate{})).Should(Equal(
			"DA:39:A3:EE:5E:6B:4B:0D:32:55:BF:EF:95:60:18:90:AF:D8:07:09"))
		Expect(CertFingerprint(&x509.Certificate{Raw: []byte{1, 2, 3, 4}})).Should(Equal(
			"12:DA:DA:1F:FF:4D:47:87:AD:E3:33:31:47:20:2C:3B:44:3E:37:6F"))
	})

	It("Default certificate matches default fingerprint", func() {
		block, _ := pem.Decode([]byte(DefaultCertificate))
		Expect(block).ShouldNot(BeNil())
		cert, err := x509.ParseCertificate(block.Bytes)
		Expect(err).Should(Succeed())
		Expect(CertFingerprint(cert)).Should(Equal(DefaultFingerprint))
	})

	It("Parse", func() {
		want, err := ParseFingerprint(DefaultFingerprint)
		Expect(err).Should(Succeed())
		Expect(len(want)).Should(Equal(20))

		spaced, err := ParseFingerprint("8d a7 f9 65 ec 5e fc 37 91 0f 1c 6e 59 fd c1 cc 6a 6e de 16")
		Expect(err).Should(Succeed())
		Expect(spaced).Should(Equal(want))

		bare, err := ParseFingerprint("  8DA7F965EC5EFC37910F1C6E59FDC1CC6A6EDE16\n")
		Expect(err).Should(Succeed())
		Expect(bare).Should(Equal(want))
	})

	It("Parse errors", func() {
		_, err := ParseFingerprint("8D:A7:F9")
		Expect(err).Should(MatchError(ContainSubstring("expected 20 bytes")))
		_, err = ParseFingerprint("ZZ:A7:F9:65:EC:5E:FC:37:91:0F:1C:6E:59:FD:C1:CC:6A:6E:DE:16")
		Expect(err).ShouldNot(Succeed())
		_, err = ParseFingerprint("")
		Expect(err).ShouldNot(Succeed())
	})

	It("Fetch", func() {
		fp, pemText, err := FetchFingerprint(testServer.Listener.Addr().String())
		Expect(err).Should(Succeed())
		Expect(fp).Should(Equal(testFingerprint))
		Expect(pemText).Should(Equal(testCertPEM))
	})

	It("Fetch bad address", func() {
		_, _, err := FetchFingerprint("no-port-here")
		Expect(err).ShouldNot(Succeed())
	})
})
