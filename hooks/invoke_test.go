package hooks

import (
	"bytes"
	"errors"
	"strings"

	"github.com/30x/iftttwebhook/communication"
	"github.com/30x/iftttwebhook/log"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func testHook(key string, opts ...Option) *WebHook {
	opts = append([]Option{
		WithMode(communication.ModeFingerprint),
		WithBaseURL(testServer.URL),
	}, opts...)
	return NewWithIdentity(key, goodEvent, testFingerprint, opts...)
}

var _ = Describe("Hook invocation tests", func() {
	It("Trigger no values", func() {
		hook := testHook(goodKey)
		Expect(hook.Trigger()).Should(Equal(StatusOK))
		event, query := lastRequest()
		Expect(event).Should(Equal(goodEvent))
		Expect(query).Should(BeEmpty())
	})

	It("Trigger one two three", func() {
		hook := testHook(goodKey)
		Expect(hook.Trigger("a")).Should(Equal(StatusOK))
		_, query := lastRequest()
		Expect(query).Should(Equal(`value1="a"`))

		Expect(hook.Trigger("a", "b")).Should(Equal(StatusOK))
		_, query = lastRequest()
		Expect(query).Should(Equal(`value1="a"&value2="b"`))

		Expect(hook.Trigger("a", "b", "c")).Should(Equal(StatusOK))
		_, query = lastRequest()
		Expect(query).Should(Equal(`value1="a"&value2="b"&value3="c"`))
	})

	It("Trigger with gaps", func() {
		hook := testHook(goodKey)
		Expect(hook.TriggerValues(Value("a"), nil, Value("c"))).Should(Equal(StatusOK))
		_, query := lastRequest()
		Expect(query).Should(Equal(`value1="a"&value3="c"`))

		Expect(hook.TriggerValues(nil, Value(""), nil)).Should(Equal(StatusOK))
		_, query = lastRequest()
		Expect(query).Should(Equal(`value2=""`))
	})

	It("Too many values", func() {
		counts := &clientCounts{}
		hook := New("k", "e", WithClient(fakeFactory(200, nil, counts)))
		Expect(hook.Trigger("1", "2", "3", "4")).Should(Equal(StatusFailed))
		Expect(counts.begun).Should(BeZero())
	})

	It("HTTP errors", func() {
		Expect(testHook("invalid").Trigger("x")).Should(Equal(StatusFailed))
		Expect(testHook("limited").Trigger("x")).Should(Equal(StatusFailed))
		Expect(testHook("broken").Trigger("x")).Should(Equal(StatusFailed))
		Expect(testHook("created").Trigger("x")).Should(Equal(StatusFailed))
	})

	It("Wrong identity", func() {
		hook := NewWithIdentity(goodKey, goodEvent, communication.DefaultFingerprint,
			WithMode(communication.ModeFingerprint), WithBaseURL(testServer.URL))
		Expect(hook.Trigger()).Should(Equal(StatusFailed))
	})

	It("Default identity", func() {
		hook := New(goodKey, goodEvent, WithBaseURL(testServer.URL))
		Expect(hook.Mode()).Should(Equal(communication.DefaultMode))
		Expect(hook.Identity()).Should(Equal(communication.DefaultCertificate))
		Expect(hook.Trigger()).Should(Equal(StatusFailed))

		hook = New(goodKey, goodEvent, WithMode(communication.ModeFingerprint))
		Expect(hook.Identity()).Should(Equal(communication.DefaultFingerprint))
	})

	It("Explicit identity", func() {
		counts := &clientCounts{}
		hook := NewWithIdentity("k", "e", "AA:BB", WithClient(fakeFactory(200, nil, counts)))
		Expect(hook.APIKey()).Should(Equal("k"))
		Expect(hook.Event()).Should(Equal("e"))
		Expect(hook.Identity()).Should(Equal("AA:BB"))
		Expect(hook.Trigger()).Should(Equal(StatusOK))
		Expect(counts.identity).Should(Equal("AA:BB"))
		Expect(counts.uri).Should(Equal("https://maker.ifttt.com/trigger/e/with/key/k"))

		hook = New("k", "e", WithClient(fakeFactory(200, nil, counts)))
		Expect(hook.Trigger()).Should(Equal(StatusOK))
		Expect(counts.identity).Should(Equal(communication.DefaultCertificate))
	})

	It("Simulated results", func() {
		for _, code := range []int{200, 201, 301, 401, 429, 500,
			communication.CodeConnectionRefused, communication.CodeReadTimeout} {
			counts := &clientCounts{}
			hook := New("k", "e", WithClient(fakeFactory(code, nil, counts)))
			result := hook.Trigger("v")
			if code == 200 {
				Expect(result).Should(Equal(StatusOK))
			} else {
				Expect(result).Should(Equal(StatusFailed))
			}
		}
	})

	It("Client released on every path", func() {
		counts := &clientCounts{}
		for i := 0; i < 20; i++ {
			New("k", "e", WithClient(fakeFactory(200, nil, counts))).Trigger()
			New("k", "e", WithClient(fakeFactory(500, nil, counts))).Trigger("a")
			New("k", "e", WithClient(fakeFactory(communication.CodeConnectionLost, nil, counts))).Trigger("a", "b")
			New("k", "e", WithClient(fakeFactory(0, errors.New("bad identity"), counts))).Trigger("a", "b", "c")
		}
		Expect(counts.begun).Should(Equal(80))
		Expect(counts.ended).Should(Equal(80))
	})

	It("Debug output", func() {
		buf := &bytes.Buffer{}
		hook := testHook(goodKey, WithLogger(log.New(buf, true)))
		Expect(hook.Trigger("a")).Should(Equal(StatusOK))

		out := buf.String()
		Expect(out).Should(ContainSubstring("URL length: "))
		Expect(out).Should(ContainSubstring(
			testServer.URL + "/trigger/" + goodEvent + "/with/key/" + goodKey + `?value1="a"`))
		Expect(out).Should(ContainSubstring("[HTTP] GET... code: 200"))
		Expect(out).Should(ContainSubstring("Congratulations!"))
	})

	It("Debug output on failure", func() {
		buf := &bytes.Buffer{}
		counts := &clientCounts{}
		hook := New("k", "e", WithLogger(log.New(buf, true)),
			WithClient(fakeFactory(communication.CodeConnectionRefused, nil, counts)))
		Expect(hook.Trigger()).Should(Equal(StatusFailed))
		Expect(buf.String()).Should(ContainSubstring("[HTTP] GET... failed, error: connection refused"))
	})

	It("Quiet without debug", func() {
		buf := &bytes.Buffer{}
		hook := testHook(goodKey, WithLogger(log.New(buf, false)))
		Expect(hook.Trigger("a")).Should(Equal(StatusOK))
		Expect(strings.TrimSpace(buf.String())).Should(BeEmpty())
	})
})
