package hooks

import (
	"strings"
)

const (
	triggerPath = "/trigger/"
	keyPath     = "/with/key/"
	valueName   = "valueN=\"\""
	// Room for the separators plus a little extra.
	urlSlack = 5
)

/*
Value returns a pointer to "s" for use with TriggerValues and BuildURL,
where nil means the value is absent.
*/
func Value(s string) *string {
	return &s
}

/*
BuildURL constructs the trigger URL. Each value that is not nil is added as
valueN="...", with "?" before the first one and "&" between them. Values
are not escaped, so callers must encode reserved characters themselves.
*/
func BuildURL(base, event, apiKey string, v1, v2, v3 *string) string {
	var b strings.Builder
	b.Grow(urlCapacity(base, event, apiKey, v1, v2, v3))

	b.WriteString(base)
	b.WriteString(triggerPath)
	b.WriteString(event)
	b.WriteString(keyPath)
	b.WriteString(apiKey)

	values := []*string{v1, v2, v3}
	sep := "?"
	for i, v := range values {
		if v == nil {
			continue
		}
		b.WriteString(sep)
		b.WriteString("value")
		b.WriteByte(byte('1' + i))
		b.WriteString("=\"")
		b.WriteString(*v)
		b.WriteByte('"')
		sep = "&"
	}
	return b.String()
}

/*
urlCapacity returns an upper bound on the length of the URL built from the
same arguments. It counts room for all three values even if some are absent.
*/
func urlCapacity(base, event, apiKey string, v1, v2, v3 *string) int {
	n := len(base) + len(triggerPath) + len(event) + len(keyPath) + len(apiKey)
	n += len("?") + (len("&")+len(valueName))*3
	for _, v := range []*string{v1, v2, v3} {
		if v != nil {
			n += len(*v)
		}
	}
	return n + urlSlack
}
