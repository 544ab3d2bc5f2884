package hooks

import (
	"net/http"
)

const (
	// StatusOK is returned by Trigger when the event was accepted.
	StatusOK = 0
	// StatusFailed is returned by Trigger for every other outcome.
	StatusFailed = 1

	maxValues = 3
)

/*
Trigger fires the event with zero to three values, all of which are present
in the request. It returns StatusOK only if the server answered
"200 OK", and StatusFailed in every other case, including more than three
values. It blocks until the request completes.
*/
func (h *WebHook) Trigger(values ...string) int {
	if len(values) > maxValues {
		h.logger.Infof("Too many values: %d", len(values))
		return StatusFailed
	}

	var v [maxValues]*string
	for i := range values {
		v[i] = &values[i]
	}
	return h.TriggerValues(v[0], v[1], v[2])
}

/*
TriggerValues fires the event. A nil value is left out of the URL entirely,
while an empty string is sent as valueN="". The result is the same as for
Trigger.
*/
func (h *WebHook) TriggerValues(v1, v2, v3 *string) int {
	h.logger.Debugf("URL length: %d",
		urlCapacity(h.baseURL, h.event, h.apiKey, v1, v2, v3))
	uri := BuildURL(h.baseURL, h.event, h.apiKey, v1, v2, v3)
	h.logger.Debugf("%s", uri)

	client := h.newClient()
	defer client.End()

	err := client.Begin(uri, h.identity)
	if err != nil {
		h.logger.Debugf("[HTTP] GET... failed, error: %s", err)
		return StatusFailed
	}

	code := client.Get()
	if code > 0 {
		h.logger.Debugf("[HTTP] GET... code: %d", code)
		if code == http.StatusOK {
			h.logger.Debugf("%s", client.Body())
		}
	} else {
		h.logger.Debugf("[HTTP] GET... failed, error: %s", client.ErrorString(code))
	}

	if code != http.StatusOK {
		return StatusFailed
	}
	return StatusOK
}
