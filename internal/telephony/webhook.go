package telephony

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// Webhook form parsing. The provider sends application/x-www-form-urlencoded
// by default. These adapters only extract fields; no business decisions here.

// StatusCallback captures the subset of call status callback fields we use
type StatusCallback struct {
	CallSid      string
	CallStatus   string
	CallDuration string // seconds as a decimal string; may be absent
	RecordingURL string
	From         string
	To           string
	Timestamp    string
}

// ParseStatusCallback extracts a call status callback from the request form
func ParseStatusCallback(r *http.Request) (StatusCallback, error) {
	if err := r.ParseForm(); err != nil {
		return StatusCallback{}, err
	}
	return StatusCallback{
		CallSid:      r.PostFormValue("CallSid"),
		CallStatus:   r.PostFormValue("CallStatus"),
		CallDuration: r.PostFormValue("CallDuration"),
		RecordingURL: r.PostFormValue("RecordingUrl"),
		From:         normalizePhone(r.PostFormValue("From")),
		To:           normalizePhone(r.PostFormValue("To")),
		Timestamp:    r.PostFormValue("Timestamp"),
	}, nil
}

// InboundMessage captures the subset of inbound SMS webhook fields we use
type InboundMessage struct {
	MessageSid string
	From       string
	To         string
	Body       string
	SmsStatus  string
	MediaURLs  []string
}

// ParseInboundMessage extracts an inbound SMS from the request form.
// NumMedia/MediaUrlN follow the provider's MMS convention.
func ParseInboundMessage(r *http.Request) (InboundMessage, error) {
	if err := r.ParseForm(); err != nil {
		return InboundMessage{}, err
	}

	msg := InboundMessage{
		MessageSid: r.PostFormValue("MessageSid"),
		From:       normalizePhone(r.PostFormValue("From")),
		To:         normalizePhone(r.PostFormValue("To")),
		Body:       r.PostFormValue("Body"),
		SmsStatus:  r.PostFormValue("SmsStatus"),
	}

	for i := 0; ; i++ {
		mediaURL := r.PostFormValue("MediaUrl" + strconv.Itoa(i))
		if mediaURL == "" {
			break
		}
		msg.MediaURLs = append(msg.MediaURLs, mediaURL)
	}

	return msg, nil
}

// RawPayload serializes the parsed form for the webhook audit trail
func (s StatusCallback) RawPayload() string {
	raw, _ := json.Marshal(s)
	return string(raw)
}

// RawPayload serializes the parsed form for the webhook audit trail
func (m InboundMessage) RawPayload() string {
	raw, _ := json.Marshal(m)
	return string(raw)
}

func normalizePhone(s string) string {
	// The provider sometimes sends "anonymous" or empty; keep as-is.
	return strings.TrimSpace(s)
}
