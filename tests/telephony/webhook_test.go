package telephony_test

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/leadline-crm/leadline-api/internal/telephony"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatusCallback(t *testing.T) {
	form := url.Values{}
	form.Set("CallSid", "CA123")
	form.Set("CallStatus", "completed")
	form.Set("CallDuration", "42")
	form.Set("RecordingUrl", "https://api.telephony.example.com/recordings/RE1")
	form.Set("From", " +15550001111 ")
	form.Set("To", "+15559990000")

	req := httptest.NewRequest("POST", "/webhooks/voice/status", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	cb, err := telephony.ParseStatusCallback(req)
	require.NoError(t, err)

	assert.Equal(t, "CA123", cb.CallSid)
	assert.Equal(t, "completed", cb.CallStatus)
	assert.Equal(t, "42", cb.CallDuration)
	assert.Equal(t, "https://api.telephony.example.com/recordings/RE1", cb.RecordingURL)
	assert.Equal(t, "+15550001111", cb.From, "phone numbers are trimmed")
}

func TestParseInboundMessage_WithMedia(t *testing.T) {
	form := url.Values{}
	form.Set("MessageSid", "SM123")
	form.Set("From", "+15551234567")
	form.Set("To", "+15550001111")
	form.Set("Body", "see attached")
	form.Set("NumMedia", "2")
	form.Set("MediaUrl0", "https://media.example.com/a.jpg")
	form.Set("MediaUrl1", "https://media.example.com/b.jpg")

	req := httptest.NewRequest("POST", "/webhooks/sms/inbound", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	msg, err := telephony.ParseInboundMessage(req)
	require.NoError(t, err)

	assert.Equal(t, "SM123", msg.MessageSid)
	assert.Equal(t, "see attached", msg.Body)
	assert.Equal(t, []string{
		"https://media.example.com/a.jpg",
		"https://media.example.com/b.jpg",
	}, msg.MediaURLs)
}

func TestRawPayload(t *testing.T) {
	cb := telephony.StatusCallback{CallSid: "CA9", CallStatus: "busy"}
	payload := cb.RawPayload()
	assert.Contains(t, payload, "CA9")
	assert.Contains(t, payload, "busy")
}

func TestRenderConnectDocument(t *testing.T) {
	doc, err := telephony.RenderConnectDocument("+15551234567", "+15550001111")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, "<?xml"))
	assert.Contains(t, doc, "<Response>")
	assert.Contains(t, doc, `<Dial callerId="+15550001111">`)
	assert.Contains(t, doc, "<Number>+15551234567</Number>")
}

func TestRenderConnectDocument_NoCallerID(t *testing.T) {
	doc, err := telephony.RenderConnectDocument("+15551234567", "")
	require.NoError(t, err)

	// The attribute is omitted entirely when empty
	assert.NotContains(t, doc, "callerId")
	assert.Contains(t, doc, "<Number>+15551234567</Number>")
}
