package telephony

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/leadline-crm/leadline-api/internal/config"
)

// Gateway is the telephony provider contract consumed by the services.
// The provider exposes a Twilio-compatible REST API.
type Gateway interface {
	PlaceCall(ctx context.Context, params PlaceCallParams) (*CallResource, error)
	SendMessage(ctx context.Context, params SendMessageParams) (*MessageResource, error)
}

// PlaceCallParams describes one outbound call origination request
type PlaceCallParams struct {
	To                   string // employee destination: E.164 or sip:user@domain
	From                 string // E.164 caller ID
	ConnectURL           string // voice document URL fetched when the employee answers
	StatusCallbackURL    string
	StatusCallbackEvents []string // e.g. initiated, ringing, answered, completed
}

// SendMessageParams describes one outbound SMS request
type SendMessageParams struct {
	To   string
	From string
	Body string
}

// CallResource is the provider's representation of a created call
type CallResource struct {
	Sid    string `json:"sid"`
	Status string `json:"status"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// MessageResource is the provider's representation of a created message
type MessageResource struct {
	Sid    string `json:"sid"`
	Status string `json:"status"`
	From   string `json:"from"`
	To     string `json:"to"`
}

const defaultBaseURL = "https://api.telephony.example.com/2010-04-01"

// Client talks to the provider's REST API: form-encoded POST bodies with
// HTTP basic auth, the Twilio wire convention.
type Client struct {
	accountSID string
	authToken  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a provider API client. cfg.BaseURL overrides the
// production endpoint, which tests use to point at a local fake.
func NewClient(cfg *config.TelephonyConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeoutDuration(),
		},
	}
}

// PlaceCall originates an outbound call. The provider first dials To (the
// employee); when answered it fetches ConnectURL for the bridge instructions.
func (c *Client) PlaceCall(ctx context.Context, params PlaceCallParams) (*CallResource, error) {
	if c.accountSID == "" || c.authToken == "" {
		return nil, fmt.Errorf("telephony credentials not configured")
	}

	formData := url.Values{}
	formData.Set("From", params.From)
	formData.Set("To", params.To)
	formData.Set("Url", params.ConnectURL)
	formData.Set("Method", "POST")
	if params.StatusCallbackURL != "" {
		formData.Set("StatusCallback", params.StatusCallbackURL)
		formData.Set("StatusCallbackMethod", "POST")
		for _, event := range params.StatusCallbackEvents {
			formData.Add("StatusCallbackEvent", event)
		}
	}

	var call CallResource
	if err := c.post(ctx, "/Calls.json", formData, &call); err != nil {
		return nil, err
	}
	return &call, nil
}

// SendMessage sends one SMS
func (c *Client) SendMessage(ctx context.Context, params SendMessageParams) (*MessageResource, error) {
	if c.accountSID == "" || c.authToken == "" {
		return nil, fmt.Errorf("telephony credentials not configured")
	}

	formData := url.Values{}
	formData.Set("From", params.From)
	formData.Set("To", params.To)
	formData.Set("Body", params.Body)

	var msg MessageResource
	if err := c.post(ctx, "/Messages.json", formData, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) post(ctx context.Context, path string, formData url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s/Accounts/%s%s", c.baseURL, c.accountSID, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telephony API error (%d): %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
