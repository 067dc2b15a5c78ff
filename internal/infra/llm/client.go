package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const errorBodyLimit = 4 << 10

// Call is one completion request against a provider.
type Call struct {
	Provider ProviderID
	APIKey   string
	Request  ChatRequest
	// Timeout bounds the whole exchange; zero relies on ctx alone.
	Timeout time.Duration
}

// Client performs HTTP requests against any registered provider.
type Client struct {
	baseURLs   map[ProviderID]string
	httpClient *http.Client
}

// NewClient constructs a provider client. baseURLs overrides registry base
// URLs per provider id; unknown ids are ignored.
func NewClient(baseURLs map[string]string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	overrides := make(map[ProviderID]string, len(baseURLs))
	for id, url := range baseURLs {
		desc, err := Lookup(id)
		if err != nil || strings.TrimSpace(url) == "" {
			continue
		}
		overrides[desc.ID] = strings.TrimRight(strings.TrimSpace(url), "/")
	}
	return &Client{baseURLs: overrides, httpClient: httpClient}
}

// BaseURL returns the effective base URL for provider.
func (c *Client) BaseURL(provider ProviderID) string {
	if url, ok := c.baseURLs[provider]; ok {
		return url
	}
	desc, err := Lookup(string(provider))
	if err != nil {
		return ""
	}
	return desc.BaseURL
}

// Complete sends call and returns the completion text. A well-formed response
// without text yields "" and a nil error.
func (c *Client) Complete(ctx context.Context, call Call) (string, error) {
	desc, err := Lookup(string(call.Provider))
	if err != nil {
		return "", err
	}
	if call.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, call.Timeout)
		defer cancel()
	}

	httpReq, err := c.newHTTPRequest(ctx, desc, call)
	if err != nil {
		return "", &ProviderRequestError{Provider: desc.ID, Kind: FailureUnknown, Err: err}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &ProviderRequestError{Provider: desc.ID, Kind: classifyTransport(err), Err: fmt.Errorf("request completion: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return "", &ProviderRequestError{
			Provider:   desc.ID,
			Kind:       FailureHTTP,
			StatusCode: resp.StatusCode,
			Body:       string(payload),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		kind := classifyTransport(err)
		if kind == FailureUnknown && errors.Is(err, io.ErrUnexpectedEOF) {
			kind = FailureNetwork
		}
		return "", &ProviderRequestError{Provider: desc.ID, Kind: kind, Err: fmt.Errorf("read completion: %w", err)}
	}
	if !json.Valid(body) {
		return "", &ProviderRequestError{Provider: desc.ID, Kind: FailureUnknown, Err: errors.New("decode completion: invalid json")}
	}
	return desc.Shape.ParseResponse(body), nil
}

func (c *Client) newHTTPRequest(ctx context.Context, desc ProviderDescriptor, call Call) (*http.Request, error) {
	req := call.Request
	if req.Model == "" {
		req.Model = desc.DefaultModel
	}
	payload, err := desc.Shape.BuildRequest(req)
	if err != nil {
		return nil, err
	}
	endpoint := c.BaseURL(desc.ID) + desc.Shape.EndpointPath(req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	for name, values := range desc.Shape.AuthHeaders(call.APIKey) {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}
	return httpReq, nil
}
