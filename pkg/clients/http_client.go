package clients

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

const requestTimeout = 10 * time.Second

type HTTPClientI interface {
	Do(req *http.Request) (*http.Response, error)
	Get(url string, headers http.Header) (statusCode int, respBody []byte, respHeaders http.Header, err error)
}

type HTTPClient struct {
	client HTTPClientI
}

func NewHTTPClient() *HTTPClient {
	return &HTTPClient{
		client: &transport{
			client: &http.Client{Timeout: requestTimeout},
		},
	}
}

func (h *HTTPClient) Get(url string, headers http.Header) (statusCode int, respBody []byte, respHeaders http.Header, err error) {
	return h.client.Get(url, headers)
}

func (h *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	return h.client.Do(req)
}

// SetClient swaps the underlying transport, used by tests.
func (h *HTTPClient) SetClient(mock HTTPClientI) {
	h.client = mock
}

type transport struct {
	client *http.Client
}

func (t *transport) Do(req *http.Request) (*http.Response, error) {
	return t.client.Do(req)
}

func (t *transport) Get(url string, headers http.Header) (int, []byte, http.Header, error) {
	req, err := http.NewRequest(http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("can't build request: %w", err)
	}
	if headers != nil {
		req.Header = headers
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("can't read response body: %w", err)
	}

	return resp.StatusCode, body, resp.Header, nil
}
