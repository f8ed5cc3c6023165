package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	internal_errors "github.com/previewer-dev/previewer/shared/errors"
	"github.com/previewer-dev/previewer/shared/middleware/metrics"
)

const (
	apiVersion = "7.1-preview"

	// Test attachments on the public cloud are only served from this sub-domain.
	cloudAttachmentRoot = "https://vstmr.dev.azure.com/%s/"
	cloudDomain         = "dev.azure.com"
	legacyCloudSuffix   = ".visualstudio.com"

	maxErrorBody = 4 << 10
)

// APIClient handles all communication with the test results service.
type APIClient struct {
	BaseURL     string
	HttpClient  *http.Client
	AccessToken string
}

// New creates a client for the given API root. The root must end with a slash.
func New(baseURL string, timeout time.Duration) *APIClient {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &APIClient{
		BaseURL:    baseURL,
		HttpClient: &http.Client{Timeout: timeout},
	}
}

// IsCloudDomain reports whether host is the public cloud or one of its legacy regional aliases.
func IsCloudDomain(host string) bool {
	host = strings.ToLower(host)
	return host == cloudDomain || strings.HasSuffix(host, legacyCloudSuffix)
}

// ResolveRoot picks the API root for attachment operations. On the cloud the root is
// overridden with the attachment sub-domain of hostName; self-hosted servers keep defaultRoot.
// referrer is the page that embedded the previewer and may be empty.
func ResolveRoot(defaultRoot, referrer, hostName string) string {
	var domain string
	if referrer != "" {
		if u, err := url.Parse(referrer); err == nil {
			domain = u.Host
		}
	}
	if IsCloudDomain(domain) && hostName != "" {
		return fmt.Sprintf(cloudAttachmentRoot, url.PathEscape(hostName))
	}
	return defaultRoot
}

// ForMount builds the client for one mount of the previewer.
func ForMount(defaultRoot, referrer, hostName, accessToken string, timeout time.Duration) *APIClient {
	c := New(ResolveRoot(defaultRoot, referrer, hostName), timeout)
	c.AccessToken = accessToken
	return c
}

// do is the single helper for making API requests.
func (c *APIClient) do(ctx context.Context, method, path string, query url.Values, accept string) (*http.Response, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api-version", apiVersion)

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	req.Header.Set("Accept", accept)
	if c.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("results service unavailable: %w", err)
	}
	return resp, nil
}

func checkStatus(operation string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &internal_errors.ServiceError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(bodyBytes)),
	}
}

func (c *APIClient) getJSON(ctx context.Context, operation, path string, query url.Values, out any) (err error) {
	defer func() { metrics.ObserveServiceCall(operation, err) }()

	resp, err := c.do(ctx, http.MethodGet, path, query, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(operation, resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to parse JSON: %w", operation, err)
	}
	return nil
}

func (c *APIClient) getBytes(ctx context.Context, operation, path string, query url.Values) (content []byte, err error) {
	defer func() { metrics.ObserveServiceCall(operation, err) }()

	resp, err := c.do(ctx, http.MethodGet, path, query, "application/octet-stream")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(operation, resp); err != nil {
		return nil, err
	}
	content, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read content: %w", operation, err)
	}
	return content, nil
}

func runPath(project string, runID int64) string {
	return fmt.Sprintf("%s/_apis/test/Runs/%d", url.PathEscape(project), runID)
}

func resultPath(project string, runID, resultID int64) string {
	return fmt.Sprintf("%s/Results/%d", runPath(project, runID), resultID)
}
