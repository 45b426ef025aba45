package manifest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/oshokin/launch-stub/internal/domain/release"
	"github.com/oshokin/launch-stub/internal/logger"
	"github.com/oshokin/launch-stub/internal/version"
)

const (
	// versionField holds the semantic version of the latest release.
	versionField = "version"
	// downloadField holds the absolute URL of the release package.
	downloadField = "download"
	// checksumField holds the optional base64 SHA-512 of the release package.
	checksumField = "sha512"

	// maxQuotedBody limits how much of an unexpected body ends up in error messages.
	maxQuotedBody = 512
)

// Client retrieves release manifests over HTTP.
type Client struct {
	// httpClient is shared with the installer so one connection pool serves the whole run.
	httpClient *http.Client
}

// New returns a Client using httpClient, or http.DefaultClient when nil.
func New(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		httpClient: httpClient,
	}
}

// Fetch downloads the manifest at manifestURL and parses it.
func (c *Client) Fetch(ctx context.Context, manifestURL string) (*release.Manifest, error) {
	body, err := c.download(ctx, manifestURL)
	if err != nil {
		return nil, err
	}

	m, err := Parse(body)
	if err != nil {
		return nil, err
	}

	logger.DebugKV(ctx, "Manifest received",
		"url", manifestURL, "version", m.Version.Original(), "download", m.DownloadURL)

	return m, nil
}

// download performs the GET request and returns the full body of a successful response.
func (c *Client) download(ctx context.Context, manifestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, manifestURL, http.NoBody)
	if err != nil {
		return nil, release.Errorf(release.KindNetwork, "build manifest request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, release.Errorf(release.KindNetwork, "get manifest: %w", err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, release.Errorf(release.KindNetwork, "read manifest: %w", err)
	}

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, release.Errorf(release.KindNetwork,
			"%s, %s: %w", manifestURL, response.Status, release.ErrBadHTTPStatus)
	}

	return body, nil
}

// Parse converts a manifest body into a Manifest.
// The body must be a JSON object with non-blank string "version" and "download" fields;
// "sha512" is optional.
func Parse(body []byte) (*release.Manifest, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, release.Errorf(release.KindManifestParse,
			"unable to parse JSON object from server, content: %s", quote(body))
	}

	rawVersion, versionOK := stringField(fields, versionField)
	rawDownload, downloadOK := stringField(fields, downloadField)

	if !versionOK || !downloadOK {
		return nil, release.Errorf(release.KindManifestParse,
			"error reading remote manifest, server response: %s", quote(body))
	}

	remoteVersion, err := release.ParseVersion(rawVersion)
	if err != nil {
		return nil, err
	}

	m := &release.Manifest{
		Version:     remoteVersion,
		DownloadURL: rawDownload,
	}

	if rawChecksum, ok := stringField(fields, checksumField); ok {
		m.Checksum, err = base64.StdEncoding.DecodeString(rawChecksum)
		if err != nil {
			return nil, release.Errorf(release.KindManifestParse, "decode %s: %w", checksumField, err)
		}
	}

	return m, nil
}

// stringField returns the trimmed value of a non-blank string field.
func stringField(fields map[string]json.RawMessage, name string) (string, bool) {
	raw, ok := fields[name]
	if !ok {
		return "", false
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}

	value = strings.TrimSpace(value)

	return value, value != ""
}

// quote renders a possibly long body for error messages.
func quote(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > maxQuotedBody {
		return fmt.Sprintf("%q...", text[:maxQuotedBody])
	}

	return fmt.Sprintf("%q", text)
}
