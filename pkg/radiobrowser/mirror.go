package radiobrowser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Mirror is one entry of the radio-browser servers list.
type Mirror struct {
	IP   string `json:"ip"`
	Name string `json:"name"`
}

// DiscoverMirror asks serversURL for the list of API mirrors and returns the
// base URL of the first one with a name.
func DiscoverMirror(ctx context.Context, client *http.Client, serversURL string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if serversURL == "" {
		serversURL = DefaultServersURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serversURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("radio-browser servers: HTTP %d", resp.StatusCode)
	}

	var mirrors []Mirror
	if err := json.NewDecoder(resp.Body).Decode(&mirrors); err != nil {
		return "", fmt.Errorf("radio-browser servers parse: %w", err)
	}

	for _, m := range mirrors {
		if name := strings.TrimSpace(m.Name); name != "" {
			return "https://" + name, nil
		}
	}
	return "", fmt.Errorf("no mirrors found")
}
