package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// call sends a request to the server and pretty-prints the JSON reply to out.
// A reply with success=false is reported as an error after printing.
func call(ctx context.Context, out io.Writer, method, path string, query url.Values) error {
	u := strings.TrimRight(serverURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := (&http.Client{Timeout: timeout}).Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		return fmt.Errorf("server returned %d with non-JSON body: %s", resp.StatusCode, body)
	}
	fmt.Fprintln(out, pretty.String())

	var status struct {
		Success *bool  `json:"success"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(body, &status)
	if resp.StatusCode >= 400 || (status.Success != nil && !*status.Success) {
		if status.Error == "" {
			status.Error = resp.Status
		}
		return fmt.Errorf("server error: %s", status.Error)
	}
	return nil
}
