// Package api maps the resources of the OpenFire REST API onto the records in package types.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"
)

// Requester is the read side of the API client.
type Requester interface {
	Get(ctx context.Context, path string, params url.Values) ([]byte, error)
}

// ReadWriter adds the write operations used by the group administration.
type ReadWriter interface {
	Requester
	Post(ctx context.Context, path string, body []byte, headers map[string]string) ([]byte, error)
	Put(ctx context.Context, path string, body []byte, headers map[string]string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}

// segment escapes a single path segment (usernames may contain "@" or spaces).
func segment(s string) string {
	return url.PathEscape(s)
}

// decodeList decodes the list wrapped under the first present key of body into out, which must point to
// a slice. A missing or null key yields an empty slice, a single object yields a one element slice.
func decodeList(body []byte, out interface{}, keys ...string) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return json.Unmarshal([]byte("[]"), out)
	}
	if !gjson.ValidBytes(body) {
		return fmt.Errorf("invalid JSON in response")
	}
	var res gjson.Result
	for _, key := range keys {
		res = gjson.GetBytes(body, key)
		if res.Exists() {
			break
		}
	}
	raw := "[]"
	switch {
	case !res.Exists() || res.Type == gjson.Null:
	case res.IsArray():
		raw = res.Raw
	case res.IsObject():
		raw = "[" + res.Raw + "]"
	default:
		return fmt.Errorf("unexpected %s value for list %q", res.Type, keys[0])
	}
	return json.Unmarshal([]byte(raw), out)
}

// decodeObject decodes a single record response.
func decodeObject(body []byte, out interface{}) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}
