// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/patent-copilot/internal/errs"
)

const maxErrorBody = 2048

// Do sends req and classifies the result. Transport failures and non-2xx
// responses come back as *errs.Error; on success the caller owns the
// response body.
func Do(client *http.Client, req *http.Request, provider string) (*http.Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, errs.FromTransport(provider, err)
	}
	if err := CheckResponse(provider, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CheckResponse returns nil for 2xx responses. Otherwise it reads a bounded
// prefix of the body for the error message, closes the body, and returns
// the status classified by errs.FromStatus.
func CheckResponse(provider string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	io.Copy(io.Discard, resp.Body)

	retryAfter := ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
	return errs.FromStatus(provider, resp.StatusCode, retryAfter, strings.TrimSpace(string(body)))
}

// ParseRetryAfter interprets a Retry-After header given either as seconds
// or as an HTTP date. It returns 0 when the header is absent, malformed, or
// in the past.
func ParseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
