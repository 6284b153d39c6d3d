// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements Redactor, the scrubber applied to every request value
// that reaches the access log. Raw phone numbers must never be logged, so the
// phone pattern is applied to query strings, referers and header values, and
// phone-bearing query parameters are masked outright.
//
// Salted phone hashes (64 hex characters) are deliberately left readable so
// operators can correlate reputation lookups.
package middleware

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// RedactOptions configures additional scrub behavior for Logger.
//
// MaskHeaders lists extra header names whose values are replaced with
// "[REDACTED]". MaskParams lists extra query parameter names whose values are
// replaced the same way. Matching is case-insensitive and merged with the
// built-in sets.
type RedactOptions struct {
	MaskHeaders []string
	MaskParams  []string
}

var (
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	hashRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{64}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	// Digits-only so hex ids never match. "+91 98765 43210", "(212) 555-1212".
	phoneRE = regexp.MustCompile(`(?:\+|\(|\b)(?:\d{1,3}[ .-]?)?(?:\(?\d{2,5}\)?[ .-]?)?\d{3,5}[ .-]?\d{4,5}\b`)
)

// Redactor scrubs identifiers from strings and headers. It is safe for
// concurrent use.
type Redactor struct {
	headers map[string]struct{}
	params  map[string]struct{}
}

// NewRedactor builds a Redactor from opts.
func NewRedactor(opts RedactOptions) *Redactor {
	r := &Redactor{
		headers: map[string]struct{}{
			"authorization": {},
			"cookie":        {},
			"set-cookie":    {},
		},
		params: map[string]struct{}{
			"phone":        {},
			"phone_number": {},
			"number":       {},
		},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			r.headers[h] = struct{}{}
		}
	}
	for _, p := range opts.MaskParams {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			r.params[p] = struct{}{}
		}
	}
	return r
}

// String scrubs ids, emails and phone numbers from s. Phone hashes are kept.
func (r *Redactor) String(s string) string {
	if s == "" {
		return s
	}
	var kept []string
	s = hashRE.ReplaceAllStringFunc(s, func(m string) string {
		kept = append(kept, m)
		return "\x00"
	})
	// Ids before phones: the phone pattern could match UUID digit runs.
	s = uuidRE.ReplaceAllString(s, "[REDACTED:id]")
	s = emailRE.ReplaceAllString(s, "[REDACTED:email]")
	s = phoneRE.ReplaceAllString(s, "[REDACTED:phone]")
	for _, h := range kept {
		s = strings.Replace(s, "\x00", h, 1)
	}
	return s
}

// Query masks phone-bearing parameters of a raw query string and scrubs the
// decoded values of the rest. Parameter order is preserved.
func (r *Redactor) Query(raw string) string {
	if raw == "" {
		return raw
	}
	pairs := strings.Split(raw, "&")
	for i, pair := range pairs {
		k, v, hasValue := strings.Cut(pair, "=")
		if dk, err := url.QueryUnescape(k); err == nil {
			k = dk
		}
		if _, ok := r.params[strings.ToLower(k)]; ok {
			pairs[i] = k + "=[REDACTED]"
			continue
		}
		if dv, err := url.QueryUnescape(v); err == nil {
			v = dv
		}
		if hasValue {
			pairs[i] = k + "=" + v
		} else {
			pairs[i] = k
		}
	}
	return r.String(strings.Join(pairs, "&"))
}

// Headers returns a scrubbed, flattened copy of h.
func (r *Redactor) Headers(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vv := range h {
		if _, ok := r.headers[strings.ToLower(k)]; ok {
			out[k] = "[REDACTED]"
			continue
		}
		out[k] = r.String(strings.Join(vv, ", "))
	}
	return out
}
