// Package http provides the JSON API over the ledger.
//
// This file implements utilities for parsing and validating HTTP request data.
// Entry submissions arrive either as JSON or as form-encoded bodies, and
// both are reduced to the same raw draft.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"cashbook/internal/ledger"
	"cashbook/internal/report"
)

// maxBodyBytes bounds entry submissions.
const maxBodyBytes = 1 << 20

var (
	errInvalidID   = errors.New("invalid entry id")
	errInvalidBody = errors.New("invalid request body")
)

// ParseFilters extracts the category and period filters from query
// parameters. Missing values mean All.
func ParseFilters(query url.Values) report.Filters {
	return report.Filters{
		Category: strings.TrimSpace(sanitizeInput(query.Get("category"))),
		Period:   strings.TrimSpace(sanitizeInput(query.Get("period"))),
	}.Normalize()
}

// ParseEntryID parses a path id; ids are positive integers.
func ParseEntryID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidID, raw)
	}
	return id, nil
}

// ParseConfirm reports whether the confirm query parameter is a true value.
func ParseConfirm(query url.Values) bool {
	ok, err := strconv.ParseBool(strings.TrimSpace(query.Get("confirm")))
	return err == nil && ok
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once, up to maxBodyBytes.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}

	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	body := strings.TrimSpace(string(p.body))
	if body == "" {
		p.formData = url.Values{}
		return nil
	}

	if strings.HasPrefix(p.contentType, "application/json") || body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal([]byte(body), &p.jsonData); err != nil {
			p.jsonData = nil
			p.err = fmt.Errorf("%w: %v", errInvalidBody, err)
			return p.err
		}
		return nil
	}

	// Fall back to form parsing
	formData, err := url.ParseQuery(body)
	if err != nil {
		p.err = fmt.Errorf("%w: %v", errInvalidBody, err)
		return p.err
	}
	p.formData = formData
	return nil
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(sanitizeInput(stringValue(val)))
		}
		return ""
	}
	if p.formData != nil {
		return strings.TrimSpace(sanitizeInput(p.formData.Get(key)))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// Draft builds the raw entry draft from the parsed body.
func (p *RequestBodyParser) Draft() ledger.Draft {
	return ledger.Draft{
		Type:        p.Get("type"),
		Description: p.Get("description"),
		Amount:      p.Get("amount"),
		Category:    p.Get("category"),
		Date:        p.Get("date"),
	}
}

// ParseDraft reads a JSON or form body into a draft.
func ParseDraft(w http.ResponseWriter, r *http.Request) (ledger.Draft, error) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		return ledger.Draft{}, err
	}
	return p.Draft(), nil
}

// stringValue converts a decoded JSON value to string. Numbers keep
// their shortest exact form so 45.5 stays "45.5".
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
