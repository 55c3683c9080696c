package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// dateInputLayouts are accepted for dates in request bodies and query params, in order
var dateInputLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseIDParam reads a positive int32 path parameter
func parseIDParam(c echo.Context, name string) (int32, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return int32(id), nil
}

// parseOptionalID reads an optional positive int32 query parameter
func parseOptionalID(raw string) (*int32, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid id %q", raw)
	}
	v := int32(id)
	return &v, nil
}

// parseIDList parses a comma separated list of ids such as "1,2,3"
func parseIDList(raw string) ([]int32, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int32, 0, len(parts))
	for _, part := range parts {
		id, err := parseOptionalID(strings.TrimSpace(part))
		if err != nil || id == nil {
			return nil, fmt.Errorf("invalid id list %q", raw)
		}
		ids = append(ids, *id)
	}
	return ids, nil
}

// parseDateInput parses a date in any of dateInputLayouts. Values without an
// offset are taken as UTC.
func parseDateInput(raw string) (time.Time, error) {
	for _, layout := range dateInputLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

func parsePositiveInt(raw string, fallback int32) int32 {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v <= 0 {
		return fallback
	}
	return int32(v)
}
