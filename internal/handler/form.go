package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/escolaware/escola-api/pkg/errors"
)

// Multipart forms deliver every field as a string. These helpers parse the
// typed values the services expect, failing with a validation error instead
// of silently defaulting. An absent or empty optional field parses to nil,
// never to zero.

func parsePathID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid id")
	}
	return id, nil
}

func formString(c *gin.Context, field string) *string {
	value := strings.TrimSpace(c.PostForm(field))
	if value == "" {
		return nil
	}
	return &value
}

func formID(c *gin.Context, field string) (*int64, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, field+" must be a number")
	}
	return &id, nil
}

func formDecimal(c *gin.Context, field string) (*float64, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, field+" must be a decimal number")
	}
	return &value, nil
}

func formDate(c *gin.Context, field string) (*time.Time, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return nil, nil
	}
	value, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, field+" must be a date (YYYY-MM-DD)")
	}
	return &value, nil
}
