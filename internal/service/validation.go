package service

import (
	"regexp"
	"strings"

	"github.com/moneyflow/moneyflow-backend/internal/domain"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// normalizeName trims a display name and enforces the shared length rules
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}

// validateColor accepts "#rrggbb" hex colors
func validateColor(color string) error {
	if !colorPattern.MatchString(color) {
		return domain.ErrInvalidColor
	}
	return nil
}
