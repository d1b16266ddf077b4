package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/server/models"
)

const (
	maxTitleLen      = 255
	maxUsernameLen   = 255
	maxURLLen        = 2048
	maxNotesLen      = 10000
	maxSecretLen     = 4096
	maxFolderNameLen = 100

	minAccountNameLen = 3
	maxAccountNameLen = 64
	minPasswordLen    = 8
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{common.ErrorValidation}, args...)...)
}

func checkLen(field, v string, limit int) error {
	if utf8.RuneCountInString(v) > limit {
		return validationError("%s exceeds %d characters", field, limit)
	}
	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return validationError("title is required")
	}
	return checkLen("title", title, maxTitleLen)
}

func validateFields(f models.EntryFields) error {
	if err := validateTitle(f.Title); err != nil {
		return err
	}
	for _, c := range []struct {
		name  string
		v     string
		limit int
	}{
		{"username", f.Username, maxUsernameLen},
		{"url", f.URL, maxURLLen},
		{"notes", f.Notes, maxNotesLen},
		{"secret", f.Secret, maxSecretLen},
	} {
		if err := checkLen(c.name, c.v, c.limit); err != nil {
			return err
		}
	}
	return nil
}

func validatePatch(p models.EntryPatch) error {
	if p.Title != nil {
		if err := validateTitle(*p.Title); err != nil {
			return err
		}
	}
	for _, c := range []struct {
		name  string
		v     *string
		limit int
	}{
		{"username", p.Username, maxUsernameLen},
		{"url", p.URL, maxURLLen},
		{"notes", p.Notes, maxNotesLen},
		{"secret", p.Secret, maxSecretLen},
	} {
		if c.v == nil {
			continue
		}
		if err := checkLen(c.name, *c.v, c.limit); err != nil {
			return err
		}
	}
	return nil
}

func validateFolderName(name string) error {
	if strings.TrimSpace(name) == "" {
		return validationError("folder name is required")
	}
	return checkLen("folder name", name, maxFolderNameLen)
}

func validateAccount(username, password string) error {
	n := utf8.RuneCountInString(username)
	if strings.TrimSpace(username) != username || n < minAccountNameLen || n > maxAccountNameLen {
		return validationError("username must be %d to %d characters without surrounding spaces",
			minAccountNameLen, maxAccountNameLen)
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return validationError("password must be at least %d characters", minPasswordLen)
	}
	return nil
}
