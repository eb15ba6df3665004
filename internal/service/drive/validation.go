package drive

import (
	"regexp"

	"drivebox/internal/config"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var noSlashes = regexp.MustCompile(`^[^/]+$`)

// validateNodeName validates a folder or file name. Names become path
// segments of blob keys, so slashes are rejected outright.
func validateNodeName(name string, maxLen int) error {
	return validation.Validate(name,
		validation.Required.Error("name is required"),
		validation.Length(1, maxLen),
		validation.Match(noSlashes).Error("name cannot contain slashes"),
	)
}

func validateFolderName(name string) error {
	return validateNodeName(name, config.MaxFolderNameLength)
}

func validateFileName(name string) error {
	return validateNodeName(name, config.MaxFileNameLength)
}
