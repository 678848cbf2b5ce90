// Package validation provides request validation for database provisioning.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vectorops/dbdock/internal/types"
)

// Database name bounds. The derived resource name has its own, tighter limit.
const (
	MinNameLength = 4
	MaxNameLength = 16

	// MaxResourceNameLength bounds the derived resource name sent to the
	// provisioning backend.
	MaxResourceNameLength = 20

	// MaxContainerNameLength is the hard ceiling the backend imposes on
	// container names.
	MaxContainerNameLength = 63
)

var (
	pineconeNameRegex  = regexp.MustCompile(`^[a-z0-9-]+$`)
	standardNameRegex  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	containerNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*$`)
	sanitizeRegex      = regexp.MustCompile(`[^a-z0-9]+`)
	hyphenRunRegex     = regexp.MustCompile(`-+`)
)

// ValidateName checks a user-supplied database name against the length and
// character rules for the engine. All violated rules are collected and
// returned together so the caller can display every problem at once.
func ValidateName(name string, engine types.Engine) []error {
	var errs []error

	if len(name) < MinNameLength || len(name) > MaxNameLength {
		errs = append(errs, fmt.Errorf("Database name must be between %d and %d characters", MinNameLength, MaxNameLength))
	}
	if strings.ContainsAny(name, " \t\n") {
		errs = append(errs, fmt.Errorf("Database name cannot contain spaces"))
	}

	if name == "" {
		return errs
	}

	switch engine {
	case types.EnginePinecone:
		if !pineconeNameRegex.MatchString(name) {
			errs = append(errs, fmt.Errorf("Pinecone index names can only contain lowercase letters, numbers, and hyphens"))
		}
	case types.EnginePostgres, types.EngineWeaviate, types.EngineChroma:
		if !standardNameRegex.MatchString(name) {
			errs = append(errs, fmt.Errorf("Database name must start with a letter and contain only letters, numbers, and underscores"))
		}
	}

	return errs
}

// DeriveResourceName derives the backend-safe resource identifier from the
// engine, the user-supplied name, and the owner ID. It is a pure function:
// identical inputs always produce the identical name, and the output is
// lowercase [a-z0-9-] hard-truncated to MaxResourceNameLength.
func DeriveResourceName(engine types.Engine, name, ownerID string) string {
	clean := sanitizeName(name)
	if len(clean) > 6 {
		clean = clean[:6]
	}
	owner := strings.ToLower(ownerID)
	if len(owner) > 4 {
		owner = owner[:4]
	}

	resource := strings.ToLower(engine.Prefix() + "-" + clean + "-" + owner)
	if len(resource) > MaxResourceNameLength {
		resource = resource[:MaxResourceNameLength]
	}
	return resource
}

// sanitizeName lowercases the name, replaces every non-[a-z0-9] run with a
// single hyphen, and trims hyphens from both edges.
func sanitizeName(name string) string {
	clean := sanitizeRegex.ReplaceAllString(strings.ToLower(name), "-")
	clean = hyphenRunRegex.ReplaceAllString(clean, "-")
	return strings.Trim(clean, "-")
}

// ValidateContainerName checks a container name on the delete path against
// the backend's naming rules.
func ValidateContainerName(containerName string) error {
	if containerName == "" {
		return fmt.Errorf("Container name is required")
	}
	if !containerNameRegex.MatchString(containerName) {
		return fmt.Errorf("Invalid container name format")
	}
	if len(containerName) > MaxContainerNameLength {
		return fmt.Errorf("Container name too long (max %d characters)", MaxContainerNameLength)
	}
	return nil
}
