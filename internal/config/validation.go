package config

import (
	"fmt"
	"regexp"
	"time"

	ziplineerrors "github.com/neosb/zipline/pkg/zipline/v1/errors"
)

// identifierRegex validates source ids and transform names: the same
// character set the wire protocol's sync frames rely on (no colons, no
// embedded whitespace).
var identifierRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

const reservedPassthroughName = "PASSTHROUGH"

// ValidateTopologyStructure performs logical validation the JSON Schema
// cannot express: duplicate ids, reserved names, and malformed durations.
func ValidateTopologyStructure(t *Topology) []error {
	var errs []error

	if len(t.Sources) == 0 {
		errs = append(errs, ziplineerrors.NewValidationError("topology must declare at least one source", nil))
	}

	sourceIDs := make(map[string]bool)
	for i, src := range t.Sources {
		label := fmt.Sprintf("sources[%d]", i)
		if src.ID == "" {
			errs = append(errs, ziplineerrors.NewValidationError(fmt.Sprintf("%s: 'id' is required", label), nil))
		} else if !identifierRegex.MatchString(src.ID) {
			errs = append(errs, ziplineerrors.NewValidationError(fmt.Sprintf("%s: id '%s' contains invalid characters", label, src.ID), nil))
		} else if sourceIDs[src.ID] {
			errs = append(errs, ziplineerrors.NewValidationError(fmt.Sprintf("%s: duplicate source id '%s'", label, src.ID), nil))
		}
		sourceIDs[src.ID] = true

		if src.Type == "" {
			errs = append(errs, ziplineerrors.NewValidationError(fmt.Sprintf("%s: 'type' is required", label), nil))
		}
	}

	transformNames := make(map[string]bool)
	for i, tr := range t.Transforms {
		label := fmt.Sprintf("transforms[%d]", i)
		if tr.Name == "" {
			errs = append(errs, ziplineerrors.NewValidationError(fmt.Sprintf("%s: 'name' is required", label), nil))
		} else if tr.Name == reservedPassthroughName {
			errs = append(errs, ziplineerrors.NewValidationError(fmt.Sprintf("%s: transform name '%s' is reserved", label, reservedPassthroughName), nil))
		} else if !identifierRegex.MatchString(tr.Name) {
			errs = append(errs, ziplineerrors.NewValidationError(fmt.Sprintf("%s: name '%s' contains invalid characters", label, tr.Name), nil))
		} else if transformNames[tr.Name] {
			errs = append(errs, ziplineerrors.NewValidationError(fmt.Sprintf("%s: duplicate transform name '%s'", label, tr.Name), nil))
		}
		transformNames[tr.Name] = true

		if tr.Type == "" {
			errs = append(errs, ziplineerrors.NewValidationError(fmt.Sprintf("%s: 'type' is required", label), nil))
		}
	}

	if t.HeartbeatTimeout != "" {
		if _, err := time.ParseDuration(t.HeartbeatTimeout); err != nil {
			errs = append(errs, ziplineerrors.NewValidationError(fmt.Sprintf("invalid format for 'heartbeat_timeout': %v", err), nil))
		}
	}
	if t.Timeout != "" {
		if _, err := time.ParseDuration(t.Timeout); err != nil {
			errs = append(errs, ziplineerrors.NewValidationError(fmt.Sprintf("invalid format for 'timeout': %v", err), nil))
		}
	}

	return errs
}
