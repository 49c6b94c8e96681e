package version

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

var (
	ErrMalformedVersion = errors.New("client version is not a valid semantic version")
	ErrVersionTooOld    = errors.New("client version is below the supported minimum")
)

// HeaderName is the request header carrying the client's declared version.
const HeaderName = "Client-Version"

// Gate rejects requests from clients below a minimum declared version.
// Partial versions such as "3" or "2.1" are accepted and coerced, matching
// the lenient contract older clients rely on; pre-release versions compare
// per semver precedence, so "2.1.0-beta" sorts below "2.1.0".
type Gate struct {
	min *semver.Version
}

// NewGate builds a gate from the minimum version string.
func NewGate(minVersion string) (*Gate, error) {
	min, err := semver.NewVersion(minVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid minimum client version %q: %w", minVersion, err)
	}
	return &Gate{min: min}, nil
}

// Check validates the version header value. Build metadata is ignored for
// comparison; equal versions pass.
func (g *Gate) Check(header string) error {
	parsed, err := semver.NewVersion(header)
	if err != nil {
		return fmt.Errorf("%w: header client-version '%s' is not valid", ErrMalformedVersion, header)
	}

	if parsed.LessThan(g.min) {
		return fmt.Errorf("%w: header client-version '%s' is lower than %s", ErrVersionTooOld, header, g.min)
	}

	return nil
}

// Min returns the minimum admitted version.
func (g *Gate) Min() string {
	return g.min.String()
}
