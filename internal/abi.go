package moonbridge

import (
	"github.com/Masterminds/semver/v3"
	"go.uber.org/multierr"
)

// ABIVersion is the version of the Value layout and boundary callbacks this
// bridge implements.
const ABIVersion = "1.0.0"

const DefaultABIConstraint = "~1.0"

func checkABI(nativeVersion, constraint string) error {
	v, err := semver.NewVersion(nativeVersion)
	if err != nil {
		return NewError(PhaseStartup, KindABI).Detail("native core reports invalid ABI version %q", nativeVersion).Cause(err).Build()
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return NewError(PhaseStartup, KindABI).Detail("invalid ABI constraint %q", constraint).Cause(err).Build()
	}

	if ok, errs := c.Validate(v); !ok {
		return NewError(PhaseStartup, KindABI).
			Detail("native ABI %s does not satisfy %s", v, constraint).
			Cause(multierr.Combine(errs...)).
			Build()
	}
	return nil
}
