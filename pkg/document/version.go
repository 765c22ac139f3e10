package document

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/go-drift/motion/pkg/errors"
)

// CurrentVersion is the newest document version this runtime understands.
// Documents with a different major version are rejected.
const CurrentVersion = "1.4"

// canonical turns "1.2" into "v1.2.0".
func canonical(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("missing version")
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	c := semver.Canonical(v)
	if c == "" {
		return "", fmt.Errorf("invalid version %q", strings.TrimPrefix(v, "v"))
	}
	return c, nil
}

// CheckVersion reports whether a document of version v can run when the
// host requires at least minimum. An empty minimum accepts any version of
// the current major.
func CheckVersion(v, minimum string) error {
	got, err := canonical(v)
	if err != nil {
		return errors.New("document.CheckVersion", errors.KindDocument, err)
	}
	current, _ := canonical(CurrentVersion)
	if semver.Major(got) != semver.Major(current) || semver.Compare(got, current) > 0 {
		return errors.New("document.CheckVersion", errors.KindDocument,
			fmt.Errorf("%w: %s is not supported by runtime %s", errors.ErrUnsupportedVersion, v, CurrentVersion))
	}
	if minimum == "" {
		return nil
	}
	floor, err := canonical(minimum)
	if err != nil {
		return errors.New("document.CheckVersion", errors.KindConfig, err)
	}
	if semver.Compare(got, floor) < 0 {
		return errors.New("document.CheckVersion", errors.KindDocument,
			fmt.Errorf("%w: %s is older than %s", errors.ErrUnsupportedVersion, v, minimum))
	}
	return nil
}
