/*
Package cmm is the interpolation core of a colour management module.

Lookup tables sampled on regular grids are evaluated by the routines in
prism/interp, in both 16-bit fixed point and float32 representations, for
one to fifteen input channels. prism/pipeline chains tone curves,
matrices and lookup tables into pipelines whose channel counts are checked
when they are assembled, and prism/transform applies such pipelines to
pixel buffers and images using all available CPUs.
*/
package cmm

import "fmt"

type CMMVersion struct {
	Major, Minor, Patch uint
}

func (v CMMVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v CMMVersion) Equal(o CMMVersion) bool {
	return v == o
}

func (v CMMVersion) After(o CMMVersion) bool {
	switch {
	case v.Major != o.Major:
		return v.Major > o.Major
	case v.Minor != o.Minor:
		return v.Minor > o.Minor
	}
	return v.Patch > o.Patch
}

func (v CMMVersion) Before(o CMMVersion) bool {
	return !v.Equal(o) && !v.After(o)
}

var Version = CMMVersion{0, 3, 0}
