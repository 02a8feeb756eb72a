package version

import (
	"runtime/debug"
)

// revisionLen is how much of the VCS revision a devel version keeps
const revisionLen = 12

// Resolve picks the version to report. A stamped release version wins; a
// build without one falls back to the module version recorded by go install,
// then to devel+<revision>[+dirty] from the VCS stamp.
func Resolve(stamped string) string {
	if stamped != "" && stamped != "dev" {
		return stamped
	}
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return stamped
	}
	return fromBuildInfo(stamped, info)
}

func fromBuildInfo(stamped string, info *debug.BuildInfo) string {
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	vcs := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		vcs[s.Key] = s.Value
	}
	rev := vcs["vcs.revision"]
	if rev == "" {
		return stamped
	}
	if len(rev) > revisionLen {
		rev = rev[:revisionLen]
	}
	v := "devel+" + rev
	if vcs["vcs.modified"] == "true" {
		v += "+dirty"
	}
	return v
}
