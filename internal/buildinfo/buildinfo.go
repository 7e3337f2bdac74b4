package buildinfo

import (
	"runtime/debug"
)

const name = "relpick"

// Version returns the module version or "dev" when unset.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return "dev"
	}
	version := info.Main.Version
	if version == "" || version == "(devel)" {
		return "dev"
	}
	return version
}

// Revision returns the short VCS revision recorded at build time, if any.
func Revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			if len(setting.Value) > 12 {
				return setting.Value[:12]
			}
			return setting.Value
		}
	}
	return ""
}

// String is the human readable version, e.g. "relpick v1.2.0 (abc123def456)".
func String() string {
	s := name + " " + Version()
	if rev := Revision(); rev != "" {
		s += " (" + rev + ")"
	}
	return s
}

// UserAgent is sent with every tracker request.
func UserAgent() string {
	return name + "/" + Version()
}
