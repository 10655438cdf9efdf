package domain

import "strings"

// OSFamily identifies the operating system family used to pick temp locations
type OSFamily string

const (
	OSWindows OSFamily = "windows"
	OSLinux   OSFamily = "linux"
	OSDarwin  OSFamily = "darwin"
)

// ParseOSFamily maps a GOOS-style name to a family; unknown names yield ""
func ParseOSFamily(goos string) OSFamily {
	switch OSFamily(strings.ToLower(goos)) {
	case OSWindows:
		return OSWindows
	case OSLinux:
		return OSLinux
	case OSDarwin:
		return OSDarwin
	default:
		return ""
	}
}

// IsKnown reports whether the family has a temp-location table
func (f OSFamily) IsKnown() bool {
	return f == OSWindows || f == OSLinux || f == OSDarwin
}
