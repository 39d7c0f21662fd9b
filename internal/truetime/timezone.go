package truetime

import (
	"os"
	"strings"
	"time"
)

const UTC = "UTC"

// Zone is the timezone day boundaries are computed in. A zone whose name
// could not be loaded keeps the name and has no location; callers then
// fall back to UTC dates.
type Zone struct {
	name string
	loc  *time.Location
}

func (z Zone) Name() string {
	if z.name == "" {
		return UTC
	}
	return z.name
}

func (z Zone) Location() (*time.Location, bool) {
	if z.loc == nil {
		return nil, false
	}
	return z.loc, true
}

func UTCZone() Zone {
	return Zone{name: UTC, loc: time.UTC}
}

func LoadZone(name string) (Zone, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Zone{name: name}, err
	}
	return Zone{name: name, loc: loc}, nil
}

// ResolveZone picks the zone name from configuration or the host
// environment and loads it.
func ResolveZone(configured string) (Zone, error) {
	return LoadZone(hostLookup.zoneName(configured))
}

type zoneLookup struct {
	env      func(string) string
	readlink func(string) (string, error)
	local    func() *time.Location
}

var hostLookup = zoneLookup{
	env:      os.Getenv,
	readlink: os.Readlink,
	local:    func() *time.Location { return time.Local },
}

// zoneName returns the first IANA name found in: the configured value, $TZ,
// the /etc/localtime link target, the process local zone. UTC otherwise.
func (l zoneLookup) zoneName(configured string) string {
	if name := strings.TrimSpace(configured); name != "" {
		return name
	}
	if name := zoneFromPath(strings.TrimPrefix(l.env("TZ"), ":")); name != "" {
		return name
	}
	if target, err := l.readlink("/etc/localtime"); err == nil {
		if _, after, found := strings.Cut(target, "zoneinfo/"); found && after != "" {
			return after
		}
	}
	if loc := l.local(); loc != nil {
		if name := loc.String(); name != "" && name != "Local" {
			return name
		}
	}
	return UTC
}

func zoneFromPath(tz string) string {
	tz = strings.TrimSpace(tz)
	if _, after, found := strings.Cut(tz, "zoneinfo/"); found {
		return after
	}
	if strings.HasPrefix(tz, "/") {
		return ""
	}
	return tz
}
