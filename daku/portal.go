package daku

import (
	"fmt"
	"strings"
)

// Portal is a capability a module asks the host for.
type Portal uint32

const (
	PortalLog         Portal = 0x00 // stdout logging
	PortalPrompt      Portal = 0x01 // developer command input
	PortalFetch       Portal = 0x02
	PortalServe       Portal = 0x03
	PortalSpeakers    Portal = 0x04
	PortalMicrophone  Portal = 0x05
	PortalScreen      Portal = 0x06
	PortalCamera      Portal = 0x07
	PortalWindow      Portal = 0x08
	PortalSpawn       Portal = 0x09
	PortalUser        Portal = 0x0A // set user information
	PortalPreferences Portal = 0x0B // get user information
	PortalSystem      Portal = 0x0C // create users, settings for all users
	PortalAbout       Portal = 0x0D // system information
	PortalFile        Portal = 0x0E
	PortalHid         Portal = 0x0F
	PortalTimer       Portal = 0x10
	PortalClock       Portal = 0x11
	PortalGpu         Portal = 0x12
	PortalLocation    Portal = 0x13
)

var portalNames = [...]string{
	PortalLog:         "Log",
	PortalPrompt:      "Prompt",
	PortalFetch:       "Fetch",
	PortalServe:       "Serve",
	PortalSpeakers:    "Speakers",
	PortalMicrophone:  "Microphone",
	PortalScreen:      "Screen",
	PortalCamera:      "Camera",
	PortalWindow:      "Window",
	PortalSpawn:       "Spawn",
	PortalUser:        "User",
	PortalPreferences: "Preferences",
	PortalSystem:      "System",
	PortalAbout:       "About",
	PortalFile:        "File",
	PortalHid:         "Hid",
	PortalTimer:       "Timer",
	PortalClock:       "Clock",
	PortalGpu:         "Gpu",
	PortalLocation:    "Location",
}

// Valid reports whether p is a known portal.
func (p Portal) Valid() bool {
	return uint64(p) < uint64(len(portalNames))
}

func (p Portal) String() string {
	if p.Valid() {
		return portalNames[p]
	}
	return fmt.Sprintf("Portal(%#x)", uint32(p))
}

// ParsePortal looks up a portal by name, ignoring case.
func ParsePortal(s string) (Portal, bool) {
	for i, n := range portalNames {
		if strings.EqualFold(n, s) {
			return Portal(i), true
		}
	}
	return 0, false
}

// Category is an application category of the Nucleide extension.
type Category uint8

const (
	CategoryMedia     Category = 0x00 // audio, video, drawing, photos, fonts, 3D
	CategoryOffice    Category = 0x01 // documents and spreadsheets
	CategorySystem    Category = 0x02 // system inspection, tweaking, virtualization
	CategoryCoding    Category = 0x03
	CategoryInternet  Category = 0x04
	CategoryGaming    Category = 0x05
	CategoryScience   Category = 0x06
	CategoryEducation Category = 0x07
	CategoryLife      Category = 0x08 // to-do, calendar, fitness, maps, weather
	CategoryFinance   Category = 0x09
)

var categoryNames = [...]string{
	CategoryMedia:     "Media",
	CategoryOffice:    "Office",
	CategorySystem:    "System",
	CategoryCoding:    "Coding",
	CategoryInternet:  "Internet",
	CategoryGaming:    "Gaming",
	CategoryScience:   "Science",
	CategoryEducation: "Education",
	CategoryLife:      "Life",
	CategoryFinance:   "Finance",
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return int(c) < len(categoryNames)
}

func (c Category) String() string {
	if c.Valid() {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%#x)", uint8(c))
}
