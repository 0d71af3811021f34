package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Instance is a coachsite server found on the network.
type Instance struct {
	// Name is the mDNS instance name (e.g., "studio")
	Name string

	// Hostname is the mDNS hostname (e.g., "studio-mac.local.")
	Hostname string

	// IP is the preferred address, IPv4 when one was advertised
	IP string

	Port int

	// Path is the site root from the TXT record
	Path string

	// Version is the server build version from the TXT record
	Version string

	// Metadata contains every TXT record entry
	Metadata map[string]string

	DiscoveredAt time.Time
}

// String returns a human-readable description of the instance
func (i *Instance) String() string {
	return fmt.Sprintf("%s (%s) at %s", i.Name, i.Hostname, i.URL())
}

// URL returns the site URL for the instance
func (i *Instance) URL() string {
	path := i.Path
	if path == "" {
		path = "/"
	}
	return "http://" + net.JoinHostPort(i.IP, strconv.Itoa(i.Port)) + path
}
