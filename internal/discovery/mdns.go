package discovery

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/coachsite/internal/logging"
)

const (
	// ServiceType is the mDNS service type the site advertises
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for a scan
	DefaultScanTimeout = 5 * time.Second

	// AppName is the TXT app value identifying coachsite servers
	AppName = "coachsite"
)

// TXT record keys.
const (
	txtApp     = "app"
	txtPath    = "path"
	txtVersion = "version"
)

// Announcer keeps an mDNS registration alive until Shutdown.
type Announcer struct {
	server *zeroconf.Server
	name   string
	port   int
}

// TXTRecord builds the TXT entries advertised for a server.
func TXTRecord(version string) []string {
	return []string{
		txtApp + "=" + AppName,
		txtPath + "=/",
		txtVersion + "=" + version,
	}
}

// Announce registers the site as instance on port on every multicast interface.
func Announce(instance string, port int, version string) (*Announcer, error) {
	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, TXTRecord(version), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Announcing site over mDNS",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)

	return &Announcer{server: server, name: instance, port: port}, nil
}

// Shutdown withdraws the registration.
func (a *Announcer) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
	logging.Info("mDNS announcement withdrawn", zap.String("instance", a.name))
}

// Scanner finds coachsite servers on the local network
type Scanner struct {
	// Timeout is the maximum time to wait for responses
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan browses for the scanner's timeout and returns every instance found,
// sorted by name.
func (s *Scanner) Scan(ctx context.Context) ([]*Instance, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var (
		mu    sync.Mutex
		found = make(map[string]*Instance)
	)

	go func() {
		for entry := range entries {
			if inst := parseServiceEntry(entry); inst != nil {
				mu.Lock()
				found[inst.Name+"@"+inst.IP] = inst
				mu.Unlock()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()

	instances := make([]*Instance, 0, len(found))
	for _, inst := range found {
		instances = append(instances, inst)
	}
	sort.Slice(instances, func(i, j int) bool {
		if instances[i].Name != instances[j].Name {
			return instances[i].Name < instances[j].Name
		}
		return instances[i].IP < instances[j].IP
	})
	return instances, nil
}

// parseServiceEntry converts a zeroconf service entry to an Instance.
// Returns nil unless the entry is a reachable coachsite server.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Instance {
	if entry == nil {
		return nil
	}

	metadata := parseTXT(entry.Text)
	if metadata[txtApp] != AppName {
		return nil
	}

	ip := preferredIP(entry.AddrIPv4, entry.AddrIPv6)
	if ip == "" || entry.Port == 0 {
		return nil
	}

	return &Instance{
		Name:         entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		Path:         metadata[txtPath],
		Version:      metadata[txtVersion],
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

func parseTXT(text []string) map[string]string {
	metadata := make(map[string]string, len(text))
	for _, txt := range text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}
	return metadata
}

func preferredIP(v4, v6 []net.IP) string {
	if len(v4) > 0 {
		return v4[0].String()
	}
	if len(v6) > 0 {
		return v6[0].String()
	}
	return ""
}
