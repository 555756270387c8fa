// ABOUTME: mDNS service discovery for studio servers
// ABOUTME: Advertises a running studio and browses the LAN for others
package discovery

import (
	"context"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the DNS-SD type studio servers advertise
const ServiceType = "_ttsstudio._tcp"

// DefaultBrowseTimeout bounds one browse round
const DefaultBrowseTimeout = 3 * time.Second

// Config holds discovery configuration
type Config struct {
	ServiceName string
	Port        int
	Version     string
}

// Manager handles mDNS operations
type Manager struct {
	config Config
	ctx    context.Context
	cancel context.CancelFunc
}

// ServerInfo describes a discovered studio
type ServerInfo struct {
	Name    string
	Host    string
	Port    int
	Version string
}

// URL returns the studio's base HTTP address
func (s ServerInfo) URL() string {
	return fmt.Sprintf("http://%s", net.JoinHostPort(s.Host, fmt.Sprint(s.Port)))
}

// NewManager creates a discovery manager
func NewManager(config Config) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Advertise announces this studio via mDNS until Stop is called
func (m *Manager) Advertise() error {
	if m.config.Port <= 0 {
		return fmt.Errorf("invalid port: %d", m.config.Port)
	}

	ips, err := getLocalIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(
		m.config.ServiceName,
		ServiceType,
		"",
		"",
		m.config.Port,
		ips,
		txtRecords(m.config),
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}

	log.Printf("Advertising mDNS service: %s on port %d (type: %s)", m.config.ServiceName, m.config.Port, ServiceType)

	go func() {
		<-m.ctx.Done()
		server.Shutdown()
	}()

	return nil
}

// Browse runs one query round and returns the studios that answered
func Browse(ctx context.Context, timeout time.Duration) ([]ServerInfo, error) {
	if timeout <= 0 {
		timeout = DefaultBrowseTimeout
	}

	entries := make(chan *mdns.ServiceEntry, 16)
	var found []ServerInfo
	done := make(chan struct{})

	go func() {
		defer close(done)
		seen := make(map[string]bool)
		for entry := range entries {
			info, ok := serverFromEntry(entry)
			if !ok || seen[info.Name] {
				continue
			}
			seen[info.Name] = true
			log.Printf("Discovered studio: %s at %s:%d", info.Name, info.Host, info.Port)
			found = append(found, info)
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Domain = "local"
	params.Timeout = timeout
	params.Entries = entries
	params.DisableIPv6 = true

	errChan := make(chan error, 1)
	go func() {
		errChan <- mdns.Query(params)
	}()

	var err error
	select {
	case err = <-errChan:
	case <-ctx.Done():
		// Query has its own timeout; wait for it so entries can be closed safely
		err = <-errChan
		if err == nil {
			err = ctx.Err()
		}
	}
	close(entries)
	<-done

	if err != nil {
		return found, fmt.Errorf("mdns query failed: %w", err)
	}
	return found, nil
}

// Stop stops advertising
func (m *Manager) Stop() {
	m.cancel()
}

func txtRecords(config Config) []string {
	txt := []string{"path=/api"}
	if config.Version != "" {
		txt = append(txt, "version="+config.Version)
	}
	return txt
}

// serverFromEntry converts a query answer into ServerInfo
func serverFromEntry(entry *mdns.ServiceEntry) (ServerInfo, bool) {
	if entry == nil || entry.Port <= 0 {
		return ServerInfo{}, false
	}

	info := ServerInfo{
		Name: strings.TrimSuffix(entry.Name, "."+ServiceType+".local."),
		Port: entry.Port,
	}
	switch {
	case entry.AddrV4 != nil:
		info.Host = entry.AddrV4.String()
	case entry.AddrV6 != nil:
		info.Host = entry.AddrV6.String()
	default:
		return ServerInfo{}, false
	}

	for _, field := range entry.InfoFields {
		if v, ok := strings.CutPrefix(field, "version="); ok {
			info.Version = v
		}
	}

	return info, true
}

// getLocalIPs returns local IP addresses
func getLocalIPs() ([]net.IP, error) {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					ips = append(ips, ipnet.IP)
				}
			}
		}
	}

	return ips, nil
}
