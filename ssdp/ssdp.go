// Package ssdp implements the discovery side of SSDP: it multicasts
// M-SEARCH requests on every usable interface and collects the Location
// URLs devices answer with.
package ssdp

import (
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"gargoton.petite-maison-orange.fr/eric/pmocontrol/netutils"
	"gargoton.petite-maison-orange.fr/eric/pmocontrol/upnp"
)

const (
	SsdpAddr = "239.255.255.250"
	Port     = 1900
	// MX is the maximum response delay devices are asked to spread their
	// answers over.
	MX = 2

	STAll        = "ssdp:all"
	STRootDevice = "upnp:rootdevice"
)

var locationRe = regexp.MustCompile(`(?i)LOCATION: *(\S+)`)

// Entry is one discovery response, reduced to the description URL it
// points at.
type Entry struct {
	Location string
}

// BuildMSearch renders an M-SEARCH request for the given search target.
func BuildMSearch(st string, mx int) []byte {
	return []byte(strings.Join([]string{
		"M-SEARCH * HTTP/1.1",
		fmt.Sprintf("ST: %s", st),
		fmt.Sprintf("MX: %d", mx),
		`MAN: "ssdp:discover"`,
		fmt.Sprintf("HOST: %s:%d", SsdpAddr, Port),
		"",
		"",
	}, "\r\n"))
}

// Scan multicasts M-SEARCH requests (ssdp:all and upnp:rootdevice) from
// every IPv4 address of the host and gathers responses until timeout
// expires. Duplicate locations are collapsed.
func Scan(timeout time.Duration) []Entry {
	target := &net.UDPAddr{IP: net.ParseIP(SsdpAddr), Port: Port}
	requests := [][]byte{BuildMSearch(STAll, MX), BuildMSearch(STRootDevice, MX)}
	deadline := time.Now().Add(timeout)

	addrs := netutils.ListIPv4Addresses()
	if len(addrs) == 0 {
		addrs = []string{netutils.GuessLocalIP()}
	}

	seen := make(map[string]bool)
	var entries []Entry

	for _, addr := range addrs {
		conn, err := net.ListenPacket("udp4", addr+":0")
		if err != nil {
			log.Warnf("❌ SSDP: cannot bind %s: %v", addr, err)
			continue
		}

		for _, req := range requests {
			if _, err := conn.WriteTo(req, target); err != nil {
				log.Warnf("❌ SSDP: send failed on %s: %v", addr, err)
			}
		}

		conn.SetReadDeadline(deadline)
		buf := make([]byte, 8192)
		for {
			n, src, err := conn.ReadFrom(buf)
			if err != nil {
				if ne, ok := err.(net.Error); !ok || !ne.Timeout() {
					log.Warnf("❌ SSDP: read error on %s: %v", addr, err)
				}
				break
			}

			m := locationRe.FindSubmatch(buf[:n])
			if m == nil {
				continue
			}
			location := strings.TrimSpace(string(m[1]))
			if seen[location] {
				continue
			}
			seen[location] = true
			log.Debugf("🐞 SSDP: %s announced by %v", location, src)
			entries = append(entries, Entry{Location: location})
		}
		conn.Close()
	}

	return entries
}

// Discover scans the network and builds a Device for every unique
// location. Locations that cannot be fetched or parsed are logged and
// skipped; a single broken device does not abort discovery. A timeout of
// zero uses the configured default.
func Discover(timeout time.Duration, opts ...upnp.DeviceOption) []*upnp.Device {
	if timeout <= 0 {
		timeout = upnp.GetConfig().GetDiscoverTimeout()
	}

	var devices []*upnp.Device
	for _, entry := range Scan(timeout) {
		device, err := upnp.NewDevice(entry.Location, opts...)
		if err != nil {
			log.Warnf("❌ SSDP: skipping %s: %v", entry.Location, err)
			continue
		}
		log.Infof("✅ Discovered %s (%s)", device.FriendlyName, entry.Location)
		devices = append(devices, device)
	}
	return devices
}
