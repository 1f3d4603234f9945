package host

import (
	"os"
	"strconv"
	"strings"

	"github.com/bft-labs/devicereport/internal/domain"
)

// ARPHRD_ETHER in /sys/class/net/<iface>/type.
const arphrdEther = "1"

// connection describes the interface carrying the default route, or the
// pinned interface. Nil when none can be found.
func (s *Source) connection() *domain.Connection {
	iface := s.iface
	if iface == "" {
		iface = s.defaultRouteInterface()
	}
	if iface == "" {
		return nil
	}
	if _, err := os.Stat(s.path("sys/class/net/" + iface)); err != nil {
		return nil
	}

	c := &domain.Connection{EffectiveType: s.interfaceType(iface)}
	if speed, err := strconv.ParseFloat(s.readLine("sys/class/net/"+iface+"/speed"), 64); err == nil && speed > 0 {
		c.DownlinkMbps = &speed
	}
	return c
}

// defaultRouteInterface scans /proc/net/route for the 0.0.0.0 destination.
func (s *Source) defaultRouteInterface() string {
	b, err := os.ReadFile(s.path("proc/net/route"))
	if err != nil {
		return ""
	}
	lines := strings.Split(string(b), "\n")
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == "00000000" {
			return fields[0]
		}
	}
	return ""
}

func (s *Source) interfaceType(iface string) string {
	if _, err := os.Stat(s.path("sys/class/net/" + iface + "/wireless")); err == nil {
		return "wifi"
	}
	if s.readLine("sys/class/net/"+iface+"/type") == arphrdEther {
		return "ethernet"
	}
	return "other"
}
