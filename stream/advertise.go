// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"fmt"
	"net"
	"strconv"

	"github.com/hashicorp/mdns"
)

// ServiceType is the DNS-SD type the capture stream is announced under.
const ServiceType = "_avdevice._tcp"

// Announcement describes the stream to mDNS browsers.
type Announcement struct {
	Instance   string
	Port       int
	Path       string
	SampleRate int
	Channels   int
}

func (a Announcement) txt() []string {
	return []string{
		"path=" + a.Path,
		"rate=" + strconv.Itoa(a.SampleRate),
		"channels=" + strconv.Itoa(a.Channels),
		"encoding=" + Encoding,
	}
}

func (a Announcement) service(ips []net.IP) (*mdns.MDNSService, error) {
	svc, err := mdns.NewMDNSService(a.Instance, ServiceType, "", "", a.Port, ips, a.txt())
	if err != nil {
		return nil, fmt.Errorf("mdns service: %w", err)
	}
	return svc, nil
}

// Advertiser answers mDNS queries for one announcement until Shutdown.
type Advertiser struct {
	server *mdns.Server
}

// Advertise announces a on every non-loopback IPv4 address of the machine.
func Advertise(a Announcement) (*Advertiser, error) {
	ips, err := localIPs()
	if err != nil {
		return nil, err
	}
	if len(ips) == 0 {
		return nil, ErrNoAddress
	}
	svc, err := a.service(ips)
	if err != nil {
		return nil, err
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: svc})
	if err != nil {
		return nil, fmt.Errorf("mdns server: %w", err)
	}
	return &Advertiser{server: server}, nil
}

func (a *Advertiser) Shutdown() error {
	return a.server.Shutdown()
}

func localIPs() ([]net.IP, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var ips []net.IP
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && ipnet.IP.To4() != nil && !ipnet.IP.IsLoopback() {
				ips = append(ips, ipnet.IP)
			}
		}
	}
	return ips, nil
}
