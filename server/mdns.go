package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service advertised by Advertise.
const ServiceType = "_turtle._tcp"

// Advertise announces the server on the local network. An empty instance
// uses the host name. Call Shutdown on the result to withdraw it.
func Advertise(instance string, port int) (*mdns.Server, error) {
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("could not get hostname: %w", err)
		}
		instance = host
	}

	service, err := mdns.NewMDNSService(instance, ServiceType, "", "", port, nil, []string{"turtle"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}
