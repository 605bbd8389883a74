//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"net/netip"

	psnet "github.com/shirou/gopsutil/v3/net"
)

// ErrNoDeviceKey is returned when the host's device key cannot be determined.
// The deployment is broken when this happens, so callers do not retry.
var ErrNoDeviceKey = errors.New("cannot determine device key")

// InterfaceLister returns the host's network interfaces.
type InterfaceLister func(ctx context.Context) (psnet.InterfaceStatList, error)

// DetectDeviceKey returns the first IPv4 address of the named interface, e.g. "10.12.80.12".
func DetectDeviceKey(ctx context.Context, iface string) (string, error) {
	return detectDeviceKey(ctx, iface, psnet.InterfacesWithContext)
}

// detectDeviceKey is DetectDeviceKey with an injectable interface source.
func detectDeviceKey(ctx context.Context, iface string, list InterfaceLister) (string, error) {
	interfaces, err := list(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: list interfaces: %w", ErrNoDeviceKey, err)
	}

	for _, candidate := range interfaces {
		if candidate.Name != iface {
			continue
		}

		for _, address := range candidate.Addrs {
			// gopsutil reports addresses in CIDR form.
			prefix, err := netip.ParsePrefix(address.Addr)
			if err != nil {
				continue
			}

			if ip := prefix.Addr(); ip.Is4() {
				return ip.String(), nil
			}
		}

		return "", fmt.Errorf("%w: interface %s has no IPv4 address", ErrNoDeviceKey, iface)
	}

	return "", fmt.Errorf("%w: interface %s not found", ErrNoDeviceKey, iface)
}
