// Package facts discovers host metadata included in every heartbeat (spec
// §6: "agent_version, arch, processor, runtime, kernel, os, user, ip,
// hostname"). Facts come from the standard library, except the Linux
// kernel release, which is read via golang.org/x/sys/unix (see DESIGN.md).
package facts

import (
	"net"
	"os"
	"os/user"
	"runtime"
)

// Discover collects the host facts map the Supervisor embeds in its
// heartbeat body under the `facts` key (spec §4.5, §6). version is the
// agent's own version string.
func Discover(version string) map[string]interface{} {
	f := map[string]interface{}{
		"agent_version": version,
		"arch":          runtime.GOARCH,
		"processor":     runtime.GOARCH,
		"runtime":       runtime.Version(),
		"kernel":        kernelVersion(),
		"os":            runtime.GOOS,
		"user":          currentUser(),
		"ip":            primaryIP(),
		"hostname":      hostname(),
	}
	return f
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return ""
	}
	return h
}

func currentUser() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return u.Username
}

// primaryIP returns the first non-loopback unicast IPv4 address found on
// any interface, or "" if none is available.
func primaryIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return ""
}
