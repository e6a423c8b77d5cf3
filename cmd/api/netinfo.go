package main

import (
	"fmt"
	"net"
)

// lanAddress returns the first non-loopback IPv4 address, or "localhost".
func lanAddress() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "localhost"
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if v4 := ipNet.IP.To4(); v4 != nil {
			return v4.String()
		}
	}
	return "localhost"
}

// accessURLs derives the local and LAN base URLs for a listen address.
func accessURLs(listenAddr string) (local, lan string) {
	_, port, err := net.SplitHostPort(listenAddr)
	if err != nil || port == "" {
		port = "80"
	}
	return fmt.Sprintf("http://localhost:%s", port), fmt.Sprintf("http://%s:%s", lanAddress(), port)
}
