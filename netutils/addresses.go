package netutils

import "net"

// ListIPv4Addresses returns the usable IPv4 addresses of every interface
// that is up, loopback excluded. Discovery binds one socket per address so
// that multicast requests leave through every network the host sits on.
func ListIPv4Addresses() []string {
	var result []string

	ifaces, err := net.Interfaces()
	if err != nil {
		return result
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			if ip == nil || ip.To4() == nil || ip.IsLoopback() {
				continue
			}
			result = append(result, ip.String())
		}
	}

	return result
}

// GuessLocalIP returns the IPv4 address the host would use to reach the
// outside, falling back on loopback when there is no route.
func GuessLocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()

	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}
