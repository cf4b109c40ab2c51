package host

import (
	"net"
	"os"
)

var Hostip string
var Hostname string

func init() {
	Hostname = os.Getenv("HOSTNAME")
	if Hostname == "" {
		if name, e := os.Hostname(); e == nil && name != "" {
			Hostname = name
		} else {
			Hostname = "unknown"
		}
	}
	for _, env := range []string{"HOSTIP", "HOST_IP", "PODIP", "POD_IP", "LOCALIP", "LOCAL_IP"} {
		if Hostip = os.Getenv(env); Hostip != "" {
			return
		}
	}
	Hostip = firstip()
}

// firstip returns the first non loopback ipv4 address
func firstip() string {
	addrs, e := net.InterfaceAddrs()
	if e != nil {
		return "unknown"
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String()
		}
	}
	return "unknown"
}
