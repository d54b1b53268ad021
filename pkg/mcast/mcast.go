// mcast sets up the UDP multicast sockets for the tester roles.
package mcast

import (
	"context"
	"fmt"
	"net"
	"syscall"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"
)

// interfaceByAddr finds the network interface carrying the given
// local IPv4 address.
func interfaceByAddr(addr net.IP) (*net.Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	for i, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if ok && ipnet.IP.Equal(addr) {
				return &ifaces[i], nil
			}
		}
	}
	return nil, fmt.Errorf("no interface has address %s", addr)
}

// Listen creates the receiver socket: bound to port on all interfaces,
// joined to the multicast group, with the requested kernel receive
// buffer. An empty ifaceAddr joins on the system chosen interface.
func Listen(group net.IP, port int, ifaceAddr net.IP, rcvBufSize int) (*net.UDPConn, error) {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var serr error
			err := c.Control(func(fd uintptr) {
				// Several receivers may share the port on one host.
				serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			})
			if err != nil {
				return err
			}
			return serr
		},
	}

	pconn, err := lc.ListenPacket(context.Background(), "udp4", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("binding port %d: %w", port, err)
	}
	conn := pconn.(*net.UDPConn)

	if err := conn.SetReadBuffer(rcvBufSize); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting receive buffer: %w", err)
	}

	var iface *net.Interface
	if ifaceAddr != nil {
		iface, err = interfaceByAddr(ifaceAddr)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("resolving join interface: %w", err)
		}
	}

	pc := ipv4.NewPacketConn(conn)
	if err := pc.JoinGroup(iface, &net.UDPAddr{IP: group}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("joining group %s: %w", group, err)
	}

	return conn, nil
}

// Dial creates the transmitter socket: a connected UDP socket to
// group:port, sending via the interface owning ifaceAddr, with the
// given multicast TTL.
func Dial(group net.IP, port int, ifaceAddr net.IP, ttl int) (*net.UDPConn, error) {
	local := &net.UDPAddr{IP: ifaceAddr}
	remote := &net.UDPAddr{IP: group, Port: port}

	conn, err := net.DialUDP("udp4", local, remote)
	if err != nil {
		return nil, fmt.Errorf("dialing %s from %s: %w", remote, ifaceAddr, err)
	}

	iface, err := interfaceByAddr(ifaceAddr)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("resolving outgoing interface: %w", err)
	}

	pc := ipv4.NewPacketConn(conn)
	if err := pc.SetMulticastInterface(iface); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting outgoing interface: %w", err)
	}
	if err := pc.SetMulticastTTL(ttl); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting multicast TTL: %w", err)
	}

	return conn, nil
}
