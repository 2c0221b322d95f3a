package netutil

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeIP_MappedIPv4(t *testing.T) {
	mapped := net.ParseIP("::ffff:192.0.2.1")
	require.NotNil(t, mapped)
	require.Len(t, mapped, net.IPv6len, "ParseIP should keep the mapped form 16 bytes wide")

	got := NormalizeIP(mapped)
	assert.Len(t, got, net.IPv4len)
	assert.Equal(t, "192.0.2.1", got.String())
}

func TestNormalizeIP_LeavesRealIPv6Alone(t *testing.T) {
	v6 := net.ParseIP("2001:db8::1")
	require.NotNil(t, v6)

	got := NormalizeIP(v6)
	assert.Equal(t, v6, got)
}

func TestNormalizeIP_LeavesIPv4Alone(t *testing.T) {
	v4 := net.IP{192, 0, 2, 7}
	got := NormalizeIP(v4)
	assert.Equal(t, v4, got)
}

func TestNormalizeIP_Nil(t *testing.T) {
	assert.Nil(t, NormalizeIP(nil))
}

func TestNormalizeTCPAddr(t *testing.T) {
	orig := &net.TCPAddr{IP: net.ParseIP("::ffff:10.0.0.9"), Port: 8443, Zone: ""}
	got := NormalizeTCPAddr(orig)

	require.NotNil(t, got)
	assert.Equal(t, "10.0.0.9:8443", got.String())
	// The input must not be mutated.
	assert.Len(t, orig.IP, net.IPv6len)
	assert.NotSame(t, orig, got)
}

func TestNormalizeTCPAddr_Nil(t *testing.T) {
	assert.Nil(t, NormalizeTCPAddr(nil))
}

func TestNormalizeAddr(t *testing.T) {
	tcp := &net.TCPAddr{IP: net.ParseIP("::ffff:203.0.113.5"), Port: 80}
	gotTCP := NormalizeAddr(tcp)
	require.IsType(t, &net.TCPAddr{}, gotTCP)
	assert.Equal(t, "203.0.113.5:80", gotTCP.String())

	udp := &net.UDPAddr{IP: net.ParseIP("::ffff:203.0.113.6"), Port: 53}
	gotUDP := NormalizeAddr(udp)
	require.IsType(t, &net.UDPAddr{}, gotUDP)
	assert.Equal(t, "203.0.113.6:53", gotUDP.String())

	unix := &net.UnixAddr{Name: "/tmp/s.sock", Net: "unix"}
	assert.Same(t, net.Addr(unix), NormalizeAddr(unix))
}
