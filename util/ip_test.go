package util

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubnets(t *testing.T) {
	subnets, err := ParseSubnets([]string{"192.0.2.0/24", "198.51.100.7", "2001:db8::1"})
	require.NoError(t, err)
	require.Len(t, subnets, 3)
	assert.Equal(t, "192.0.2.0/24", subnets[0].String())
	assert.Equal(t, "198.51.100.7/32", subnets[1].String())
	assert.Equal(t, "2001:db8::1/128", subnets[2].String())

	_, err = ParseSubnets([]string{"not-an-ip"})
	assert.Error(t, err)
}

func TestContainsIP(t *testing.T) {
	subnets, err := ParseSubnets([]string{"192.0.2.0/24"})
	require.NoError(t, err)

	assert.True(t, ContainsIP(subnets, net.ParseIP("192.0.2.200")))
	assert.True(t, ContainsIP(subnets, net.ParseIP("::ffff:192.0.2.1")), "IPv4-mapped addresses match")
	assert.False(t, ContainsIP(subnets, net.ParseIP("198.51.100.1")))
	assert.False(t, ContainsIP(nil, net.ParseIP("192.0.2.1")))
}
