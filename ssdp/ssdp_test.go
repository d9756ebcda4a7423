package ssdp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMSearch(t *testing.T) {
	msg := string(BuildMSearch(STAll, 2))

	lines := strings.Split(msg, "\r\n")
	require.GreaterOrEqual(t, len(lines), 6)
	assert.Equal(t, "M-SEARCH * HTTP/1.1", lines[0])
	assert.Contains(t, lines, "ST: ssdp:all")
	assert.Contains(t, lines, "MX: 2")
	assert.Contains(t, lines, `MAN: "ssdp:discover"`)
	assert.Contains(t, lines, "HOST: 239.255.255.250:1900")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n"), "request ends with an empty line")
}

func TestLocationPattern(t *testing.T) {
	response := "HTTP/1.1 200 OK\r\n" +
		"CACHE-CONTROL: max-age=1800\r\n" +
		"location: http://10.0.0.5:1400/xml/device_description.xml\r\n" +
		"SERVER: Linux UPnP/1.0 Sonos/70.3\r\n" +
		"ST: upnp:rootdevice\r\n\r\n"

	m := locationRe.FindStringSubmatch(response)
	require.NotNil(t, m, "header name matches case-insensitively")
	assert.Equal(t, "http://10.0.0.5:1400/xml/device_description.xml", m[1])

	assert.Nil(t, locationRe.FindStringSubmatch("HTTP/1.1 200 OK\r\n\r\n"))
}
