package upnp

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deviceDescription = `<?xml version="1.0"?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
  <specVersion><major>1</major><minor>0</minor></specVersion>
  <device>
    <deviceType>urn:schemas-upnp-org:device:MediaRenderer:1</deviceType>
    <friendlyName>Living Room Speaker</friendlyName>
    <manufacturer>ACME</manufacturer>
    <manufacturerURL>http://acme.example.com</manufacturerURL>
    <modelDescription>Networked loudspeaker</modelDescription>
    <modelName>Blaster 3000</modelName>
    <modelNumber>BL-3000</modelNumber>
    <serialNumber>0042</serialNumber>
    <UDN>uuid:2fac1234-31f8-11b4-a222-08002b34c003</UDN>
    <serviceList>
      <service>
        <serviceType>urn:schemas-upnp-org:service:RenderingControl:1</serviceType>
        <serviceId>urn:upnp-org:serviceId:RenderingControl</serviceId>
        <controlURL>/control/rendering</controlURL>
        <SCPDURL>/scpd/rendering.xml</SCPDURL>
        <eventSubURL>/events/rendering</eventSubURL>
      </service>
    </serviceList>
  </device>
</root>`

const renderingSCPD = `<?xml version="1.0"?>
<scpd xmlns="urn:schemas-upnp-org:service-1-0">
  <specVersion><major>1</major><minor>0</minor></specVersion>
  <actionList>
    <action>
      <name>GetVolume</name>
      <argumentList>
        <argument>
          <name>InstanceID</name>
          <direction>in</direction>
          <relatedStateVariable>A_ARG_TYPE_InstanceID</relatedStateVariable>
        </argument>
        <argument>
          <name>Channel</name>
          <direction>in</direction>
          <relatedStateVariable>A_ARG_TYPE_Channel</relatedStateVariable>
        </argument>
        <argument>
          <name>CurrentVolume</name>
          <direction>out</direction>
          <relatedStateVariable>Volume</relatedStateVariable>
        </argument>
      </argumentList>
    </action>
    <action>
      <name>SetVolume</name>
      <argumentList>
        <argument>
          <name>InstanceID</name>
          <direction>in</direction>
          <relatedStateVariable>A_ARG_TYPE_InstanceID</relatedStateVariable>
        </argument>
        <argument>
          <name>Channel</name>
          <direction>in</direction>
          <relatedStateVariable>A_ARG_TYPE_Channel</relatedStateVariable>
        </argument>
        <argument>
          <name>DesiredVolume</name>
          <direction>in</direction>
          <relatedStateVariable>Volume</relatedStateVariable>
        </argument>
      </argumentList>
    </action>
  </actionList>
  <serviceStateTable>
    <stateVariable sendEvents="no">
      <name>A_ARG_TYPE_InstanceID</name>
      <dataType>ui4</dataType>
    </stateVariable>
    <stateVariable sendEvents="no">
      <name>A_ARG_TYPE_Channel</name>
      <dataType>string</dataType>
      <allowedValueList>
        <allowedValue>Master</allowedValue>
        <allowedValue>LF</allowedValue>
        <allowedValue>RF</allowedValue>
      </allowedValueList>
    </stateVariable>
    <stateVariable sendEvents="yes">
      <name>Volume</name>
      <dataType>ui2</dataType>
    </stateVariable>
  </serviceStateTable>
</scpd>`

// newTestDevice spins up an httptest server that plays a one-service
// renderer and builds a Device from it. control handles GetVolume.
func newTestDevice(t *testing.T) (*Device, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/description.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, deviceDescription)
	})
	mux.HandleFunc("/scpd/rendering.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, renderingSCPD)
	})
	mux.HandleFunc("/control/rendering", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
  <s:Body>
    <u:GetVolumeResponse xmlns:u="urn:schemas-upnp-org:service:RenderingControl:1">
      <CurrentVolume>21</CurrentVolume>
    </u:GetVolumeResponse>
  </s:Body>
</s:Envelope>`)
	})
	mux.HandleFunc("/events/rendering", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "SUBSCRIBE":
			if r.Header.Get("SID") == "" {
				w.Header().Set("SID", "uuid:subscription-1")
				w.Header().Set("TIMEOUT", "Second-1800")
			} else {
				w.Header().Set("TIMEOUT", "Second-infinite")
			}
		case "UNSUBSCRIBE":
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	device, err := NewDevice(server.URL+"/description.xml", WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return device, server
}

func TestNewDeviceParsesDescription(t *testing.T) {
	device, server := newTestDevice(t)

	assert.Equal(t, server.URL+"/description.xml", device.Location())
	assert.Equal(t, "Living Room Speaker", device.FriendlyName)
	assert.Equal(t, "ACME", device.Manufacturer)
	assert.Equal(t, "Blaster 3000", device.ModelName)
	assert.Equal(t, "uuid:2fac1234-31f8-11b4-a222-08002b34c003", device.UDN)
	assert.Equal(t, "urn:schemas-upnp-org:device:MediaRenderer:1", device.DeviceType)

	require.Len(t, device.Services(), 1)
	assert.Len(t, device.Actions(), 2)
}

func TestDeviceFindService(t *testing.T) {
	device, _ := newTestDevice(t)

	svc := device.FindService("RenderingControl")
	require.NotNil(t, svc)
	assert.Equal(t, "RenderingControl", svc.Name())
	assert.Equal(t, "urn:schemas-upnp-org:service:RenderingControl:1", svc.ServiceType())

	assert.Nil(t, device.FindService("ContentDirectory"))
}

func TestServiceStateVariables(t *testing.T) {
	device, _ := newTestDevice(t)
	svc := device.FindService("RenderingControl")
	require.NotNil(t, svc)

	volume := svc.StateVariable("Volume")
	require.NotNil(t, volume)
	assert.Equal(t, StateType_UI2, volume.Type())
	assert.True(t, volume.IsSendingEvents())

	channel := svc.StateVariable("A_ARG_TYPE_Channel")
	require.NotNil(t, channel)
	assert.False(t, channel.IsSendingEvents())
	assert.Equal(t, []string{"Master", "LF", "RF"}, channel.AllowedValues())

	assert.Nil(t, svc.StateVariable("Mute"))
}

func TestDeviceFindAction(t *testing.T) {
	device, _ := newTestDevice(t)

	action := device.FindAction("GetVolume")
	require.NotNil(t, action)
	assert.Equal(t, "GetVolume", action.Name())
	require.Len(t, action.InputArguments(), 2)
	assert.Equal(t, "InstanceID", action.InputArguments()[0].Name())
	assert.Equal(t, "Channel", action.InputArguments()[1].Name())
	require.Len(t, action.OutputArguments(), 1)

	assert.Nil(t, device.FindAction("Browse"))
}

func TestInvokeThroughDevice(t *testing.T) {
	device, _ := newTestDevice(t)

	results, err := device.FindAction("GetVolume").Invoke(Args{
		"InstanceID": "0",
		"Channel":    "Master",
	})
	require.NoError(t, err)
	assert.Equal(t, uint16(21), results["CurrentVolume"])
}

func TestInvokeByName(t *testing.T) {
	device, _ := newTestDevice(t)

	results, err := InvokeByName(device, "GetVolume", Args{
		"InstanceID": "0",
		"Channel":    "Master",
	})
	require.NoError(t, err)
	assert.Equal(t, uint16(21), results["CurrentVolume"])

	// The channel list from the SCPD constrains the call.
	_, err = InvokeByName(device, "GetVolume", Args{
		"InstanceID": "0",
		"Channel":    "Surround",
	})
	var invalid *ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reasons, "Channel")

	_, err = InvokeByName(device, "NoSuchAction", Args{})
	var unknown *InvalidActionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "NoSuchAction", unknown.Name)
}

func TestServiceSubscriptionLifecycle(t *testing.T) {
	device, _ := newTestDevice(t)
	svc := device.FindService("RenderingControl")
	require.NotNil(t, svc)

	sid, timeout, err := svc.Subscribe("http://10.0.0.2:8080/callback", 1800)
	require.NoError(t, err)
	assert.Equal(t, "uuid:subscription-1", sid)
	assert.Equal(t, 1800, timeout)

	timeout, err = svc.RenewSubscription(sid, 0)
	require.NoError(t, err)
	assert.Equal(t, -1, timeout, "Second-infinite maps to -1")

	require.NoError(t, svc.CancelSubscription(sid))
}
