package upnp

import (
	"io"
	"net/http"
	"net/url"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Device represents a UPnP device, built from the description XML the
// device advertises at its location URL (the URL carried in the SSDP
// Location header). Immutable after construction.
type Device struct {
	location   string
	deviceName string

	DeviceType       string
	FriendlyName     string
	Manufacturer     string
	ManufacturerURL  string
	ModelDescription string
	ModelName        string
	ModelNumber      string
	SerialNumber     string
	UDN              string

	urlBase       *url.URL
	ignoreURLBase bool
	httpClient    *http.Client

	authUser string
	authPass string
	hasAuth  bool
	headers  map[string]string

	services   []*Service
	serviceMap map[string]*Service
}

// DeviceOption customizes device construction.
type DeviceOption func(*Device)

// WithHTTPClient supplies the http.Client shared by every exchange with
// the device (description, SCPD, control, eventing). The client owns
// pooling, TLS and timeout policy.
func WithHTTPClient(client *http.Client) DeviceOption {
	return func(d *Device) { d.httpClient = client }
}

// WithBasicAuth sets HTTP basic auth used on every request to the device.
func WithBasicAuth(username, password string) DeviceOption {
	return func(d *Device) {
		d.authUser = username
		d.authPass = password
		d.hasAuth = true
	}
}

// WithDefaultHeaders sets headers sent on every request to the device.
func WithDefaultHeaders(headers map[string]string) DeviceOption {
	return func(d *Device) {
		d.headers = make(map[string]string, len(headers))
		for k, v := range headers {
			d.headers[k] = v
		}
	}
}

// WithDeviceName overrides the name used in logs, which defaults to the
// location URL.
func WithDeviceName(name string) DeviceOption {
	return func(d *Device) { d.deviceName = name }
}

// IgnoreURLBase makes the device ignore a declared URLBase element and
// resolve every relative URL against the description location instead.
// Some devices declare a URLBase that is plain wrong.
func IgnoreURLBase() DeviceOption {
	return func(d *Device) { d.ignoreURLBase = true }
}

// NewDevice downloads and parses the device description at location, then
// builds a Service (with its SCPD) for every declared service.
func NewDevice(location string, opts ...DeviceOption) (*Device, error) {
	dev := &Device{
		location:   location,
		deviceName: location,
		serviceMap: make(map[string]*Service),
	}

	for _, opt := range opts {
		opt(dev)
	}
	if dev.httpClient == nil {
		dev.httpClient = &http.Client{Timeout: GetConfig().GetHTTPTimeout()}
	}

	body, err := dev.fetch(location)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching device description %s", location)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, errors.Wrapf(err, "parsing device description %s", location)
	}

	root := doc.Root()
	if root == nil {
		return nil, errors.Errorf("device description %s has no root element", location)
	}

	dev.DeviceType = findText(root, "device/deviceType")
	dev.FriendlyName = findText(root, "device/friendlyName")
	dev.Manufacturer = findText(root, "device/manufacturer")
	dev.ManufacturerURL = findText(root, "device/manufacturerURL")
	dev.ModelDescription = findText(root, "device/modelDescription")
	dev.ModelName = findText(root, "device/modelName")
	dev.ModelNumber = findText(root, "device/modelNumber")
	dev.SerialNumber = findText(root, "device/serialNumber")
	dev.UDN = findText(root, "device/UDN")

	// The UPnP spec: when no URLBase is given, the base URL is the URL
	// the description was retrieved from.
	base := findText(root, "URLBase")
	if base == "" || dev.ignoreURLBase {
		base = location
	}
	if dev.urlBase, err = url.Parse(base); err != nil {
		return nil, errors.Wrapf(err, "parsing URL base %q", base)
	}

	if err := dev.readServices(root); err != nil {
		return nil, err
	}

	return dev, nil
}

// Location returns the description URL the device was built from.
func (d *Device) Location() string {
	return d.location
}

// Services returns every service the device declares, in description
// order, nested devices included.
func (d *Device) Services() []*Service {
	return append([]*Service(nil), d.services...)
}

// Actions returns the actions of all services of the device.
func (d *Device) Actions() []*Action {
	var actions []*Action
	for _, svc := range d.services {
		actions = append(actions, svc.actions...)
	}
	return actions
}

// FindService returns the service with the given short name, or nil.
func (d *Device) FindService(name string) *Service {
	return d.serviceMap[name]
}

// FindAction searches every service for an action by name and returns the
// first one found, or nil. When several services declare the same action
// name, the first service in description order wins.
func (d *Device) FindAction(name string) *Action {
	for _, svc := range d.services {
		if action := svc.FindAction(name); action != nil {
			return action
		}
	}
	return nil
}

// readServices walks the description for service entries. The double slash
// is deliberate: services may be declared on the root device and on
// embedded devices (section 2.3 of the UPnP device architecture).
func (d *Device) readServices(root *etree.Element) error {
	for _, node := range root.FindElements("//serviceList/service") {
		svc, err := newService(d, d.urlBase,
			findText(node, "serviceType"),
			findText(node, "serviceId"),
			findText(node, "controlURL"),
			findText(node, "SCPDURL"),
			findText(node, "eventSubURL"),
		)
		if err != nil {
			return err
		}

		log.Debugf("🐞 %s: service %s at %s", d.deviceName, svc.ServiceType(), svc.scpdURL)
		d.services = append(d.services, svc)
		if _, exists := d.serviceMap[svc.Name()]; !exists {
			d.serviceMap[svc.Name()] = svc
		}
	}
	return nil
}

// fetch retrieves a URL with the device's auth and default headers.
func (d *Device) fetch(location string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	d.applyAuth(req)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("GET %s: unexpected HTTP status %s", location, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// applyAuth stamps the device-level headers and credentials on a request.
func (d *Device) applyAuth(req *http.Request) {
	for k, v := range d.headers {
		req.Header.Set(k, v)
	}
	if d.hasAuth {
		req.SetBasicAuth(d.authUser, d.authPass)
	}
}

// callDefaults translates the device-level auth and headers into call
// options inherited by every action.
func (d *Device) callDefaults() []CallOption {
	var opts []CallOption
	if len(d.headers) > 0 {
		opts = append(opts, WithHeaders(d.headers))
	}
	if d.hasAuth {
		opts = append(opts, WithAuth(d.authUser, d.authPass))
	}
	return opts
}
