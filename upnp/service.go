package upnp

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Service reads an SCPD (Service Control Point Definition) document and
// exposes the actions and state variables it declares. Once built, a
// Service is immutable and safe for concurrent use.
type Service struct {
	device *Device

	serviceType string
	serviceID   string
	controlURL  string
	scpdURL     string
	eventSubURL string

	statevars map[string]*StateVariable
	actions   []*Action
	actionMap map[string]*Action
}

// newService resolves the service URLs against urlBase, downloads the SCPD
// and parses the state table and action list.
func newService(device *Device, urlBase *url.URL, serviceType, serviceID, controlURL, scpdURL, eventSubURL string) (*Service, error) {
	svc := &Service{
		device:      device,
		serviceType: strings.TrimSpace(serviceType),
		serviceID:   strings.TrimSpace(serviceID),
		controlURL:  strings.TrimSpace(controlURL),
		scpdURL:     strings.TrimSpace(scpdURL),
		eventSubURL: strings.TrimSpace(eventSubURL),
		statevars:   make(map[string]*StateVariable),
		actionMap:   make(map[string]*Action),
	}

	scpdLocation := resolveURL(urlBase, svc.scpdURL)
	log.Debugf("🐞 %s: reading SCPD %s", svc.serviceID, scpdLocation)

	body, err := device.fetch(scpdLocation)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching SCPD for %s", svc.serviceID)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, errors.Wrapf(err, "parsing SCPD for %s", svc.serviceID)
	}

	svc.readStateVariables(doc)
	if err := svc.readActions(doc, resolveURL(urlBase, svc.controlURL)); err != nil {
		return nil, err
	}

	return svc, nil
}

// Name returns the short service name, the last colon-separated segment of
// the service id (e.g. "AVTransport" for "urn:upnp-org:serviceId:AVTransport").
func (svc *Service) Name() string {
	if idx := strings.LastIndex(svc.serviceID, ":"); idx >= 0 {
		return svc.serviceID[idx+1:]
	}
	return svc.serviceID
}

// ServiceType returns the service type URN, used as the SOAP namespace.
func (svc *Service) ServiceType() string {
	return svc.serviceType
}

// ServiceID returns the service identifier URN.
func (svc *Service) ServiceID() string {
	return svc.serviceID
}

// ControlURL returns the control endpoint path as declared.
func (svc *Service) ControlURL() string {
	return svc.controlURL
}

// Actions returns the service's actions in declaration order.
func (svc *Service) Actions() []*Action {
	return append([]*Action(nil), svc.actions...)
}

// StateVariable returns the named state variable declaration, or nil.
func (svc *Service) StateVariable(name string) *StateVariable {
	return svc.statevars[name]
}

// FindAction returns the named action, or nil when the service does not
// declare it.
func (svc *Service) FindAction(name string) *Action {
	return svc.actionMap[name]
}

func (svc *Service) readStateVariables(doc *etree.Document) {
	for _, node := range doc.FindElements("//serviceStateTable/stateVariable") {
		name := findText(node, "name")
		dataType := findText(node, "dataType")

		sendEvents := true
		if attr := node.SelectAttrValue("sendEvents", "yes"); strings.ToLower(attr) != "yes" {
			sendEvents = false
		}

		var allowed []string
		for _, av := range node.FindElements("allowedValueList/allowedValue") {
			allowed = append(allowed, av.Text())
		}

		sv := NewStateVariable(name, dataType, allowed, sendEvents)
		svc.statevars[sv.Name()] = sv
	}
}

func (svc *Service) readActions(doc *etree.Document, controlLocation string) error {
	for _, node := range doc.FindElements("//actionList/action") {
		name := findText(node, "name")

		var argsIn, argsOut []*Argument
		for _, argNode := range node.FindElements("argumentList/argument") {
			argName := findText(argNode, "name")
			related := findText(argNode, "relatedStateVariable")

			sv, ok := svc.statevars[related]
			if !ok {
				return errors.Errorf("%s: action %s argument %s references unknown state variable %q",
					svc.serviceID, name, argName, related)
			}

			if strings.ToLower(findText(argNode, "direction")) == "in" {
				argsIn = append(argsIn, NewArgument(argName, DirIn, sv))
			} else {
				argsOut = append(argsOut, NewArgument(argName, DirOut, sv))
			}
		}

		// Duplicate action names: first declaration wins.
		if _, exists := svc.actionMap[name]; exists {
			log.Warnf("❌ %s: duplicate action %q ignored", svc.serviceID, name)
			continue
		}

		action := NewAction(name, controlLocation, svc.serviceType, argsIn, argsOut,
			svc.device.httpClient, svc.device.callDefaults()...)
		svc.actionMap[name] = action
		svc.actions = append(svc.actions, action)
	}
	return nil
}

// Subscribe sets up an event subscription for this service. It returns the
// subscription id and its timeout in seconds, -1 meaning infinite. Only
// the header plumbing is implemented; renewal scheduling is up to the
// caller.
func (svc *Service) Subscribe(callbackURL string, timeoutSeconds int) (string, int, error) {
	headers := map[string]string{
		"CALLBACK": "<" + callbackURL + ">",
		"NT":       "upnp:event",
	}
	if timeoutSeconds > 0 {
		headers["TIMEOUT"] = fmt.Sprintf("Second-%d", timeoutSeconds)
	}

	resp, err := svc.eventRequest("SUBSCRIBE", headers)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	return validateSubscriptionResponse(resp)
}

// RenewSubscription renews a previously configured subscription. The
// returned timeout follows the Subscribe convention.
func (svc *Service) RenewSubscription(sid string, timeoutSeconds int) (int, error) {
	headers := map[string]string{"SID": sid}
	if timeoutSeconds > 0 {
		headers["TIMEOUT"] = fmt.Sprintf("Second-%d", timeoutSeconds)
	}

	resp, err := svc.eventRequest("SUBSCRIBE", headers)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return validateSubscriptionTimeout(resp)
}

// CancelSubscription unsubscribes from a previously configured
// subscription.
func (svc *Service) CancelSubscription(sid string) error {
	resp, err := svc.eventRequest("UNSUBSCRIBE", map[string]string{"SID": sid})
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (svc *Service) eventRequest(method string, headers map[string]string) (*http.Response, error) {
	target := resolveURL(svc.device.urlBase, svc.eventSubURL)

	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s request", method)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	svc.device.applyAuth(req)

	resp, err := svc.device.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, target)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, errors.Errorf("%s %s: unexpected HTTP status %s", method, target, resp.Status)
	}
	return resp, nil
}

// validateSubscriptionResponse checks the SID and TIMEOUT headers of a
// subscription response.
func validateSubscriptionResponse(resp *http.Response) (string, int, error) {
	sid := resp.Header.Get("Sid")
	if sid == "" {
		return "", 0, &UnexpectedResponseError{
			Message: `event subscription call returned without a "SID" header`,
		}
	}
	timeout, err := validateSubscriptionTimeout(resp)
	if err != nil {
		return "", 0, err
	}
	return sid, timeout, nil
}

// validateSubscriptionTimeout parses the TIMEOUT header, "Second-N" or
// "Second-infinite" (-1).
func validateSubscriptionTimeout(resp *http.Response) (int, error) {
	raw := strings.ToLower(resp.Header.Get("Timeout"))
	if raw == "" {
		return 0, &UnexpectedResponseError{
			Message: `event subscription call returned without a "Timeout" header`,
		}
	}
	if !strings.HasPrefix(raw, "second-") {
		return 0, &UnexpectedResponseError{
			Message: fmt.Sprintf("event subscription call returned an invalid timeout value: %q", raw),
		}
	}

	raw = strings.TrimPrefix(raw, "second-")
	if raw == "infinite" {
		return -1, nil
	}
	timeout, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &UnexpectedResponseError{
			Message: `event subscription call returned a timeout value which wasn't "infinite" or an integer`,
		}
	}
	return timeout, nil
}

// findText returns the trimmed text of the first element matched by path,
// empty when absent.
func findText(e *etree.Element, path string) string {
	if found := e.FindElement(path); found != nil {
		return strings.TrimSpace(found.Text())
	}
	return ""
}

// resolveURL joins a possibly relative reference against the device's base
// URL, following the UPnP URLBase rules.
func resolveURL(base *url.URL, ref string) string {
	if base == nil {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}
