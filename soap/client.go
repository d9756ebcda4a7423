package soap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"gargoton.petite-maison-orange.fr/eric/pmocontrol/pmolog"
)

// DefaultTimeout bounds a SOAP exchange when the caller supplies no
// http.Client of its own.
const DefaultTimeout = 30 * time.Second

// CallOptions carries per-call HTTP auth and extra headers. Extra headers
// are forwarded to the device unmodified.
type CallOptions struct {
	Username string
	Password string
	HasAuth  bool
	Headers  map[string]string
}

// Client invokes UPnP actions on one control endpoint. It holds no mutable
// state of its own: the zero-allocation build/parse logic is pure, and the
// embedded http.Client is responsible for its own concurrency safety, so a
// Client may be shared between goroutines.
//
// A call is a single request/response exchange. There is no retry at this
// layer; retry and backoff policies, if any, belong to the caller or to a
// custom http.RoundTripper.
type Client struct {
	Endpoint    string
	ServiceType string
	HTTPClient  *http.Client
}

// NewClient builds a SOAP client for one control URL and service type.
func NewClient(endpoint, serviceType string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		Endpoint:    endpoint,
		ServiceType: serviceType,
		HTTPClient:  httpClient,
	}
}

// Call performs a blocking action invocation. It is a thin wrapper over
// CallContext with a background context: both entry points share the exact
// same envelope and parsing logic.
func (c *Client) Call(action string, params []Param, opts *CallOptions) (map[string]string, error) {
	return c.CallContext(context.Background(), action, params, opts)
}

// CallContext builds the request envelope, performs the HTTP exchange and
// parses the response. params are serialized in slice order. The returned
// map holds the child elements of the *Response element.
//
// Error taxonomy: a well-formed device fault comes back as *Error, a
// malformed response as *ProtocolError, and HTTP/connection failures are
// propagated from the transport (wrapped, cause preserved).
func (c *Client) CallContext(ctx context.Context, action string, params []Param, opts *CallOptions) (map[string]string, error) {
	envelope, err := BuildEnvelope(action, c.ServiceType, params)
	if err != nil {
		return nil, errors.Wrapf(err, "building envelope for %s", action)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(envelope))
	if err != nil {
		return nil, errors.Wrapf(err, "building request for %s", c.Endpoint)
	}
	req.Header.Set("SOAPAction", fmt.Sprintf("%q", c.ServiceType+"#"+action))
	req.Header.Set("Content-Type", "text/xml")
	if opts != nil {
		for k, v := range opts.Headers {
			req.Header.Set(k, v)
		}
		if opts.HasAuth {
			req.SetBasicAuth(opts.Username, opts.Password)
		}
	}

	log.Debugf("📤 SOAP %s → %s\n%s", action, c.Endpoint, pmolog.PrettyPrintXML(string(envelope)))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "SOAP call %s", action)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading SOAP response for %s", action)
	}

	log.Debugf("📥 SOAP %s ← %d\n%s", action, resp.StatusCode, pmolog.PrettyPrintXML(string(body)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// If the error body holds a UPnP fault it becomes a typed Error,
		// otherwise the HTTP failure itself is surfaced.
		return nil, ParseFault(body, errors.Errorf("SOAP call %s: unexpected HTTP status %s", action, resp.Status))
	}

	return ParseResponse(body)
}
