package upnp

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"gargoton.petite-maison-orange.fr/eric/pmocontrol/soap"
)

// Args maps argument names to the values supplied by the caller. Values may
// be wire-format strings or native Go values acceptable to the argument's
// datatype (bool, integers, time.Time, []byte, uuid.UUID, *url.URL, ...).
type Args map[string]interface{}

// Results maps declared output argument names to their marshalled typed
// values. The key set is always exactly the action's declared output list,
// or the whole call fails: there are no partial results.
type Results map[string]interface{}

// CallOption adjusts a single invocation, e.g. per-call HTTP auth or extra
// headers. Options never leak between calls.
type CallOption func(*soap.CallOptions)

// WithAuth sets HTTP basic auth credentials for this call.
func WithAuth(username, password string) CallOption {
	return func(o *soap.CallOptions) {
		o.Username = username
		o.Password = password
		o.HasAuth = true
	}
}

// WithHeaders adds HTTP headers forwarded to the device unmodified.
func WithHeaders(headers map[string]string) CallOption {
	return func(o *soap.CallOptions) {
		if o.Headers == nil {
			o.Headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			o.Headers[k] = v
		}
	}
}

// Action is one invocable operation of a service. It is immutable after
// construction and holds no per-call state, so a single Action may be
// invoked concurrently from any number of goroutines.
type Action struct {
	name        string
	serviceType string
	controlURL  string
	argsIn      []*Argument
	argsOut     []*Argument
	client      *soap.Client
	defaults    []CallOption
}

// NewAction builds an action bound to a control endpoint. argsIn and
// argsOut keep their declaration order; that order drives the SOAP wire
// ordering on every call. defaults (typically device-level auth and
// headers) apply to every invocation and can be overridden per call.
func NewAction(name, controlURL, serviceType string, argsIn, argsOut []*Argument, httpClient *http.Client, defaults ...CallOption) *Action {
	return &Action{
		name:        name,
		serviceType: serviceType,
		controlURL:  controlURL,
		argsIn:      append([]*Argument(nil), argsIn...),
		argsOut:     append([]*Argument(nil), argsOut...),
		client:      soap.NewClient(controlURL, serviceType, httpClient),
		defaults:    defaults,
	}
}

// Name returns the action name as declared in the SCPD.
func (a *Action) Name() string {
	return a.name
}

// ServiceType returns the namespace URI used on the SOAP envelope.
func (a *Action) ServiceType() string {
	return a.serviceType
}

// ControlURL returns the endpoint the action is posted to.
func (a *Action) ControlURL() string {
	return a.controlURL
}

// InputArguments returns the declared input arguments in order.
func (a *Action) InputArguments() []*Argument {
	return append([]*Argument(nil), a.argsIn...)
}

// OutputArguments returns the declared output arguments in order.
func (a *Action) OutputArguments() []*Argument {
	return append([]*Argument(nil), a.argsOut...)
}

// Invoke performs a blocking action call. It delegates to InvokeContext
// with a background context: the validation and marshalling pipeline is
// identical in both modes, only the scheduling of the network exchange
// differs.
func (a *Action) Invoke(args Args, opts ...CallOption) (Results, error) {
	return a.InvokeContext(context.Background(), args, opts...)
}

// InvokeContext validates args, performs the SOAP exchange and marshals
// the response:
//
//  1. every declared input must be present (*MissingArgumentError, before
//     any network I/O),
//  2. all inputs are validated against their state variables; violations
//     are collected across all arguments (*ValidationError carries the
//     full name-to-reasons map),
//  3. the wire argument list follows the declared order, regardless of the
//     order in args,
//  4. transport, protocol and fault errors from the SOAP layer propagate
//     unchanged,
//  5. each declared output is marshalled into a typed value; an output
//     missing from the response fails the whole call with a protocol
//     error.
//
// A single attempt is made per call; retry policy belongs to the caller.
func (a *Action) InvokeContext(ctx context.Context, args Args, opts ...CallOption) (Results, error) {
	reasons := make(map[string][]string)
	params := make([]soap.Param, 0, len(a.argsIn))

	for _, arg := range a.argsIn {
		raw, ok := args[arg.Name()]
		if !ok {
			return nil, &MissingArgumentError{Action: a.name, Argument: arg.Name()}
		}

		wire := wireString(arg.RelatedStateVariable().Type(), raw)
		if valid, r := Validate(wire, arg.RelatedStateVariable()); !valid {
			reasons[arg.Name()] = r
		}
		// Wire order follows the SCPD declaration, not the caller's map.
		params = append(params, soap.Param{Name: arg.Name(), Value: wire})
	}

	if len(reasons) > 0 {
		return nil, &ValidationError{Reasons: reasons}
	}

	log.Debugf("🐞 >> %s(%v)", a.name, args)
	callOpts := &soap.CallOptions{}
	for _, opt := range a.defaults {
		opt(callOpts)
	}
	for _, opt := range opts {
		opt(callOpts)
	}

	response, err := a.client.CallContext(ctx, a.name, params, callOpts)
	if err != nil {
		return nil, err
	}
	log.Debugf("🐞 << %s: %v", a.name, response)

	out := make(Results, len(a.argsOut))
	for _, arg := range a.argsOut {
		value, ok := response[arg.Name()]
		if !ok {
			// The response does not match the action's contract; fail the
			// whole call rather than hand back a partial result.
			return nil, &soap.ProtocolError{
				Message: fmt.Sprintf("%s: response is missing output argument %q", a.name, arg.Name()),
			}
		}
		marshalled, _ := Marshal(arg.RelatedStateVariable().DataType(), value)
		out[arg.Name()] = marshalled
	}

	return out, nil
}

// wireString renders a caller-supplied value in its UPnP wire form. Strings
// pass through untouched; native values are formatted the way the datatype
// expects them on the wire.
func wireString(t StateVarType, val interface{}) string {
	if s, ok := val.(string); ok {
		return s
	}

	switch t {
	case StateType_Boolean:
		if b, ok := val.(bool); ok {
			if b {
				return "1"
			}
			return "0"
		}

	case StateType_Date:
		if ts, ok := val.(time.Time); ok {
			return ts.Format("2006-01-02")
		}

	case StateType_DateTime:
		if ts, ok := val.(time.Time); ok {
			return ts.Format("2006-01-02T15:04:05")
		}

	case StateType_DateTimeTZ:
		if ts, ok := val.(time.Time); ok {
			return ts.Format("2006-01-02T15:04:05Z07:00")
		}

	case StateType_Time:
		if ts, ok := val.(time.Time); ok {
			return ts.Format("15:04:05")
		}

	case StateType_TimeTZ:
		if ts, ok := val.(time.Time); ok {
			return ts.Format("15:04:05Z07:00")
		}

	case StateType_BinBase64:
		if b, ok := val.([]byte); ok {
			return base64.StdEncoding.EncodeToString(b)
		}

	case StateType_BinHex:
		if b, ok := val.([]byte); ok {
			return hex.EncodeToString(b)
		}

	case StateType_URI:
		if u, ok := val.(*url.URL); ok {
			return u.String()
		}

	case StateType_UUID:
		if u, ok := val.(uuid.UUID); ok {
			return u.String()
		}
	}

	return fmt.Sprintf("%v", val)
}
