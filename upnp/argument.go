package upnp

// Direction tells whether an action argument is sent with the request or
// returned with the response.
type Direction int

const (
	DirIn Direction = iota
	DirOut
)

func (d Direction) String() string {
	if d == DirOut {
		return "out"
	}
	return "in"
}

// Argument binds an action argument name to the state variable that types
// it. The state variable is referenced, not owned: several arguments may
// point at the same declaration. Arguments are immutable and their order in
// an action's argument list is significant, it drives SOAP wire ordering.
type Argument struct {
	name      string
	direction Direction
	statevar  *StateVariable
}

// NewArgument builds an immutable argument definition.
func NewArgument(name string, direction Direction, sv *StateVariable) *Argument {
	return &Argument{
		name:      name,
		direction: direction,
		statevar:  sv,
	}
}

// Name returns the argument name as declared in the SCPD.
func (a *Argument) Name() string {
	return a.name
}

// Direction returns whether the argument is an input or an output.
func (a *Argument) Direction() Direction {
	return a.direction
}

// RelatedStateVariable returns the state variable that types this argument.
func (a *Argument) RelatedStateVariable() *StateVariable {
	return a.statevar
}
