package upnp

import "context"

// ActionFinder locates an action by name. Both Device and Service satisfy
// it, so the find-then-invoke shorthand below is written once instead of
// being duplicated on each type.
type ActionFinder interface {
	FindAction(name string) *Action
}

// InvokeByName finds an action on the given container and invokes it.
// Returns *InvalidActionError when no action carries that name.
func InvokeByName(finder ActionFinder, name string, args Args, opts ...CallOption) (Results, error) {
	return InvokeByNameContext(context.Background(), finder, name, args, opts...)
}

// InvokeByNameContext is InvokeByName with a caller-supplied context
// bounding the network exchange.
func InvokeByNameContext(ctx context.Context, finder ActionFinder, name string, args Args, opts ...CallOption) (Results, error) {
	action := finder.FindAction(name)
	if action == nil {
		return nil, &InvalidActionError{Name: name}
	}
	return action.InvokeContext(ctx, args, opts...)
}
