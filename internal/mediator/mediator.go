// Package mediator routes typed requests to their single registered handler.
//
// The registry is built once during startup wiring and is immutable
// afterwards: Register panics on a duplicate request type, and Dispatch
// panics when no handler exists for a request type. Both are wiring bugs on
// the level of a bad http.ServeMux pattern, not runtime conditions, so they
// abort loudly instead of surfacing per-request errors.
//
// Resolution is a direct map lookup keyed by the request's concrete type.
// Reflection is used only to produce the map key — there is no runtime
// discovery of handlers.
package mediator

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/macaria/backend/internal/domain"
)

// FieldError names one offending request field and a human-readable reason.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every field error produced by a request's
// validator. It matches domain.ErrValidation under errors.Is, so the HTTP
// layer maps it the same way as service-level validation failures.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is reports a match for domain.ErrValidation so callers can use errors.Is
// without knowing about this concrete type.
func (e *ValidationError) Is(target error) bool { return target == domain.ErrValidation }

// Handler executes one use case. It receives the caller's tenant context
// explicitly and returns the response plus the domain events produced by the
// mutation. Events must describe state that is already committed: the
// dispatcher publishes them only after Handle returns successfully, so a
// handler that commits its transaction before returning guarantees
// commit-then-publish.
type Handler[Req, Res any] interface {
	Handle(ctx context.Context, tc domain.TenantContext, req Req) (Res, []domain.Event, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc[Req, Res any] func(ctx context.Context, tc domain.TenantContext, req Req) (Res, []domain.Event, error)

func (f HandlerFunc[Req, Res]) Handle(ctx context.Context, tc domain.TenantContext, req Req) (Res, []domain.Event, error) {
	return f(ctx, tc, req)
}

// Validator checks a request before it reaches its handler. Validators are
// pure: no store access, no side effects. A non-empty result short-circuits
// dispatch with a *ValidationError.
type Validator[Req any] func(req Req) []FieldError

// Publisher receives the events of a successful dispatch. Publish must not
// block: the response is returned to the caller independently of delivery.
type Publisher interface {
	Publish(event domain.Event)
}

type entry struct {
	validate func(req any) []FieldError
	handle   func(ctx context.Context, tc domain.TenantContext, req any) (any, []domain.Event, error)
}

// Dispatcher holds the request-type → handler registry and the event
// publisher. Construct with New, register everything in main, then treat as
// read-only; Dispatch is safe for concurrent use once registration is done.
type Dispatcher struct {
	entries map[reflect.Type]entry
	pub     Publisher
}

// New returns an empty Dispatcher publishing to pub. A nil pub discards
// events, which is convenient in tests that only care about responses.
func New(pub Publisher) *Dispatcher {
	return &Dispatcher{entries: make(map[reflect.Type]entry), pub: pub}
}

// Register binds a handler to its request type with no validator.
func Register[Req, Res any](d *Dispatcher, h Handler[Req, Res]) {
	RegisterValidated[Req, Res](d, nil, h)
}

// RegisterValidated binds a validator/handler pair to the request type Req.
// At most one handler may be registered per request type; a duplicate
// registration panics.
func RegisterValidated[Req, Res any](d *Dispatcher, v Validator[Req], h Handler[Req, Res]) {
	key := reflect.TypeOf((*Req)(nil)).Elem()
	if _, dup := d.entries[key]; dup {
		panic(fmt.Sprintf("mediator: handler already registered for %s", key))
	}

	e := entry{
		handle: func(ctx context.Context, tc domain.TenantContext, req any) (any, []domain.Event, error) {
			return h.Handle(ctx, tc, req.(Req))
		},
	}
	if v != nil {
		e.validate = func(req any) []FieldError { return v(req.(Req)) }
	}
	d.entries[key] = e
}

// Dispatch routes req to its registered handler. The (Req, Res) pairing is
// fixed at registration time; dispatching with a mismatched Res is a
// programming error.
//
// Order of operations: validator (short-circuits with *ValidationError),
// handler, then — only on success — publication of the handler's events.
// Handler errors propagate unchanged.
func Dispatch[Req, Res any](ctx context.Context, d *Dispatcher, tc domain.TenantContext, req Req) (Res, error) {
	var zero Res

	e, ok := d.entries[reflect.TypeOf((*Req)(nil)).Elem()]
	if !ok {
		panic(fmt.Sprintf("mediator: no handler registered for %T", req))
	}

	if e.validate != nil {
		if fields := e.validate(req); len(fields) > 0 {
			return zero, &ValidationError{Fields: fields}
		}
	}

	res, events, err := e.handle(ctx, tc, req)
	if err != nil {
		return zero, err
	}

	if d.pub != nil {
		for _, ev := range events {
			d.pub.Publish(ev)
		}
	}
	return res.(Res), nil
}
