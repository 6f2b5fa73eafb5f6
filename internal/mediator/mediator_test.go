package mediator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macaria/backend/internal/domain"
	"github.com/macaria/backend/internal/mediator"
)

// ---- fixtures --------------------------------------------------------------

type ping struct{ Value string }

type pong struct{ Echo string }

type otherRequest struct{}

// capturePublisher records every published event in order.
type capturePublisher struct {
	events []domain.Event
}

func (p *capturePublisher) Publish(event domain.Event) {
	p.events = append(p.events, event)
}

func echoHandler(events ...domain.Event) mediator.HandlerFunc[ping, pong] {
	return func(_ context.Context, _ domain.TenantContext, req ping) (pong, []domain.Event, error) {
		return pong{Echo: req.Value}, events, nil
	}
}

// ---- dispatch --------------------------------------------------------------

func TestDispatch_RoutesToHandler(t *testing.T) {
	d := mediator.New(nil)
	mediator.Register(d, echoHandler())

	res, err := mediator.Dispatch[ping, pong](context.Background(), d, domain.TenantContext{}, ping{Value: "hi"})

	require.NoError(t, err)
	assert.Equal(t, "hi", res.Echo)
}

func TestDispatch_PassesTenantContext(t *testing.T) {
	var captured domain.TenantContext
	d := mediator.New(nil)
	mediator.Register(d, mediator.HandlerFunc[ping, pong](
		func(_ context.Context, tc domain.TenantContext, _ ping) (pong, []domain.Event, error) {
			captured = tc
			return pong{}, nil, nil
		},
	))

	tc := domain.TenantContext{TenantID: 9, UserID: 3}
	_, err := mediator.Dispatch[ping, pong](context.Background(), d, tc, ping{})

	require.NoError(t, err)
	assert.Equal(t, tc, captured)
}

func TestDispatch_PublishesEventsAfterSuccess(t *testing.T) {
	pub := &capturePublisher{}
	events := []domain.Event{
		domain.NoteSaved{TenantID: 1, Note: domain.Note{ID: 1}},
		domain.NoteTagAdded{TenantID: 1, NoteID: 1, TagID: 2},
	}

	d := mediator.New(pub)
	mediator.Register(d, echoHandler(events...))

	_, err := mediator.Dispatch[ping, pong](context.Background(), d, domain.TenantContext{}, ping{})

	require.NoError(t, err)
	require.Len(t, pub.events, 2, "all handler events must be published, in order")
	assert.Equal(t, "[Note] Saved", pub.events[0].EventName())
	assert.Equal(t, "[Note] Tag Added", pub.events[1].EventName())
}

func TestDispatch_NoPublishOnHandlerError(t *testing.T) {
	pub := &capturePublisher{}
	d := mediator.New(pub)
	mediator.Register(d, mediator.HandlerFunc[ping, pong](
		func(_ context.Context, _ domain.TenantContext, _ ping) (pong, []domain.Event, error) {
			// Events returned alongside an error must never leak out.
			return pong{}, []domain.Event{domain.NoteRemoved{TenantID: 1, NoteID: 1}}, errors.New("boom")
		},
	))

	_, err := mediator.Dispatch[ping, pong](context.Background(), d, domain.TenantContext{}, ping{})

	require.Error(t, err)
	assert.Empty(t, pub.events, "a failed dispatch must not publish")
}

func TestDispatch_HandlerErrorPropagatesUnchanged(t *testing.T) {
	sentinel := errors.New("downstream failed")
	d := mediator.New(nil)
	mediator.Register(d, mediator.HandlerFunc[ping, pong](
		func(_ context.Context, _ domain.TenantContext, _ ping) (pong, []domain.Event, error) {
			return pong{}, nil, sentinel
		},
	))

	_, err := mediator.Dispatch[ping, pong](context.Background(), d, domain.TenantContext{}, ping{})

	assert.ErrorIs(t, err, sentinel)
}

// ---- validation ------------------------------------------------------------

func TestDispatch_ValidationShortCircuits(t *testing.T) {
	pub := &capturePublisher{}
	handlerCalled := false

	d := mediator.New(pub)
	mediator.RegisterValidated(d,
		func(req ping) []mediator.FieldError {
			if req.Value == "" {
				return []mediator.FieldError{{Field: "value", Message: "Value is required"}}
			}
			return nil
		},
		mediator.HandlerFunc[ping, pong](
			func(_ context.Context, _ domain.TenantContext, req ping) (pong, []domain.Event, error) {
				handlerCalled = true
				return pong{Echo: req.Value}, nil, nil
			},
		),
	)

	_, err := mediator.Dispatch[ping, pong](context.Background(), d, domain.TenantContext{}, ping{})

	require.Error(t, err)
	assert.False(t, handlerCalled, "validation failure must never reach the handler")
	assert.Empty(t, pub.events)

	var vErr *mediator.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "value", vErr.Fields[0].Field)

	// The aggregate matches the domain sentinel so the HTTP layer needs no
	// special case.
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDispatch_ValidRequestReachesHandler(t *testing.T) {
	d := mediator.New(nil)
	mediator.RegisterValidated(d,
		func(req ping) []mediator.FieldError { return nil },
		echoHandler(),
	)

	res, err := mediator.Dispatch[ping, pong](context.Background(), d, domain.TenantContext{}, ping{Value: "ok"})

	require.NoError(t, err)
	assert.Equal(t, "ok", res.Echo)
}

// ---- registration ----------------------------------------------------------

func TestRegister_DuplicatePanics(t *testing.T) {
	d := mediator.New(nil)
	mediator.Register(d, echoHandler())

	assert.Panics(t, func() {
		mediator.Register(d, echoHandler())
	})
}

func TestDispatch_MissingHandlerPanics(t *testing.T) {
	d := mediator.New(nil)
	mediator.Register(d, echoHandler())

	assert.Panics(t, func() {
		_, _ = mediator.Dispatch[otherRequest, pong](context.Background(), d, domain.TenantContext{}, otherRequest{})
	})
}
