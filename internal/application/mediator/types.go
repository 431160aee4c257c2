package mediator

import (
	"context"
	"reflect"
)

// Request is an operator command or query, e.g. commands.RegisterPlatformCommand
type Request interface{}

// Response is whatever the handler of a request returns
type Response interface{}

// RequestHandler serves one request type
type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// HandlerFunc adapts a function to RequestHandler
type HandlerFunc func(ctx context.Context, request Request) (Response, error)

func (f HandlerFunc) Handle(ctx context.Context, request Request) (Response, error) {
	return f(ctx, request)
}

// Middleware wraps every dispatch; next runs the rest of the chain.
// metrics.PrometheusMiddleware is one.
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)

// Mediator routes each request to the handler registered for its type
type Mediator interface {
	Send(ctx context.Context, request Request) (Response, error)
	Register(requestType reflect.Type, handler RequestHandler) error
	RegisterMiddleware(middleware Middleware)
}
