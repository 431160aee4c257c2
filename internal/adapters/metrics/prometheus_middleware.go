package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/andrescamacho/colony-go/internal/application/mediator"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// PrometheusMiddleware times every request passing through the mediator.
//
// Requests are labelled by their type name without the Command or Query
// suffix, in snake case: *commands.DistributeJobsCommand is recorded as
// request "distribute_jobs" of kind "command". Errors caused by bad operator
// input (unknown nodes, invalid jobs) count as rejected rather than error.
func PrometheusMiddleware(collector *OperatorMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		name, kind := describeRequest(request)
		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordRequest(name, kind, requestStatus(err), time.Since(start).Seconds())

		return response, err
	}
}

func requestStatus(err error) string {
	switch {
	case err == nil:
		return statusOK
	case shared.IsInvalidArgument(err):
		return statusRejected
	default:
		return statusError
	}
}

// describeRequest splits a request type name into a snake case name and its kind
func describeRequest(request mediator.Request) (string, string) {
	if request == nil {
		return "unknown", "request"
	}

	typeName := reflect.TypeOf(request).String()
	typeName = strings.TrimPrefix(typeName, "*")
	if i := strings.LastIndex(typeName, "."); i >= 0 {
		typeName = typeName[i+1:]
	}

	kind := "request"
	switch {
	case strings.HasSuffix(typeName, "Command") && typeName != "Command":
		kind = "command"
		typeName = strings.TrimSuffix(typeName, "Command")
	case strings.HasSuffix(typeName, "Query") && typeName != "Query":
		kind = "query"
		typeName = strings.TrimSuffix(typeName, "Query")
	}
	return snakeCase(typeName), kind
}

func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
