/*
Package tracing provides lightweight request tracing.

Spans carry a trace ID that is propagated through X-Trace-ID / X-Span-ID
headers, both on inbound requests and on calls made to HTTP inference
providers. Finished spans are buffered (1000) and written to the zap logger
by a background collector.

# Usage

	tracer := tracing.New("dreams", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "inference")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
*/
package tracing
