/*
Package observability provides event sinks for monitoring the engine.

It includes a Prometheus metrics sink, a structured-logging sink, a channel
broker for streaming events to live subscribers, and a fanout combinator for
wiring several sinks at once.
*/
package observability
