/*
Package domain defines the core model of the daisy workflow engine: the
graph of typed nodes and directed edges, the execution context aggregated
from a node's upstream inputs, the execution error taxonomy, and the events
the engine publishes.

The Graph is the only shared mutable resource. All attribute writes go
through Graph.UpdateNodeData, which atomically replaces one node's attribute
map, so independent node executions can interleave safely.
*/
package domain
