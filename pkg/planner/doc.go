// Package planner turns a natural language goal into a runnable pipeline.
//
// The planner asks a completion service to pick and order operations from a
// catalog. The reply is untrusted text: only the first <TOOLS>...</TOOLS>
// span is read, every name in it is checked against the catalog, and unknown
// names are skipped with a warning. A reply without the span is a
// PlanFormatError and no pipeline is built.
//
// The conversation history is owned by the caller and passed to every call,
// so independent histories never interfere. One history must not be shared by
// two resolutions running at the same time.
package planner
