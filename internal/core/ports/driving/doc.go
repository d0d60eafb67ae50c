// Package driving provides interfaces for application entry points
// (primary/inbound ports).
//
// Driving ports are implemented by core services and consumed by the
// CLI, TUI, MCP server and watch adapters.
package driving
