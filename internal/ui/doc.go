// Package ui renders command lifecycle events for people at the console.
//
// Detailed telemetry stays with the structured loggers owned by execshell and
// dispatch; the helpers here turn the same events into short messages whose
// level reflects how much attention they need.
package ui
