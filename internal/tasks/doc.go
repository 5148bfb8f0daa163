// Package tasks provides a read-only client for the Google Tasks API.
//
// The client lists task lists and their items, and can look up a list
// by its exact title. The dashboard uses the latter to surface a task
// list literally named "Habits" as its own section.
package tasks
