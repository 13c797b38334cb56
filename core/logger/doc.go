// Package logger records the process lifecycle events of shell sessions as
// newline delimited JSON and summarizes them.
package logger
