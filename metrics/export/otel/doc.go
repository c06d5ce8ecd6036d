// Package otel binds session lifecycle metrics to an OpenTelemetry meter.
//
// [NewOTelExporter] registers an Int64ObservableCounter per lifecycle counter
// and one cumulative gauge for the warning lead-time buckets, labelled "le".
// Built from a manager it also reports gosession_session_remaining_seconds
// with a "state" attribute. One callback reads everything per collection.
//
// Callers own the MeterProvider.
package otel
