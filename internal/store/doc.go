// Package store provides read access to relational model snapshots.
//
// The exporter is the only consumer. Its contract with the store is
// deliberately narrow — four operations: list existing table names,
// execute a filtered row query, delete rows matching a scenario
// predicate, and compact storage. Anything richer belongs to the
// modeling tools that produce the databases, not to this package.
//
// A store is opened, fully read, and closed within a single export
// invocation. No connection is held across invocations or across
// scenario advances.
package store
