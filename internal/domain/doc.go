// Package domain contains the authorization domain model: users, roles,
// permissions, their association records, and typed system configuration.
//
// Everything in this package is a pure, in-memory state transition on a
// single aggregate. No type here performs I/O, holds locks, or depends on
// the persistence layer; callers are responsible for loading aggregates
// with their relations materialized and for serializing concurrent
// mutations against the same aggregate identity.
package domain
