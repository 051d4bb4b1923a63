// Package main provides the entry point for the access control service.
// It initializes and runs a web server using the Fiber framework that lets
// administrators manage users, roles, permissions and typed system
// configuration through a REST API. The application uses gorm for data
// persistence and records administrative actions in an audit trail.
package main
