// Package auth provides authentication and authorization functionality for the application.
//
// Authentication is local only: username and password against the database
// with Argon2id password hashing. Successful logins are stamped on the user
// record and a signed JWT access/refresh token pair is issued.
//
// Authorization evaluates the loaded user aggregate: superusers pass every
// check, everyone else needs a granted permission whose code or HTTP scope
// covers the request. The Service type provides:
//   - Authenticate: verify credentials and stamp the login
//   - CheckPermission: check a user for a permission code
//   - AuthorizeRequest: check a user against an HTTP method and path
//   - IssueTokens / ParseToken: JWT handling for the web layer
package auth
