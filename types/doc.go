// Package types holds the domain model shared by the nanotodos packages:
// todo lists, todos, stored users, and the sentinel errors used to classify
// store failures (not found, uniqueness conflict).
package types
