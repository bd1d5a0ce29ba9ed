// Package identity verifies session tokens and talks to the external user
// directory. Tokens are verified locally with golang-jwt; user records are
// read and updated through the Clerk backend API.
package identity
