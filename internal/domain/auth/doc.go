// Package auth defines the authenticated caller of a request and the contract
// used to turn a bearer or cookie token into one.
package auth
