// Package members defines the admin view of a platform member: the identity
// provider account, the local profile and the member's trading activity.
package members
