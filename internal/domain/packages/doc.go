// Package packages defines the subscription packages sold to members.
package packages
