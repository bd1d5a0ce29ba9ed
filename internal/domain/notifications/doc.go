// Package notifications defines in-app notifications and the channels that deliver them.
package notifications
