// Package notifier delivers notifications outside the database: realtime
// fan-out over redis pub/sub and the email leg of security notifications.
package notifier
