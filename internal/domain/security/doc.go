// Package security defines recorded security events, the admin query over
// them and the findings produced by the log scanning monitor.
package security
