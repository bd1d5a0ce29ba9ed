package sessions

import (
	"fmt"
	"time"

	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
)

// Trigger is a named security event that maps to an invalidation rule
type Trigger string

// Known triggers
const (
	TriggerPasswordChange          Trigger = "password_change"
	TriggerEmailChange             Trigger = "email_change"
	TriggerPermissionsChange       Trigger = "permissions_change"
	TriggerSecurityBreach          Trigger = "security_breach"
	TriggerSuspiciousActivity      Trigger = "suspicious_activity"
	TriggerAdminAction             Trigger = "admin_action"
	TriggerDeviceCompromised       Trigger = "device_compromised"
	TriggerLocationAnomaly         Trigger = "location_anomaly"
	TriggerConcurrentLimitExceeded Trigger = "concurrent_limit_exceeded"
	TriggerAccountLocked           Trigger = "account_locked"
	TriggerTokenLeaked             Trigger = "token_leaked"
)

// Reason is recorded on invalidated sessions and invalidation events
type Reason string

// Invalidation reasons
const (
	ReasonPasswordChange      Reason = "password_change"
	ReasonSecurityBreach      Reason = "security_breach"
	ReasonSuspiciousActivity  Reason = "suspicious_activity"
	ReasonAdminAction         Reason = "admin_action"
	ReasonDeviceChange        Reason = "device_change"
	ReasonLocationChange      Reason = "location_change"
	ReasonPermissionChange    Reason = "permission_change"
	ReasonMaxSessionsExceeded Reason = "max_sessions_exceeded"
	ReasonSessionExpired      Reason = "session_expired"
	ReasonUserLogout          Reason = "user_logout"
	ReasonForceLogout         Reason = "force_logout"
	ReasonAccountLocked       Reason = "account_locked"
	ReasonTokenCompromised    Reason = "token_compromised"
)

var knownReasons = map[Reason]struct{}{
	ReasonPasswordChange: {}, ReasonSecurityBreach: {}, ReasonSuspiciousActivity: {},
	ReasonAdminAction: {}, ReasonDeviceChange: {}, ReasonLocationChange: {},
	ReasonPermissionChange: {}, ReasonMaxSessionsExceeded: {}, ReasonSessionExpired: {},
	ReasonUserLogout: {}, ReasonForceLogout: {}, ReasonAccountLocked: {}, ReasonTokenCompromised: {},
}

// ParseReason validates a caller supplied reason, defaulting to ReasonAdminAction
func ParseReason(raw string) (Reason, error) {
	if raw == "" {
		return ReasonAdminAction, nil
	}
	if _, ok := knownReasons[Reason(raw)]; !ok {
		return "", apperr.Validation("Unknown invalidation reason: %s", raw)
	}
	return Reason(raw), nil
}

// Scope selects which of a user's active sessions a rule applies to
type Scope string

// Rule scopes
const (
	ScopeCurrentSession    Scope = "current_session"
	ScopeAllSessions       Scope = "all_sessions"
	ScopeAllExceptCurrent  Scope = "all_except_current"
	ScopeDeviceSessions    Scope = "device_sessions"
	ScopeLocationSessions  Scope = "location_sessions"
	ScopeOldSessions       Scope = "old_sessions"
	ScopeUntrustedSessions Scope = "untrusted_sessions"
)

// Rule is the invalidation policy attached to a trigger
type Rule struct {
	Trigger      Trigger
	Scope        Scope
	Graceful     bool
	Notification bool
	Reason       Reason
	Title        string
	Warning      string
}

var rules = map[Trigger]Rule{
	TriggerPasswordChange: {
		Scope: ScopeAllExceptCurrent, Graceful: true, Notification: true, Reason: ReasonPasswordChange,
		Title:   "Password Changed - Security Logout",
		Warning: "Your password has been changed. You will be logged out of other devices in 5 minutes for security.",
	},
	TriggerEmailChange: {
		Scope: ScopeAllExceptCurrent, Graceful: true, Notification: true, Reason: ReasonPasswordChange,
		Title:   "Email Changed - Security Logout",
		Warning: "Your email has been changed. You will be logged out of all devices in 5 minutes for security.",
	},
	TriggerPermissionsChange: {
		Scope: ScopeAllSessions, Graceful: true, Notification: true, Reason: ReasonPermissionChange,
		Title:   "Account Permissions Updated",
		Warning: "Your account permissions have been updated. Please log in again to continue.",
	},
	TriggerSecurityBreach: {
		Scope: ScopeAllSessions, Graceful: false, Notification: true, Reason: ReasonSecurityBreach,
		Title:   "Security Alert - Immediate Logout",
		Warning: "Suspicious activity detected. Logging out immediately for your security.",
	},
	TriggerSuspiciousActivity: {
		Scope: ScopeUntrustedSessions, Graceful: true, Notification: true, Reason: ReasonSuspiciousActivity,
		Title:   "Suspicious Activity Detected",
		Warning: "Unusual activity detected on your account. Some sessions will be terminated.",
	},
	TriggerAdminAction: {
		Scope: ScopeAllSessions, Graceful: true, Notification: true, Reason: ReasonAdminAction,
		Title:   "Administrative Action - Logout Required",
		Warning: "An administrator has requested to log you out. You will be disconnected in 5 minutes.",
	},
	TriggerDeviceCompromised: {
		Scope: ScopeDeviceSessions, Graceful: false, Notification: true, Reason: ReasonDeviceChange,
		Title:   "Device Security Alert",
		Warning: "One of your devices may be compromised. Logging out immediately.",
	},
	TriggerLocationAnomaly: {
		Scope: ScopeLocationSessions, Graceful: true, Notification: true, Reason: ReasonLocationChange,
		Title:   "Unusual Login Location",
		Warning: "Login from an unusual location detected. Some sessions will be terminated.",
	},
	TriggerConcurrentLimitExceeded: {
		Scope: ScopeOldSessions, Graceful: true, Notification: false, Reason: ReasonMaxSessionsExceeded,
		Title:   "Session Limit Reached",
		Warning: "Too many active sessions. Oldest sessions will be terminated.",
	},
	TriggerAccountLocked: {
		Scope: ScopeAllSessions, Graceful: false, Notification: true, Reason: ReasonAccountLocked,
		Title:   "Account Locked",
		Warning: "Your account has been locked. Logging out immediately.",
	},
	TriggerTokenLeaked: {
		Scope: ScopeAllSessions, Graceful: false, Notification: true, Reason: ReasonTokenCompromised,
		Title:   "Security Token Compromised",
		Warning: "A security token may have been compromised. Logging out immediately.",
	},
}

// RuleFor returns the rule registered for trigger
func RuleFor(trigger Trigger) (Rule, error) {
	rule, ok := rules[trigger]
	if !ok {
		return Rule{}, apperr.Validation("Unknown invalidation trigger: %s", trigger)
	}
	rule.Trigger = trigger
	return rule, nil
}

// ReasonFor maps a trigger onto the reason stored with invalidated sessions
func ReasonFor(trigger Trigger) Reason {
	if rule, ok := rules[trigger]; ok {
		return rule.Reason
	}
	return ReasonAdminAction
}

// GracefulMessage is shown to the user during the warning period
func GracefulMessage(trigger Trigger) string {
	if rule, ok := rules[trigger]; ok {
		return rule.Warning
	}
	return "You will be logged out for security reasons."
}

// NotificationTitle is the headline of the in-app notification
func NotificationTitle(trigger Trigger) string {
	if rule, ok := rules[trigger]; ok {
		return rule.Title
	}
	return "Security Action Required"
}

// NotificationMessage describes how many sessions a trigger ended
func NotificationMessage(trigger Trigger, count int) string {
	noun := "sessions"
	if count == 1 {
		noun = "session"
	}

	switch trigger {
	case TriggerPasswordChange:
		return fmt.Sprintf("Your password was changed and %d %s were logged out for security.", count, noun)
	case TriggerEmailChange:
		return fmt.Sprintf("Your email was changed and %d %s were logged out for security.", count, noun)
	case TriggerPermissionsChange:
		return fmt.Sprintf("Your account permissions were updated and %d %s were logged out.", count, noun)
	case TriggerSecurityBreach:
		return fmt.Sprintf("A security breach was detected and %d %s were immediately logged out.", count, noun)
	case TriggerSuspiciousActivity:
		return fmt.Sprintf("Suspicious activity was detected and %d %s were logged out.", count, noun)
	case TriggerAdminAction:
		return fmt.Sprintf("An administrator logged out %d %s from your account.", count, noun)
	case TriggerDeviceCompromised:
		return fmt.Sprintf("A compromised device was detected and related %s were logged out.", noun)
	case TriggerLocationAnomaly:
		return fmt.Sprintf("An unusual login location was detected and %d %s were logged out.", count, noun)
	case TriggerConcurrentLimitExceeded:
		return fmt.Sprintf("Session limit exceeded and %d older %s were logged out.", count, noun)
	case TriggerAccountLocked:
		return fmt.Sprintf("Your account was locked and all %s were logged out.", noun)
	case TriggerTokenLeaked:
		return fmt.Sprintf("A security token was compromised and %d %s were logged out.", count, noun)
	default:
		return fmt.Sprintf("%d %s were logged out for security reasons.", count, noun)
	}
}

// Age thresholds used by scope selection
const (
	OldSessionAge       = 7 * 24 * time.Hour
	UntrustedSessionAge = 24 * time.Hour
)

// SelectByScope filters a user's active sessions down to the ones scope covers
func SelectByScope(sessions []*UserSession, scope Scope, currentSessionID string, now time.Time) []*UserSession {
	selected := make([]*UserSession, 0, len(sessions))

	for _, s := range sessions {
		var keep bool
		switch scope {
		case ScopeCurrentSession:
			keep = currentSessionID != "" && s.SessionID == currentSessionID
		case ScopeAllExceptCurrent:
			keep = currentSessionID == "" || s.SessionID != currentSessionID
		case ScopeAllSessions, ScopeDeviceSessions:
			keep = true
		case ScopeLocationSessions:
			// no geolocation source is wired, so no session is considered anomalous
			keep = false
		case ScopeOldSessions:
			keep = s.CreatedAt.Before(now.Add(-OldSessionAge))
		case ScopeUntrustedSessions:
			keep = s.CreatedAt.After(now.Add(-UntrustedSessionAge))
		}
		if keep {
			selected = append(selected, s)
		}
	}

	return selected
}

// SessionIDs returns the identifiers of sessions in order
func SessionIDs(sessions []*UserSession) []string {
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}
