// Package sessions models tracked login sessions, the audit trail of their
// invalidation and the schedule of graceful (delayed) invalidations.
//
// A graceful invalidation row starts in StatusScheduled and leaves it exactly
// once, to StatusCancelled, StatusExecuted or StatusFailed. Delaying keeps the
// row scheduled and only moves ExecuteAt.
package sessions
