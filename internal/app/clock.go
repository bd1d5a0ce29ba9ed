package app

import "time"

// utcNow is the default clock of every service; tests replace the now field.
func utcNow() time.Time {
	return time.Now().UTC()
}
