package util

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateRunID names a run by its UTC start time plus a short random
// suffix, so runs started within the same minute never collide and run
// directories still sort chronologically.
func GenerateRunID(now time.Time) string {
	stamp := now.UTC().Format("2006-01-02T15-04")
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return stamp + "-" + suffix
}
