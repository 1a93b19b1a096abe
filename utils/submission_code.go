package utils

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// codePrefix is the journal's human-readable submission code prefix.
const codePrefix = "HCQS"

var submissionCodeMutex sync.Mutex

// GenerateSubmissionCode builds a code like HCQS-20260829-15043002.
// The trailing pair of digits disambiguates codes minted within the same
// second; exists reports whether a candidate is already taken.
func GenerateSubmissionCode(now time.Time, exists func(code string) bool) string {
	submissionCodeMutex.Lock()
	defer submissionCodeMutex.Unlock()

	stamp := now.Format("20060102-150405")
	for seq := 1; seq <= 99; seq++ {
		candidate := fmt.Sprintf("%s-%s%02d", codePrefix, stamp, seq)
		if exists == nil || !exists(candidate) {
			return candidate
		}
	}

	// Same-second collision burst exhausted the sequence; fall back to a
	// random suffix.
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("%s-%s-R-%s", codePrefix, stamp, suffix)
}
