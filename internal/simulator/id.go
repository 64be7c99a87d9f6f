package simulator

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tatianab/hidden-messages/internal/models"
)

var (
	ulidEntropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	ulidEntropyMu sync.Mutex
)

func newSessionID(now time.Time) string {
	ulidEntropyMu.Lock()
	defer ulidEntropyMu.Unlock()
	return "mock-session-" + ulid.MustNew(ulid.Timestamp(now), ulidEntropy).String()
}

func participantID(role models.Role, idx int) string {
	return fmt.Sprintf("mock-%s-%03d", role, idx)
}

func defaultName(idx int) string {
	return "Participant " + string(rune('A'+idx%26))
}
