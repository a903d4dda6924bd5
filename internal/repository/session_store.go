package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps the start time of a running countdown session in redis.
// The key is written once per (applicant, category) via SET NX, so re-entering
// a running category never restarts the clock. The TTL is only housekeeping:
// the authoritative deadline check compares elapsed wall-clock time against
// the category limit at submission.
type SessionStore struct {
	rdb *redis.Client
	now func() time.Time
}

// Extra lifetime past the category limit so a timeout-triggered submit still
// finds its session.
const sessionGrace = 5 * time.Minute

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb, now: time.Now}
}

func sessionKey(applicantID, categoryID uuid.UUID) string {
	return fmt.Sprintf("assessment:session:%s:%s", applicantID, categoryID)
}

// Start records now as the session start unless one is already running, and
// returns the effective start time.
func (s *SessionStore) Start(ctx context.Context, applicantID, categoryID uuid.UUID, limit time.Duration) (time.Time, error) {
	key := sessionKey(applicantID, categoryID)
	start := s.now().UTC()

	ok, err := s.rdb.SetNX(ctx, key, start.Unix(), limit+sessionGrace).Result()
	if err != nil {
		return time.Time{}, err
	}
	if ok {
		return start, nil
	}
	return s.startedAt(ctx, key)
}

// StartedAt returns the running session's start time; found is false when no
// session exists (never started, or the key aged out).
func (s *SessionStore) StartedAt(ctx context.Context, applicantID, categoryID uuid.UUID) (time.Time, bool, error) {
	start, err := s.startedAt(ctx, sessionKey(applicantID, categoryID))
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return start, true, nil
}

// Clear drops the session after a terminal submit.
func (s *SessionStore) Clear(ctx context.Context, applicantID, categoryID uuid.UUID) error {
	return s.rdb.Del(ctx, sessionKey(applicantID, categoryID)).Err()
}

func (s *SessionStore) startedAt(ctx context.Context, key string) (time.Time, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		return time.Time{}, err
	}
	unix, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed session value %q: %w", val, err)
	}
	return time.Unix(unix, 0).UTC(), nil
}
