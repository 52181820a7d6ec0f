package captcha

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrChallengeFailed is returned for any failed redemption: unknown,
// expired, already-consumed, or wrong answer. The caller cannot tell
// which, and the challenge is gone either way.
var ErrChallengeFailed = errors.New("captcha challenge failed")

// ErrChallengeNotFound is returned by a Store when a challenge does not
// exist (never issued, expired, or already consumed).
var ErrChallengeNotFound = errors.New("captcha challenge not found")

// Store holds issued challenges. Consume must be atomic: under
// concurrent redemption of the same id, exactly one caller receives the
// answer and the rest get ErrChallengeNotFound.
type Store interface {
	// Put stores a challenge answer under id with a TTL.
	Put(ctx context.Context, id, answer string, ttl time.Duration) error

	// Consume removes the challenge and returns its answer.
	Consume(ctx context.Context, id string) (string, error)
}

// AnswerGenerator generates challenge answers.
type AnswerGenerator func() string

// Challenge is an issued captcha: an id plus a rendered puzzle.
type Challenge struct {
	ID    string
	Image string // data URI with an inline SVG rendering of the answer
}

// Service issues and redeems single-use captcha challenges.
type Service struct {
	store     Store
	newAnswer AnswerGenerator
	ttl       time.Duration
}

// NewService creates a new captcha service.
func NewService(store Store, generator AnswerGenerator, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &Service{
		store:     store,
		newAnswer: generator,
		ttl:       ttl,
	}
}

// Issue creates a new challenge and returns its id and puzzle image.
func (s *Service) Issue(ctx context.Context) (*Challenge, error) {
	id := uuid.NewString()
	answer := s.newAnswer()

	if err := s.store.Put(ctx, id, answer, s.ttl); err != nil {
		return nil, err
	}

	return &Challenge{
		ID:    id,
		Image: renderDataURI(answer),
	}, nil
}

// Redeem consumes the challenge and compares the answer. The challenge
// is invalidated regardless of whether the answer matches, so a second
// redemption always fails.
func (s *Service) Redeem(ctx context.Context, id, answer string) error {
	if id == "" || answer == "" {
		return ErrChallengeFailed
	}

	expected, err := s.store.Consume(ctx, id)
	if err != nil {
		if errors.Is(err, ErrChallengeNotFound) {
			return ErrChallengeFailed
		}

		return err
	}

	if !strings.EqualFold(strings.TrimSpace(answer), expected) {
		return ErrChallengeFailed
	}

	return nil
}
