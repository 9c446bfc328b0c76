package srs

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"vocabflash/internal/domain"
)

// DefaultLimit is the session length used when the caller passes no limit
const DefaultLimit = 20

// Policy names a study ordering strategy
type Policy string

const (
	// PolicyDueDate orders by next review date, earliest first. Deterministic.
	PolicyDueDate Policy = "due_date"
	// PolicyWeighted interleaves shuffled priority buckets, weak words first on average.
	PolicyWeighted Policy = "weighted"
	// PolicyGrouped shuffles within each difficulty and concatenates the groups.
	PolicyGrouped Policy = "grouped"
)

// ParsePolicy converts config text into a Policy
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyDueDate, PolicyWeighted, PolicyGrouped:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown order policy %q", domain.ErrInvalidConfig, s)
}

const (
	// Below this accuracy a reviewed word goes to the high priority bucket.
	weakAccuracyThreshold = 0.6
	// Overdue words last seen more than this many days ago are high priority.
	staleDays = 2
	// Sets this small are shuffled without bucket weighting.
	smallSetSize = 5

	highBaseWeight  = 0.4
	highFrontWeight = 0.4
	mediumWeight    = 0.5
)

// groupOrder is the concatenation order of PolicyGrouped
var groupOrder = []domain.Difficulty{
	domain.DifficultyFailed,
	domain.DifficultyLearning,
	domain.DifficultyNew,
	domain.DifficultyReview,
	domain.DifficultyMastered,
}

// Rand is the random source used for shuffling. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Composer orders study candidates. It is safe for concurrent use.
type Composer struct {
	mu  sync.Mutex
	rng Rand
}

// NewComposer creates a composer; a nil rng is replaced by a time-seeded source
func NewComposer(rng Rand) *Composer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Composer{rng: rng}
}

// ComposeOrder returns at most limit candidates in presentation order.
// The input slice is not modified. Unknown policies fall back to PolicyDueDate.
func (c *Composer) ComposeOrder(candidates []domain.Word, now time.Time, limit int, policy Policy) []domain.Word {
	if limit <= 0 {
		limit = DefaultLimit
	}

	words := make([]domain.Word, len(candidates))
	copy(words, candidates)

	c.mu.Lock()
	var ordered []domain.Word
	switch policy {
	case PolicyWeighted:
		ordered = c.weighted(words, now)
	case PolicyGrouped:
		ordered = c.grouped(words)
	default:
		ordered = byDueDate(words)
	}
	c.mu.Unlock()

	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return ordered
}

func byDueDate(words []domain.Word) []domain.Word {
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].NextReview.Before(words[j].NextReview)
	})
	return words
}

type priority int

const (
	priorityLow priority = iota
	priorityMedium
	priorityHigh
)

func classify(w domain.Word, now time.Time) priority {
	overdue := w.NextReview.Before(now)
	since := daysSince(w.LastReviewed, now)

	switch {
	case w.Difficulty == domain.DifficultyFailed,
		w.ReviewCount > 0 && w.Accuracy() < weakAccuracyThreshold,
		overdue && since > staleDays:
		return priorityHigh
	case w.Difficulty == domain.DifficultyLearning,
		overdue && since <= staleDays:
		return priorityMedium
	}
	return priorityLow
}

func daysSince(t *time.Time, now time.Time) float64 {
	if t == nil {
		return 0
	}
	return now.Sub(*t).Hours() / 24
}

func (c *Composer) weighted(words []domain.Word, now time.Time) []domain.Word {
	var high, medium, low []domain.Word
	for _, w := range words {
		switch classify(w, now) {
		case priorityHigh:
			high = append(high, w)
		case priorityMedium:
			medium = append(medium, w)
		default:
			low = append(low, w)
		}
	}
	c.shuffle(high)
	c.shuffle(medium)
	c.shuffle(low)

	if len(words) <= smallSetSize {
		all := make([]domain.Word, 0, len(words))
		all = append(append(append(all, high...), medium...), low...)
		c.shuffle(all)
		return all
	}
	return c.interleave(high, medium, low)
}

// interleave draws one word per position from the buckets. High is favoured,
// more strongly near the front of the sequence; every word is drawn exactly once.
func (c *Composer) interleave(high, medium, low []domain.Word) []domain.Word {
	n := len(high) + len(medium) + len(low)
	out := make([]domain.Word, 0, n)

	for i := 0; i < n; i++ {
		var bucket *[]domain.Word
		switch {
		case len(high) > 0 && (i == 0 || len(medium)+len(low) == 0 || c.rng.Float64() < highWeight(i, n)):
			bucket = &high
		case len(medium) > 0 && (len(high) == 0 || c.rng.Float64() < mediumWeight):
			bucket = &medium
		case len(low) > 0:
			bucket = &low
		case len(medium) > 0:
			bucket = &medium
		default:
			bucket = &high
		}
		out = append(out, (*bucket)[0])
		*bucket = (*bucket)[1:]
	}
	return out
}

// highWeight falls linearly from 0.8 at the first position to 0.4 at the last
func highWeight(i, n int) float64 {
	return highBaseWeight + highFrontWeight*(1-float64(i)/float64(n))
}

func (c *Composer) grouped(words []domain.Word) []domain.Word {
	groups := make(map[domain.Difficulty][]domain.Word, len(groupOrder))
	var other []domain.Word
	for _, w := range words {
		if !w.Difficulty.IsValid() {
			other = append(other, w)
			continue
		}
		groups[w.Difficulty] = append(groups[w.Difficulty], w)
	}

	out := make([]domain.Word, 0, len(words))
	for _, d := range groupOrder {
		g := groups[d]
		c.shuffle(g)
		out = append(out, g...)
	}
	return append(out, other...)
}

// shuffle is an in-place Fisher-Yates shuffle
func (c *Composer) shuffle(words []domain.Word) {
	for i := len(words) - 1; i > 0; i-- {
		j := c.rng.Intn(i + 1)
		words[i], words[j] = words[j], words[i]
	}
}
