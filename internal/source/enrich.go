package source

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/utafrali/storefront/internal/domain"
)

// Enrichment distribution. Stock is uniform in [0, MaxStock).
const (
	MaxStock          = 50
	NewProbability    = 0.2
	CustomProbability = 0.3
)

// Randomizer is the randomness collaborator used at ingestion. *rand.Rand
// satisfies it.
type Randomizer interface {
	IntN(n int) int
	Float64() float64
}

// NewRandomizer returns a PCG generator. A zero seed seeds from the clock.
func NewRandomizer(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Enricher turns raw records into catalog products.
type Enricher struct {
	rnd Randomizer
}

// NewEnricher creates an enricher drawing from rnd.
func NewEnricher(rnd Randomizer) *Enricher {
	return &Enricher{rnd: rnd}
}

// Enrich assigns stock, isNew and customizable to every valid record, keeping
// source order. Records with a non-positive id, a blank title or a negative
// price are skipped, as are repeated ids after the first. It returns the
// products and the number of skipped records.
func (e *Enricher) Enrich(raw []domain.RawProduct) ([]domain.Product, int) {
	products := make([]domain.Product, 0, len(raw))
	seen := make(map[int]struct{}, len(raw))
	skipped := 0

	for _, r := range raw {
		if !valid(r) {
			skipped++
			continue
		}
		if _, dup := seen[r.ID]; dup {
			skipped++
			continue
		}
		seen[r.ID] = struct{}{}

		products = append(products, domain.Product{
			ID:           r.ID,
			Title:        r.Title,
			Description:  r.Description,
			Category:     r.Category,
			Price:        r.Price,
			Image:        r.Image,
			Rating:       r.Rating,
			Stock:        e.rnd.IntN(MaxStock),
			IsNew:        e.rnd.Float64() > 1-NewProbability,
			Customizable: e.rnd.Float64() > 1-CustomProbability,
		})
	}

	return products, skipped
}

func valid(r domain.RawProduct) bool {
	return r.ID > 0 && strings.TrimSpace(r.Title) != "" && r.Price >= 0
}
