package tetris

import (
    "hash/fnv"
    "math/rand/v2"
)

// RNG is a seeded source of floats in [0,1). Two RNGs built from the same seed
// produce the same sequence call for call.
type RNG struct {
    r *rand.Rand
}

func NewRNG(seed string) *RNG {
    h := fnv.New64a()
    _, _ = h.Write([]byte(seed))
    s := h.Sum64()
    return &RNG{r: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

func (g *RNG) Float64() float64 { return g.r.Float64() }

// Bag implements the 7-bag randomizer: every aligned run of seven draws
// contains each tetromino exactly once.
type Bag struct {
    rng     *RNG
    current []Type
}

func NewBag(seed string) *Bag {
    return &Bag{rng: NewRNG(seed)}
}

// Next pops the front of the current bag, refilling it with a fresh shuffle when empty.
func (b *Bag) Next() Type {
    if len(b.current) == 0 {
        b.refill()
    }
    t := b.current[0]
    b.current = b.current[1:]
    return t
}

// Reset discards the partial bag. The RNG keeps its position so the next game
// in the same room gets a different, but still replayable, sequence.
func (b *Bag) Reset() { b.current = nil }

// Len reports how many types remain in the current bag.
func (b *Bag) Len() int { return len(b.current) }

func (b *Bag) refill() {
    bag := make([]Type, len(All))
    copy(bag, All[:])
    for i := len(bag) - 1; i > 0; i-- {
        j := int(b.rng.Float64() * float64(i+1))
        bag[i], bag[j] = bag[j], bag[i]
    }
    b.current = bag
}
