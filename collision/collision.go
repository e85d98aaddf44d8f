// Package collision finds projectile/enemy overlaps. It works on plain value snapshots
// and returns despawn directives; it never mutates entities itself.
package collision

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Policy decides how many matches a single projectile or enemy may take part in
// during one scan.
type Policy uint8

const (
	// AllMatches emits every overlapping pair.
	AllMatches Policy = iota
	// FirstMatch consumes each projectile and each enemy at most once; the first
	// match in scan order wins.
	FirstMatch
)

func (p Policy) String() string {
	switch p {
	case AllMatches:
		return "all"
	case FirstMatch:
		return "first"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// ParsePolicy maps "all" or "first" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "all", "":
		return AllMatches, nil
	case "first":
		return FirstMatch, nil
	default:
		return AllMatches, fmt.Errorf("unknown collision policy %q", s)
	}
}

// Body is a circle owned by the entity identified by Handle.
type Body[H comparable] struct {
	Handle   H
	Position mgl32.Vec2
	Radius   float32
}

// Pair is a projectile/enemy match.
type Pair[H comparable] struct {
	Projectile H
	Enemy      H
}

// Overlaps reports whether two circles are strictly closer than their radius sum.
func Overlaps[H comparable](a, b Body[H]) bool {
	return a.Position.Sub(b.Position).Len() < a.Radius+b.Radius
}

// Detect scans every projectile against every enemy, projectile-major, preserving
// enemy order within a projectile.
func Detect[H comparable](projectiles, enemies []Body[H], policy Policy) []Pair[H] {
	var pairs []Pair[H]
	var consumed []bool
	if policy == FirstMatch {
		consumed = make([]bool, len(enemies))
	}

	for _, p := range projectiles {
		for i, e := range enemies {
			if consumed != nil && consumed[i] {
				continue
			}
			if !Overlaps(p, e) {
				continue
			}
			pairs = append(pairs, Pair[H]{Projectile: p.Handle, Enemy: e.Handle})
			if consumed != nil {
				consumed[i] = true
				break
			}
		}
	}
	return pairs
}

// Despawns flattens pairs into the handles to remove, each listed once, in first
// appearance order.
func Despawns[H comparable](pairs []Pair[H]) []H {
	if len(pairs) == 0 {
		return nil
	}
	seen := make(map[H]struct{}, len(pairs)*2)
	out := make([]H, 0, len(pairs)*2)
	for _, pair := range pairs {
		for _, h := range [2]H{pair.Projectile, pair.Enemy} {
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			out = append(out, h)
		}
	}
	return out
}
