// Immutable records that flow through the factory: raw materials, coatings,
// components and finished products.

package sim

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// RawMaterial is one unit of raw wood or fabric.
type RawMaterial struct {
	kind    MaterialKind
	quality float64
}

// NewRawMaterial creates a raw material unit.
func NewRawMaterial(kind MaterialKind, quality float64) RawMaterial {
	return RawMaterial{kind: kind, quality: quality}
}

func (m RawMaterial) Kind() MaterialKind { return m.kind }
func (m RawMaterial) Quality() float64   { return m.quality }

// Coating is one unit of finish coating.
type Coating struct {
	quality float64
	color   Color
}

// NewCoating creates a coating unit.
func NewCoating(quality float64, color Color) Coating {
	return Coating{quality: quality, color: color}
}

func (c Coating) Quality() float64 { return c.quality }
func (c Coating) Color() Color     { return c.color }

// Component is a manufactured part awaiting assembly.
type Component struct {
	kind    PartKind
	quality float64
	color   Color
}

// NewComponent creates a component.
func NewComponent(kind PartKind, quality float64, color Color) Component {
	return Component{kind: kind, quality: quality, color: color}
}

func (c Component) Kind() PartKind   { return c.kind }
func (c Component) Quality() float64 { return c.quality }
func (c Component) Color() Color     { return c.color }
func (c Component) String() string {
	return fmt.Sprintf("%s(%.3f,%s)", c.kind, c.quality, c.color)
}

// BillOfMaterialsError is the fatal construction error raised when a
// product's components do not match its tier specification exactly.
type BillOfMaterialsError struct {
	Tier Tier
	Want map[PartKind]int
	Got  map[PartKind]int
}

func (e *BillOfMaterialsError) Error() string {
	return fmt.Sprintf("%s product parts do not match spec: want %s, got %s",
		e.Tier, formatCounts(e.Want), formatCounts(e.Got))
}

// Product is a finished product. It is never mutated after construction.
type Product struct {
	tier         Tier
	buildQuality float64
	parts        []Component
}

// NewProduct validates parts against spec and builds the product.
// The component-kind multiset must equal spec's required counts exactly.
func NewProduct(spec TierSpec, buildQuality float64, parts []Component) (*Product, error) {
	want := spec.PartCounts()
	got := make(map[PartKind]int, len(want))
	for _, p := range parts {
		got[p.Kind()]++
	}
	if !sameCounts(want, got) {
		return nil, &BillOfMaterialsError{Tier: spec.Tier, Want: want, Got: got}
	}
	owned := make([]Component, len(parts))
	copy(owned, parts)
	return &Product{tier: spec.Tier, buildQuality: buildQuality, parts: owned}, nil
}

func (p *Product) Tier() Tier            { return p.tier }
func (p *Product) BuildQuality() float64 { return p.buildQuality }

// Parts returns a copy of the embedded components.
func (p *Product) Parts() []Component {
	out := make([]Component, len(p.parts))
	copy(out, p.parts)
	return out
}

// CompositeQuality is the geometric mean of every component quality and the
// build quality.
func (p *Product) CompositeQuality() float64 {
	logSum := math.Log(p.buildQuality)
	for _, c := range p.parts {
		logSum += math.Log(c.Quality())
	}
	return math.Exp(logSum / float64(len(p.parts)+1))
}

// GeometricMean returns the geometric mean of values, 0 for an empty slice.
func GeometricMean(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	prod := 1.0
	for _, v := range values {
		prod *= v
	}
	return math.Pow(prod, 1/float64(len(values)))
}

func sameCounts(a, b map[PartKind]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func formatCounts(counts map[PartKind]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s:%d", k, counts[PartKind(k)])
	}
	sb.WriteString("}")
	return sb.String()
}
