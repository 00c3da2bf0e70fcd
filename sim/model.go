package sim

// MaterialKind is a raw material family. Wood is the structural material,
// fabric the flexible one.
type MaterialKind string

const (
	MaterialWood   MaterialKind = "wood"
	MaterialFabric MaterialKind = "fabric"
)

// MaterialKinds returns every material kind in processing order.
func MaterialKinds() []MaterialKind {
	return []MaterialKind{MaterialWood, MaterialFabric}
}

// PartKind is a component kind. Each kind belongs to exactly one material family.
type PartKind string

const (
	PartWood1   PartKind = "wood-1"
	PartWood2   PartKind = "wood-2"
	PartWood3   PartKind = "wood-3"
	PartFabric1 PartKind = "fabric-1"
	PartFabric2 PartKind = "fabric-2"
)

var partMaterial = map[PartKind]MaterialKind{
	PartWood1:   MaterialWood,
	PartWood2:   MaterialWood,
	PartWood3:   MaterialWood,
	PartFabric1: MaterialFabric,
	PartFabric2: MaterialFabric,
}

// PartKinds returns every component kind in a fixed order.
func PartKinds() []PartKind {
	return []PartKind{PartWood1, PartWood2, PartWood3, PartFabric1, PartFabric2}
}

// Material returns the material family a component kind is made from.
func (k PartKind) Material() MaterialKind {
	return partMaterial[k]
}

// Color of a coating unit, carried over onto the component it covers.
type Color string

const (
	ColorRed   Color = "red"
	ColorGreen Color = "green"
	ColorBlue  Color = "blue"
)

// Colors returns every coating color in draw order.
func Colors() []Color {
	return []Color{ColorRed, ColorGreen, ColorBlue}
}

// Tier is a finished-product grade.
type Tier string

const (
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
)

// Tiers returns every tier in processing order. Premium work always runs
// first so that its quality gates see the full raw pools.
func Tiers() []Tier {
	return []Tier{TierPremium, TierStandard}
}

// PartRequirement is one line of a bill of materials.
type PartRequirement struct {
	Kind  PartKind
	Count int
}

// TierSpec is the bill of materials of a tier. Parts are listed in claim
// order. MinQuality is informational and nil when the tier has none.
type TierSpec struct {
	Tier       Tier
	Parts      []PartRequirement
	MinQuality *float64
}

// StandardSpec returns the standard-tier bill of materials.
func StandardSpec() TierSpec {
	return TierSpec{
		Tier: TierStandard,
		Parts: []PartRequirement{
			{Kind: PartWood1, Count: 10},
			{Kind: PartWood2, Count: 1},
			{Kind: PartFabric1, Count: 3},
		},
	}
}

// PremiumSpec returns the premium-tier bill of materials.
func PremiumSpec() TierSpec {
	minQuality := 0.8
	return TierSpec{
		Tier: TierPremium,
		Parts: []PartRequirement{
			{Kind: PartWood1, Count: 15},
			{Kind: PartWood2, Count: 1},
			{Kind: PartWood3, Count: 3},
			{Kind: PartFabric1, Count: 3},
			{Kind: PartFabric2, Count: 2},
		},
		MinQuality: &minQuality,
	}
}

// SpecFor returns the bill of materials for a tier.
func SpecFor(t Tier) TierSpec {
	if t == TierPremium {
		return PremiumSpec()
	}
	return StandardSpec()
}

// PartCounts returns the required count per component kind.
func (s TierSpec) PartCounts() map[PartKind]int {
	counts := make(map[PartKind]int, len(s.Parts))
	for _, req := range s.Parts {
		counts[req.Kind] += req.Count
	}
	return counts
}

// MaterialCost returns how many raw units of material m one product needs.
func (s TierSpec) MaterialCost(m MaterialKind) int {
	total := 0
	for _, req := range s.Parts {
		if req.Kind.Material() == m {
			total += req.Count
		}
	}
	return total
}

// TotalParts returns the number of components in one product.
func (s TierSpec) TotalParts() int {
	total := 0
	for _, req := range s.Parts {
		total += req.Count
	}
	return total
}

// CoatingCost returns the coating units one product needs: one per component.
func (s TierSpec) CoatingCost() int {
	return s.TotalParts()
}

// PartList expands the bill of materials into one entry per component,
// in claim order.
func (s TierSpec) PartList() []PartKind {
	list := make([]PartKind, 0, s.TotalParts())
	for _, req := range s.Parts {
		for i := 0; i < req.Count; i++ {
			list = append(list, req.Kind)
		}
	}
	return list
}

// PartListFor is PartList restricted to components made from material m.
func (s TierSpec) PartListFor(m MaterialKind) []PartKind {
	list := make([]PartKind, 0, s.MaterialCost(m))
	for _, kind := range s.PartList() {
		if kind.Material() == m {
			list = append(list, kind)
		}
	}
	return list
}
