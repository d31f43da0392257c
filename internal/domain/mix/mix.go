// Package mix models a concrete mix design and validates it against the
// two acceptance gates required before any prediction may run.
package mix

// Component identifies one material in the mix design.
type Component string

// The fixed component set. Quantities are kg per cubic meter of concrete.
const (
	Cement           Component = "Cement"
	FineAggregate    Component = "Fine aggregate"
	CoarseAggregate  Component = "Coarse aggregate"
	Water            Component = "Water"
	Superplasticizer Component = "Superplasticizer"
	FlyAsh           Component = "Fly ash"
	SilicaFume       Component = "Silica fume"
	BlastFurnaceSlag Component = "Blast furnace slag"
)

// Density conversion constant: specific gravity to kg/m³ of the material.
const kgPerCubicMeterOfWater = 1000.0

// Default specific gravities used when the caller does not supply one.
const (
	DefaultSpecificGravity      = 2.65
	DefaultWaterSpecificGravity = 1.0
)

// Components returns the component set in catalog order.
func Components() []Component {
	return []Component{
		Cement,
		FineAggregate,
		CoarseAggregate,
		Water,
		Superplasticizer,
		FlyAsh,
		SilicaFume,
		BlastFurnaceSlag,
	}
}

// CatalogEntry describes one component for form building: the default
// quantity and the advisory input range shown to the user. The range is
// advisory only; acquisition enforces just non-negativity.
type CatalogEntry struct {
	Component       Component `json:"component"`
	DefaultQuantity float64   `json:"default_quantity"`
	MinQuantity     float64   `json:"min_quantity"`
	MaxQuantity     float64   `json:"max_quantity"`
	DefaultGravity  float64   `json:"default_specific_gravity"`
}

// Catalog returns the component catalog in canonical order.
func Catalog() []CatalogEntry {
	return []CatalogEntry{
		{Cement, 325, 25, 45, DefaultSpecificGravity},
		{FineAggregate, 650, 500, 900, DefaultSpecificGravity},
		{CoarseAggregate, 1050, 800, 1200, DefaultSpecificGravity},
		{Water, 180, 120, 250, DefaultWaterSpecificGravity},
		{Superplasticizer, 8, 0, 20, DefaultSpecificGravity},
		{FlyAsh, 50, 0, 100, DefaultSpecificGravity},
		{SilicaFume, 10, 0, 50, DefaultSpecificGravity},
		{BlastFurnaceSlag, 30, 0, 150, DefaultSpecificGravity},
	}
}

// Portion is one component's share of the design.
type Portion struct {
	Quantity        float64 // kg/m³
	SpecificGravity float64
}

// Design maps every component to its portion. Treated as immutable once a
// computation pass reads it.
type Design map[Component]Portion

// DefaultDesign returns a design populated from the catalog defaults.
func DefaultDesign() Design {
	d := make(Design, len(Components()))
	for _, e := range Catalog() {
		d[e.Component] = Portion{Quantity: e.DefaultQuantity, SpecificGravity: e.DefaultGravity}
	}
	return d
}

// Quantity returns the quantity of a component, zero when absent.
func (d Design) Quantity(c Component) float64 {
	return d[c].Quantity
}

// BinderMass is the sum of the cementitious material masses.
func (d Design) BinderMass() float64 {
	return d.Quantity(Cement) + d.Quantity(FlyAsh) + d.Quantity(SilicaFume) + d.Quantity(BlastFurnaceSlag)
}

// WaterBinderRatio divides water mass by binder mass. A zero binder mass
// yields exactly 0, which the ratio gate then rejects as out of range.
func (d Design) WaterBinderRatio() float64 {
	binder := d.BinderMass()
	if binder == 0 {
		return 0
	}
	return d.Quantity(Water) / binder
}

// BatchVolume sums each component's volumetric contribution in m³.
func (d Design) BatchVolume() float64 {
	var v float64
	for _, p := range d {
		if p.SpecificGravity <= 0 {
			continue // positivity is enforced at acquisition; skip rather than divide by zero
		}
		v += p.Quantity / (p.SpecificGravity * kgPerCubicMeterOfWater)
	}
	return v
}
