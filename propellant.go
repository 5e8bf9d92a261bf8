package optirocket

import (
	"fmt"
	"strings"
)

// PropellantSpec defines the performance and the allowed placement of one
// propellant combination.
type PropellantSpec struct {
	Name            string  // canonical name, upper case
	Stages          []int   // stage positions where it may burn, 1 is the bottom stage
	ISP             float64 // vacuum specific impulse, in s
	MeanISP         float64 // mean specific impulse through the atmosphere, in s
	StructuralIndex float64 // structural over propellant mass ratio
}

// CanOccupy returns whether this propellant may burn at the provided stage
// position (1 is the bottom stage).
func (p PropellantSpec) CanOccupy(stage int) bool {
	for _, s := range p.Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// String implements the Stringer interface.
func (p PropellantSpec) String() string {
	return fmt.Sprintf("%s (ISP=%.0f s, k=%.2f)", p.Name, p.ISP, p.StructuralIndex)
}

// StageSequence is an ordered list of propellant names, bottom stage first.
type StageSequence []string

// String implements the Stringer interface.
func (s StageSequence) String() string {
	return strings.Join(s, "/")
}

// UnknownPropellantError is returned on a lookup of a propellant which is
// not in the catalog.
type UnknownPropellantError struct {
	Name string
}

// Error implements the error interface.
func (e UnknownPropellantError) Error() string {
	return fmt.Sprintf("undefined propellant '%s'", e.Name)
}

// PlacementError is returned when a sequence places a propellant at a
// stage position it may not burn at.
type PlacementError struct {
	Name  string
	Stage int
}

// Error implements the error interface.
func (e PlacementError) Error() string {
	return fmt.Sprintf("%s cannot be used for stage %d", e.Name, e.Stage)
}

// Catalog stores the available propellants. Enumeration follows the
// registration order.
type Catalog struct {
	names []string
	specs map[string]PropellantSpec
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{specs: make(map[string]PropellantSpec)}
}

// DefaultCatalog returns a catalog with the reference propellants: RP1 and
// SOLID may power the lower stages, LH2 the vacuum stages.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	c.Register(PropellantSpec{"RP1", []int{1, 2, 3}, 330, 287, 0.15})
	c.Register(PropellantSpec{"LH2", []int{2, 3}, 440, 0, 0.22})
	c.Register(PropellantSpec{"SOLID", []int{1}, 300, 260, 0.10})
	return c
}

// Register adds a propellant to the catalog, or overwrites the entry with
// the same name while keeping its enumeration rank. Names are canonicalized
// to upper case. Register panics on a spec which no solve could use.
func (c *Catalog) Register(spec PropellantSpec) {
	if len(spec.Stages) == 0 {
		panic(fmt.Errorf("propellant %s: no allowed stage", spec.Name))
	}
	for _, s := range spec.Stages {
		if s < 1 {
			panic(fmt.Errorf("propellant %s: invalid stage position %d", spec.Name, s))
		}
	}
	if spec.ISP <= 0 {
		panic(fmt.Errorf("propellant %s: ISP must be positive", spec.Name))
	}
	if spec.CanOccupy(1) && spec.MeanISP <= 0 {
		panic(fmt.Errorf("propellant %s: a bottom stage propellant needs a mean ISP", spec.Name))
	}
	if spec.StructuralIndex <= 0 || spec.StructuralIndex >= 1 {
		panic(fmt.Errorf("propellant %s: structural index must be in (0, 1)", spec.Name))
	}
	name := strings.ToUpper(spec.Name)
	spec.Name = name
	if _, found := c.specs[name]; !found {
		c.names = append(c.names, name)
	}
	c.specs[name] = spec
}

// Names returns the canonical propellant names in registration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// Spec returns the propellant registered under the provided name. The
// lookup is case insensitive.
func (c *Catalog) Spec(name string) (PropellantSpec, error) {
	spec, found := c.specs[strings.ToUpper(name)]
	if !found {
		return PropellantSpec{}, UnknownPropellantError{strings.ToUpper(name)}
	}
	return spec, nil
}

// Validate checks that every propellant of the sequence exists and may
// burn at the stage position it occupies.
func (c *Catalog) Validate(seq StageSequence) error {
	for i, name := range seq {
		spec, err := c.Spec(name)
		if err != nil {
			return err
		}
		if !spec.CanOccupy(i + 1) {
			return PlacementError{spec.Name, i + 1}
		}
	}
	return nil
}

// StageSpecs returns the specific impulse and the structural index at each
// position of the sequence. The bottom stage burns through the atmosphere
// and uses the mean ISP, all other stages the vacuum ISP.
func (c *Catalog) StageSpecs(seq StageSequence) (isp, k []float64, err error) {
	isp = make([]float64, len(seq))
	k = make([]float64, len(seq))
	for i, name := range seq {
		spec, specErr := c.Spec(name)
		if specErr != nil {
			return nil, nil, specErr
		}
		if i == 0 {
			isp[i] = spec.MeanISP
		} else {
			isp[i] = spec.ISP
		}
		k[i] = spec.StructuralIndex
	}
	return
}
