// Package convert implements the translation and field-extraction
// engine: matching an output request against the archive, translating
// the element/node graph into typed cell blocks, extracting field
// values at the correct result location and assembling one partitioned
// output collection per frame.
package convert

import "strings"

// CellType is a VTK cell type code.
type CellType int

const (
	Triangle            CellType = 5
	Quad                CellType = 9
	Tetra               CellType = 10
	Hexahedron          CellType = 12
	Wedge               CellType = 13
	Pyramid             CellType = 14
	QuadraticTriangle   CellType = 22
	QuadraticQuad       CellType = 23
	QuadraticTetra      CellType = 24
	QuadraticHexahedron CellType = 25
	QuadraticWedge      CellType = 26
)

func (c CellType) String() string {
	switch c {
	case Triangle:
		return "Triangle"
	case Quad:
		return "Quad"
	case Tetra:
		return "Tetra"
	case Hexahedron:
		return "Hexahedron"
	case Wedge:
		return "Wedge"
	case Pyramid:
		return "Pyramid"
	case QuadraticTriangle:
		return "QuadraticTriangle"
	case QuadraticQuad:
		return "QuadraticQuad"
	case QuadraticTetra:
		return "QuadraticTetra"
	case QuadraticHexahedron:
		return "QuadraticHexahedron"
	case QuadraticWedge:
		return "QuadraticWedge"
	}
	return "Unknown"
}

// Unsupported is the sentinel BaseType returns for element type codes
// with no catalog entry.
const Unsupported = "Unsupported"

// CellInfo is the output cell type and expected node count for one
// base element type.
type CellInfo struct {
	Cell  CellType
	Nodes int
}

// ElementCatalog maps archive element type codes to output cell
// types. It is immutable once constructed; build one per conversion
// run with NewElementCatalog.
type ElementCatalog struct {
	cells map[string]CellInfo
}

// NewElementCatalog builds the static element-type table covering the
// 2D continuum (plane strain/stress, generalized plane strain,
// axisymmetric), 3D continuum, shell and continuum-shell families.
func NewElementCatalog() ElementCatalog {
	return ElementCatalog{cells: map[string]CellInfo{
		// 2D Continuum - Plane strain
		"CPE3": {Triangle, 3},
		"CPE4": {Quad, 4},
		"CPE6": {QuadraticTriangle, 6},
		"CPE8": {QuadraticQuad, 8},

		// 2D Continuum - Plane stress
		"CPS3": {Triangle, 3},
		"CPS4": {Quad, 4},
		"CPS6": {QuadraticTriangle, 6},
		"CPS8": {QuadraticQuad, 8},

		// 2D Continuum - Generalized plane strain
		"CPEG3": {Triangle, 3},
		"CPEG4": {Quad, 4},
		"CPEG6": {QuadraticTriangle, 6},
		"CPEG8": {QuadraticQuad, 8},

		// 2D Continuum - Axisymmetric
		"CAX3": {Triangle, 3},
		"CAX4": {Quad, 4},
		"CAX6": {QuadraticTriangle, 6},
		"CAX8": {QuadraticQuad, 8},

		// 3D Continuum
		"C3D4":  {Tetra, 4},
		"C3D5":  {Pyramid, 5},
		"C3D6":  {Wedge, 6},
		"C3D8":  {Hexahedron, 8},
		"C3D10": {QuadraticTetra, 10},
		"C3D15": {QuadraticWedge, 15},
		"C3D20": {QuadraticHexahedron, 20},

		// Shell
		"STRI3": {Triangle, 3},
		"S3":    {Triangle, 3},
		"S4":    {Quad, 4},
		"S8":    {QuadraticQuad, 8},

		// Continuum shell
		"SC6": {Wedge, 6},
		"SC8": {Hexahedron, 8},

		// Continuum solid shell
		"CSS8": {Hexahedron, 8},
	}}
}

// BaseType reduces a raw element type code to its catalog base type by
// longest known prefix, stripping trailing modifiers such as reduced
// integration or hybrid suffixes (C3D20R -> C3D20, S4R5 -> S4).
// Returns Unsupported when no entry matches.
func (c ElementCatalog) BaseType(raw string) string {
	best := Unsupported
	for base := range c.cells {
		if strings.HasPrefix(raw, base) {
			if best == Unsupported || len(base) > len(best) {
				best = base
			}
		}
	}
	return best
}

// CellType resolves a base element type to its output cell info.
func (c ElementCatalog) CellType(base string) (CellInfo, bool) {
	info, ok := c.cells[base]
	return info, ok
}

// Lookup resolves a raw element type code in one shot.
func (c ElementCatalog) Lookup(raw string) (CellInfo, bool) {
	base := c.BaseType(raw)
	if base == Unsupported {
		return CellInfo{}, false
	}
	return c.cells[base], true
}
