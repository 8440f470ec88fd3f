package archive

import (
	"fmt"
	"math"
)

// Position is a result location within an element or at nodes.
type Position int

const (
	Undefined Position = iota
	Nodal
	ElementNodal
	IntegrationPoint
	Centroid
	WholeElement
)

func (p Position) String() string {
	return [...]string{
		"undefined", "nodal", "element nodal", "integration point",
		"centroid", "whole element",
	}[p]
}

// DataType is the rank/variant tag of a field output.
type DataType int

const (
	UnknownType DataType = iota
	Scalar
	Vector
	TensorFull
	TensorPlanar
)

func (t DataType) String() string {
	return [...]string{
		"unknown", "scalar", "vector", "tensor full", "tensor planar",
	}[t]
}

// Tensor reports whether the type is one of the tensor variants.
func (t DataType) Tensor() bool {
	return t == TensorFull || t == TensorPlanar
}

// Precision is the storage precision a bulk-data block declares.
type Precision int

const (
	SinglePrecision Precision = iota
	DoublePrecision
)

func (p Precision) String() string {
	return [...]string{"single", "double"}[p]
}

// SectionPoint identifies one through-thickness sampling point of a
// shell or composite section.
type SectionPoint struct {
	Number      int
	Description string
}

// Location is one result location a field is available at, together
// with the section points sampled there.
type Location struct {
	Position      Position
	SectionPoints []SectionPoint
}

// BulkData is one contiguous block of field values. Element-based
// positions carry ElementLabels, node-based positions NodeLabels; the
// label slice parallels the value rows. Each block independently
// declares its storage precision; exactly one of Single/Double is
// populated.
type BulkData struct {
	Instance      string
	Position      Position
	SectionPoint  int // 0 when the block has no section point
	Precision     Precision
	Width         int
	ElementLabels []int
	NodeLabels    []int
	Single        []float32
	Double        []float64
}

// Rows returns the number of value rows in the block.
func (b *BulkData) Rows() int {
	if b.Precision == DoublePrecision {
		return len(b.Double) / b.Width
	}
	return len(b.Single) / b.Width
}

// Value reads the flat value at index i honoring the block's declared
// precision.
func (b *BulkData) Value(i int) float64 {
	if b.Precision == DoublePrecision {
		return b.Double[i]
	}
	return float64(b.Single[i])
}

// FieldOutput is one named field for one frame, with its available
// locations and bulk-data blocks across all instances. Subset
// operations return derived fields and never mutate the receiver.
type FieldOutput struct {
	Name      string
	Type      DataType
	Locations []Location
	Blocks    []*BulkData
}

// SubsetInstance narrows the field to blocks belonging to one
// instance. A field with no remaining blocks also reports no
// locations.
func (f *FieldOutput) SubsetInstance(name string) *FieldOutput {
	sub := &FieldOutput{Name: f.Name, Type: f.Type}
	for _, b := range f.Blocks {
		if b.Instance == name {
			sub.Blocks = append(sub.Blocks, b)
		}
	}
	if len(sub.Blocks) > 0 {
		sub.Locations = f.Locations
	}
	return sub
}

// SubsetPosition narrows the field to blocks stored at one result
// position. Integration-point fields carry their element-nodal
// extrapolation as additional blocks, so re-subsetting an
// integration-point field to ElementNodal selects those.
func (f *FieldOutput) SubsetPosition(pos Position) *FieldOutput {
	sub := &FieldOutput{Name: f.Name, Type: f.Type, Locations: f.Locations}
	for _, b := range f.Blocks {
		if b.Position == pos {
			sub.Blocks = append(sub.Blocks, b)
		}
	}
	return sub
}

// SubsetSectionPoint narrows the field to blocks sampled at one
// through-thickness section point.
func (f *FieldOutput) SubsetSectionPoint(number int) *FieldOutput {
	sub := &FieldOutput{Name: f.Name, Type: f.Type, Locations: f.Locations}
	for _, b := range f.Blocks {
		if b.SectionPoint == number {
			sub.Blocks = append(sub.Blocks, b)
		}
	}
	return sub
}

// Abs returns a copy of the field with every value replaced by its
// absolute value. The result is promoted to double precision.
func (f *FieldOutput) Abs() *FieldOutput {
	out := &FieldOutput{Name: f.Name, Type: f.Type, Locations: f.Locations}
	for _, b := range f.Blocks {
		nb := &BulkData{
			Instance:      b.Instance,
			Position:      b.Position,
			SectionPoint:  b.SectionPoint,
			Precision:     DoublePrecision,
			Width:         b.Width,
			ElementLabels: b.ElementLabels,
			NodeLabels:    b.NodeLabels,
			Double:        make([]float64, b.Rows()*b.Width),
		}
		for i := range nb.Double {
			nb.Double[i] = math.Abs(b.Value(i))
		}
		out.Blocks = append(out.Blocks, nb)
	}
	return out
}

// MaxEnvelope reduces a list of structurally congruent fields to their
// element-wise maximum. All inputs must have the same block layout
// (positions, labels, widths); this holds for per-section-point
// subsets of one field, which is the only caller.
func MaxEnvelope(fields []*FieldOutput) (*FieldOutput, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("max envelope of no fields")
	}
	first := fields[0]
	out := &FieldOutput{Name: first.Name, Type: first.Type, Locations: first.Locations}
	for _, b := range first.Blocks {
		nb := &BulkData{
			Instance:      b.Instance,
			Position:      b.Position,
			Precision:     DoublePrecision,
			Width:         b.Width,
			ElementLabels: b.ElementLabels,
			NodeLabels:    b.NodeLabels,
			Double:        make([]float64, b.Rows()*b.Width),
		}
		for i := range nb.Double {
			nb.Double[i] = b.Value(i)
		}
		out.Blocks = append(out.Blocks, nb)
	}
	for _, f := range fields[1:] {
		if len(f.Blocks) != len(first.Blocks) {
			return nil, fmt.Errorf("max envelope over incongruent fields (%d vs %d blocks)",
				len(f.Blocks), len(first.Blocks))
		}
		for ib, b := range f.Blocks {
			nb := out.Blocks[ib]
			if b.Width != nb.Width || b.Rows() != nb.Rows() {
				return nil, fmt.Errorf("max envelope block %d shape mismatch", ib)
			}
			for i := range nb.Double {
				if v := b.Value(i); v > nb.Double[i] {
					nb.Double[i] = v
				}
			}
		}
	}
	return out, nil
}
