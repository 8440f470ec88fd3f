package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
)

// On-disk form of an exported archive. The proprietary result file is
// dumped to this structure by a companion exporter running against the
// native SDK; integration-point fields are exported together with
// their element-nodal extrapolation blocks.
type modelFile struct {
	Name      string         `json:"name"`
	Instances []instanceFile `json:"instances"`
	Steps     []stepFile     `json:"steps"`
}

type instanceFile struct {
	Name     string        `json:"name"`
	Space    string        `json:"space"`
	Nodes    []nodeFile    `json:"nodes"`
	Elements []elementFile `json:"elements"`
}

type nodeFile struct {
	Label       int       `json:"label"`
	Coordinates []float64 `json:"coordinates"`
}

type elementFile struct {
	Label        int    `json:"label"`
	Type         string `json:"type"`
	Section      string `json:"section"`
	Connectivity []int  `json:"connectivity"`
}

type stepFile struct {
	Name   string      `json:"name"`
	Frames []frameFile `json:"frames"`
}

type frameFile struct {
	ID        int         `json:"id"`
	Increment int         `json:"increment"`
	Value     float64     `json:"value"`
	Fields    []fieldFile `json:"fields"`
}

type fieldFile struct {
	Name      string         `json:"name"`
	Type      string         `json:"type"`
	Locations []locationFile `json:"locations"`
	Blocks    []blockFile    `json:"blocks"`
}

type locationFile struct {
	Position      string             `json:"position"`
	SectionPoints []sectionPointFile `json:"section_points,omitempty"`
}

type sectionPointFile struct {
	Number      int    `json:"number"`
	Description string `json:"description,omitempty"`
}

type blockFile struct {
	Instance      string    `json:"instance"`
	Position      string    `json:"position"`
	SectionPoint  int       `json:"section_point,omitempty"`
	Precision     string    `json:"precision"`
	Width         int       `json:"width"`
	ElementLabels []int     `json:"element_labels,omitempty"`
	NodeLabels    []int     `json:"node_labels,omitempty"`
	Data          []float64 `json:"data"`
}

// Load reads an exported result archive from a .json or .yaml dump.
// A missing file or an unrecognized extension is fatal: nothing
// downstream can recover from an unreadable archive.
func Load(path string) (*Model, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("%s is not an archive dump (want .json or .yaml)", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", path, err)
	}
	var mf modelFile
	if err = yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parsing archive %s: %w", path, err)
	}
	m, err := mf.build()
	if err != nil {
		return nil, fmt.Errorf("archive %s: %w", path, err)
	}
	m.Path = path
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), ext)
	}
	return m, nil
}

func (mf *modelFile) build() (*Model, error) {
	m := &Model{Name: mf.Name}
	for _, inf := range mf.Instances {
		inst := &Instance{Name: inf.Name}
		switch inf.Space {
		case "3d", "":
			inst.Dimension = ThreeD
		case "2d planar", "2d":
			inst.Dimension = TwoDPlanar
		case "axisymmetric":
			inst.Dimension = Axisymmetric
		default:
			return nil, fmt.Errorf("instance %s: bad space %q", inf.Name, inf.Space)
		}
		for _, nf := range inf.Nodes {
			inst.Nodes = append(inst.Nodes, Node{Label: nf.Label, Coord: nf.Coordinates})
		}
		for _, ef := range inf.Elements {
			inst.Elements = append(inst.Elements, Element{
				Label:        ef.Label,
				Type:         ef.Type,
				Connectivity: ef.Connectivity,
				Section:      ef.Section,
			})
		}
		m.Instances = append(m.Instances, inst)
	}
	for _, sf := range mf.Steps {
		step := &Step{Name: sf.Name}
		for _, ff := range sf.Frames {
			frame := Frame{ID: ff.ID, Increment: ff.Increment, Value: ff.Value}
			for _, flf := range ff.Fields {
				field, err := flf.build()
				if err != nil {
					return nil, fmt.Errorf("step %s frame %d: %w", sf.Name, ff.ID, err)
				}
				frame.Fields = append(frame.Fields, field)
			}
			step.Frames = append(step.Frames, frame)
		}
		m.Steps = append(m.Steps, step)
	}
	return m, nil
}

func (ff *fieldFile) build() (*FieldOutput, error) {
	field := &FieldOutput{Name: ff.Name}
	var ok bool
	if field.Type, ok = parseDataType(ff.Type); !ok {
		return nil, fmt.Errorf("field %s: bad data type %q", ff.Name, ff.Type)
	}
	for _, lf := range ff.Locations {
		pos, ok := parsePosition(lf.Position)
		if !ok {
			return nil, fmt.Errorf("field %s: bad position %q", ff.Name, lf.Position)
		}
		loc := Location{Position: pos}
		for _, spf := range lf.SectionPoints {
			loc.SectionPoints = append(loc.SectionPoints,
				SectionPoint{Number: spf.Number, Description: spf.Description})
		}
		field.Locations = append(field.Locations, loc)
	}
	for i, bf := range ff.Blocks {
		pos, ok := parsePosition(bf.Position)
		if !ok {
			return nil, fmt.Errorf("field %s block %d: bad position %q", ff.Name, i, bf.Position)
		}
		if bf.Width < 1 {
			return nil, fmt.Errorf("field %s block %d: bad width %d", ff.Name, i, bf.Width)
		}
		block := &BulkData{
			Instance:      bf.Instance,
			Position:      pos,
			SectionPoint:  bf.SectionPoint,
			Width:         bf.Width,
			ElementLabels: bf.ElementLabels,
			NodeLabels:    bf.NodeLabels,
		}
		switch bf.Precision {
		case "double":
			block.Precision = DoublePrecision
			block.Double = bf.Data
		case "single", "":
			block.Precision = SinglePrecision
			block.Single = make([]float32, len(bf.Data))
			for j, v := range bf.Data {
				block.Single[j] = float32(v)
			}
		default:
			return nil, fmt.Errorf("field %s block %d: bad precision %q", ff.Name, i, bf.Precision)
		}
		field.Blocks = append(field.Blocks, block)
	}
	return field, nil
}

func parsePosition(s string) (Position, bool) {
	switch s {
	case "nodal":
		return Nodal, true
	case "element nodal":
		return ElementNodal, true
	case "integration point":
		return IntegrationPoint, true
	case "centroid":
		return Centroid, true
	case "whole element":
		return WholeElement, true
	case "undefined", "":
		return Undefined, true
	}
	return Undefined, false
}

func parseDataType(s string) (DataType, bool) {
	switch s {
	case "scalar":
		return Scalar, true
	case "vector":
		return Vector, true
	case "tensor full", "tensor 3d full":
		return TensorFull, true
	case "tensor planar", "tensor 2d planar", "tensor 3d planar":
		return TensorPlanar, true
	}
	return UnknownType, false
}
