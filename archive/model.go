package archive

import "fmt"

// Dimension is the embedded space of a part instance
type Dimension int

const (
	ThreeD Dimension = iota
	TwoDPlanar
	Axisymmetric
)

func (d Dimension) String() string {
	return [...]string{"3D", "2D planar", "axisymmetric"}[d]
}

// Node is one mesh node as stored in the archive. Coord has two entries
// for planar and axisymmetric instances, three for 3D instances.
type Node struct {
	Label int
	Coord []float64
}

// Element carries the archive's element record: label, raw type code
// (modifiers included, e.g. "C3D8R"), connectivity in node labels and
// the free-text section category name.
type Element struct {
	Label        int
	Type         string
	Connectivity []int
	Section      string
}

// Instance is a named part occurrence. Node and element labels are
// unique within an instance but not necessarily contiguous.
type Instance struct {
	Name      string
	Dimension Dimension
	Nodes     []Node
	Elements  []Element
}

// Frame is one increment snapshot within a step. ID is the frame index
// within the step's frame sequence.
type Frame struct {
	ID        int
	Increment int
	Value     float64
	Fields    []*FieldOutput
}

// Field returns the named field output of this frame, or nil.
func (f *Frame) Field(name string) *FieldOutput {
	for _, fo := range f.Fields {
		if fo.Name == name {
			return fo
		}
	}
	return nil
}

// Step is one analysis step with its ordered frame sequence.
type Step struct {
	Name   string
	Frames []Frame
}

// Frame returns the frame with the given index, or nil.
func (s *Step) Frame(id int) *Frame {
	for i := range s.Frames {
		if s.Frames[i].ID == id {
			return &s.Frames[i]
		}
	}
	return nil
}

// Model is the root of a loaded result archive.
type Model struct {
	Name      string
	Path      string
	Instances []*Instance
	Steps     []*Step
}

// Instance returns the named part instance, or nil.
func (m *Model) Instance(name string) *Instance {
	for _, inst := range m.Instances {
		if inst.Name == name {
			return inst
		}
	}
	return nil
}

// Step returns the named analysis step, or nil.
func (m *Model) Step(name string) *Step {
	for _, s := range m.Steps {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// FrameRequest names a step and the frame indices wanted from it.
type FrameRequest struct {
	Step string `json:"step"`
	List []int  `json:"list"`
}

// Availability holds what the archive actually has for a set of
// requested steps: the frame indices present per step and the field
// names present per (step, frame).
type Availability struct {
	Frames map[string][]int
	Fields map[string]map[int][]string
}

// FieldSummary gathers frame and field availability for the requested
// steps. Requested frames that do not exist are left out; an unknown
// step contributes nothing, which the matcher later reports as a hard
// error (no matching frames).
func (m *Model) FieldSummary(requests []FrameRequest) Availability {
	avail := Availability{
		Frames: make(map[string][]int),
		Fields: make(map[string]map[int][]string),
	}
	for _, req := range requests {
		step := m.Step(req.Step)
		if step == nil {
			continue
		}
		for _, id := range req.List {
			frame := step.Frame(id)
			if frame == nil {
				continue
			}
			avail.Frames[req.Step] = append(avail.Frames[req.Step], id)
			if avail.Fields[req.Step] == nil {
				avail.Fields[req.Step] = make(map[int][]string)
			}
			names := make([]string, 0, len(frame.Fields))
			for _, fo := range frame.Fields {
				names = append(names, fo.Name)
			}
			avail.Fields[req.Step][id] = names
		}
	}
	return avail
}

// InstanceInfo summarizes one instance's section makeup for the
// support check.
type InstanceInfo struct {
	Supported bool
	Composite bool
	Sections  []SectionCategory
}

// InstanceSummary classifies every instance's section categories and
// flags instances that mix composite and non-composite sections as
// unsupported.
func (m *Model) InstanceSummary() map[string]InstanceInfo {
	summary := make(map[string]InstanceInfo, len(m.Instances))
	for _, inst := range m.Instances {
		summary[inst.Name] = SupportOf(inst)
	}
	return summary
}

// SupportOf computes the support/composite flags for a single
// instance from the distinct set of its section categories.
func SupportOf(inst *Instance) InstanceInfo {
	seen := make(map[SectionCategory]bool)
	var sections []SectionCategory
	for i := range inst.Elements {
		cat := ClassifySection(inst.Elements[i].Section)
		if !seen[cat] {
			seen[cat] = true
			sections = append(sections, cat)
		}
	}
	var composite, nonComposite bool
	for _, cat := range sections {
		if cat.Composite() {
			composite = true
		} else {
			nonComposite = true
		}
	}
	return InstanceInfo{
		Supported: !(composite && nonComposite),
		Composite: composite,
		Sections:  sections,
	}
}

// SectionSet formats the distinct section categories for diagnostics.
func (info InstanceInfo) SectionSet() string {
	names := make([]string, len(info.Sections))
	for i, cat := range info.Sections {
		names[i] = cat.String()
	}
	return fmt.Sprintf("%v", names)
}
