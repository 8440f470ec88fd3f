package archive

import (
	"fmt"
	"sort"
)

// Info prints a summary of the whole archive.
func (m *Model) Info(verbose bool) {
	fmt.Printf("Archive: %s\n", m.Path)
	m.InstancesInfo(verbose)
	m.StepsInfo(verbose)
}

// InstancesInfo prints per-instance node, element and section counts.
func (m *Model) InstancesInfo(verbose bool) {
	fmt.Printf("Number of instances: %d\n", len(m.Instances))
	for _, inst := range m.Instances {
		fmt.Printf(".. %s (%s)\n", inst.Name, inst.Dimension)
		fmt.Printf(".... Number of nodes: %d\n", len(inst.Nodes))
		fmt.Printf(".... Number of elements: %d\n", len(inst.Elements))

		types := make(map[string]int)
		sections := make(map[string]int)
		for i := range inst.Elements {
			types[inst.Elements[i].Type]++
			sections[ClassifySection(inst.Elements[i].Section).String()]++
		}
		for _, name := range sortedKeys(types) {
			fmt.Printf("...... %s elements: %d\n", name, types[name])
		}
		for _, name := range sortedKeys(sections) {
			fmt.Printf("...... %s sections: %d\n", name, sections[name])
		}

		if verbose {
			fmt.Printf("       | %11s | %11s | %19s | %s\n",
				"Label", "Type", "Section", "Connectivity")
			for i := range inst.Elements {
				el := &inst.Elements[i]
				fmt.Printf("       | %11d | %11s | %19s | %v\n",
					el.Label, el.Type, ClassifySection(el.Section), el.Connectivity)
			}
		}
	}
}

// StepsInfo prints the step and frame structure.
func (m *Model) StepsInfo(verbose bool) {
	fmt.Printf("Number of steps: %d\n", len(m.Steps))
	for _, step := range m.Steps {
		fmt.Printf(".. %s [%d frames]\n", step.Name, len(step.Frames))
		if len(step.Frames) == 0 {
			continue
		}
		fmt.Printf(".... Starting value: %g\n", step.Frames[0].Value)
		fmt.Printf(".... Ending value: %g\n", step.Frames[len(step.Frames)-1].Value)
		if verbose {
			for i := range step.Frames {
				fr := &step.Frames[i]
				fmt.Printf("     | %11d | %11d | %11.4e |\n", fr.ID, fr.Increment, fr.Value)
			}
		}
	}
}

// FramesInfo prints the frames of one step.
func (m *Model) FramesInfo(stepName string, verbose bool) error {
	step := m.Step(stepName)
	if step == nil {
		return fmt.Errorf("no step named %s", stepName)
	}
	fmt.Printf("%s [%d frames]\n", step.Name, len(step.Frames))
	for i := range step.Frames {
		fr := &step.Frames[i]
		fmt.Printf(".. frame %d: increment %d, value %g\n", fr.ID, fr.Increment, fr.Value)
		if verbose {
			for _, fo := range fr.Fields {
				fmt.Printf(".... %s (%s, %d blocks)\n", fo.Name, fo.Type, len(fo.Blocks))
			}
		}
	}
	return nil
}

// FieldsInfo prints the field outputs of one frame of one step.
func (m *Model) FieldsInfo(stepName string, frameID int, verbose bool) error {
	step := m.Step(stepName)
	if step == nil {
		return fmt.Errorf("no step named %s", stepName)
	}
	frame := step.Frame(frameID)
	if frame == nil {
		return fmt.Errorf("no frame %d in step %s", frameID, stepName)
	}
	fmt.Printf("Number of field outputs: %d\n", len(frame.Fields))
	for _, fo := range frame.Fields {
		if verbose {
			for _, loc := range fo.Locations {
				fmt.Printf("| %-20s | %-12s | %2d blocks | %2d points | %s |\n",
					fo.Name, fo.Type, len(fo.Blocks), len(loc.SectionPoints), loc.Position)
			}
		} else {
			fmt.Printf("...... %s\n", fo.Name)
		}
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
