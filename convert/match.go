package convert

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/govtk/archive"
)

// InstanceFilter restricts a request to named instances. The request
// document may give a single name or a list; empty means all.
type InstanceFilter []string

func (f *InstanceFilter) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*f = InstanceFilter{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*f = many
	return nil
}

// Match reports whether the filter admits the named instance.
func (f InstanceFilter) Match(name string) bool {
	if len(f) == 0 {
		return true
	}
	for _, want := range f {
		if want == name {
			return true
		}
	}
	return false
}

// FieldRequest is one requested field-name pattern.
type FieldRequest struct {
	Key string `json:"key"`
}

// OutputRequest is the declarative request document: which steps and
// frames to convert and which fields (by regex) to extract. It is
// never mutated after parsing.
type OutputRequest struct {
	Instances InstanceFilter         `json:"instances,omitempty"`
	Frames    []archive.FrameRequest `json:"frames"`
	Fields    []FieldRequest         `json:"fields"`
}

// ParseRequest reads an output request from JSON or YAML bytes and
// validates it.
func ParseRequest(data []byte) (*OutputRequest, error) {
	req := &OutputRequest{}
	if err := yaml.Unmarshal(data, req); err != nil {
		return nil, fmt.Errorf("parsing output request: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// Validate enforces the request document rules: frames and fields
// present and non-empty, each frame entry naming a step with a
// non-empty list, each field entry carrying a compilable pattern.
func (r *OutputRequest) Validate() error {
	if len(r.Frames) == 0 {
		return fmt.Errorf("output request has no frames")
	}
	if len(r.Fields) == 0 {
		return fmt.Errorf("output request has no fields")
	}
	for i, fr := range r.Frames {
		if fr.Step == "" {
			return fmt.Errorf("frame entry %d has no step name", i)
		}
		if len(fr.List) == 0 {
			return fmt.Errorf("frame entry %d (%s) has an empty frame list", i, fr.Step)
		}
	}
	for i, fd := range r.Fields {
		if fd.Key == "" {
			return fmt.Errorf("field entry %d has no key", i)
		}
		if _, err := regexp.Compile(fd.Key); err != nil {
			return fmt.Errorf("field entry %d: bad pattern %q: %w", i, fd.Key, err)
		}
	}
	return nil
}

// FrameFields lists the field names matched for one frame. A frame
// with no matches still appears with an empty list.
type FrameFields struct {
	Frame  int
	Fields []string
}

// StepSelection is the matcher's result for one step.
type StepSelection struct {
	Frames []int
	Fields []FrameFields
}

// Selection maps step names to their matched frames and fields.
type Selection map[string]StepSelection

// Match intersects the request with the availability maps. Requested
// frames absent from the archive are dropped silently; an empty frame
// intersection or zero field matches across all frames of a step is a
// hard error. Field patterns use full-string regex matching, so "S"
// does not match "S11". Duplicate matches from overlapping patterns
// are removed when dedup is set.
func Match(avail archive.Availability, req *OutputRequest, dedup bool) (Selection, error) {
	// Anchor each pattern so matching is full-string, not substring.
	patterns := make([]*regexp.Regexp, len(req.Fields))
	for i, fd := range req.Fields {
		re, err := regexp.Compile("^(?:" + fd.Key + ")$")
		if err != nil {
			return nil, fmt.Errorf("bad field pattern %q: %w", fd.Key, err)
		}
		patterns[i] = re
	}

	matches := make(Selection, len(req.Frames))
	for _, fr := range req.Frames {
		wanted := append([]int(nil), fr.List...)
		sort.Ints(wanted)
		frames := intersect(wanted, avail.Frames[fr.Step])
		if len(frames) == 0 {
			return nil, fmt.Errorf("no matching frames found in %s", fr.Step)
		}

		sel := StepSelection{Frames: frames}
		total := 0
		for _, frame := range frames {
			ff := FrameFields{Frame: frame}
			for _, re := range patterns {
				for _, name := range avail.Fields[fr.Step][frame] {
					if re.MatchString(name) {
						ff.Fields = append(ff.Fields, name)
					}
				}
			}
			if dedup {
				ff.Fields = dedupe(ff.Fields)
			}
			total += len(ff.Fields)
			sel.Fields = append(sel.Fields, ff)
		}
		if total == 0 {
			return nil, fmt.Errorf("no matching fields found in %s", fr.Step)
		}
		matches[fr.Step] = sel
	}
	return matches, nil
}

// intersect computes the ordered, duplicate-free intersection of a
// sorted request list with the available list.
func intersect(wanted, available []int) []int {
	avail := make(map[int]bool, len(available))
	for _, v := range available {
		avail[v] = true
	}
	var out []int
	for i, v := range wanted {
		if i > 0 && v == wanted[i-1] {
			continue
		}
		if avail[v] {
			out = append(out, v)
		}
	}
	return out
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
