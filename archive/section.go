package archive

import "strings"

// SectionCategory is the closed classification of an element's
// through-thickness construction. The archive stores free-text section
// names; ClassifySection is the single place that text is interpreted,
// so the mesh translator and the instance support check cannot drift
// apart.
type SectionCategory int

const (
	SectionOther SectionCategory = iota
	SectionSolid
	SectionSolidComposite
	SectionShell
	SectionShellComposite
)

func (c SectionCategory) String() string {
	return [...]string{
		"Other", "Solid", "Solid composite", "Shell", "Shell composite",
	}[c]
}

// Composite reports whether through-thickness reduction applies to
// elements of this category.
func (c SectionCategory) Composite() bool {
	return c == SectionSolidComposite || c == SectionShellComposite
}

// ClassifySection maps an archive section-category name such as
// "solid < composite > section" onto the closed enumeration. Composite
// variants must be tested before their plain counterparts since the
// raw names contain both substrings.
func ClassifySection(raw string) SectionCategory {
	switch {
	case strings.Contains(raw, "shell < composite >"):
		return SectionShellComposite
	case strings.Contains(raw, "shell"):
		return SectionShell
	case strings.Contains(raw, "solid < composite >"):
		return SectionSolidComposite
	case strings.Contains(raw, "solid"):
		return SectionSolid
	default:
		return SectionOther
	}
}
