package interop

import "fmt"

// Target is what a binding evaluates to at runtime.
type Target int

const (
	// TargetBase is the React module object (default or namespace).
	TargetBase Target = iota
	// TargetCreateElement is React's createElement function.
	TargetCreateElement
)

func (t Target) String() string {
	switch t {
	case TargetBase:
		return "base"
	case TargetCreateElement:
		return "createElement"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// ModuleKind is the syntax a binding was discovered in.
type ModuleKind int

const (
	ModuleESM ModuleKind = iota
	ModuleCJS
)

func (k ModuleKind) String() string {
	switch k {
	case ModuleESM:
		return "esm"
	case ModuleCJS:
		return "cjs"
	default:
		return fmt.Sprintf("ModuleKind(%d)", int(k))
	}
}

// Binding associates a top-level local name with React or createElement.
type Binding struct {
	LocalName  string
	Target     Target
	ModuleKind ModuleKind
}

// Describe returns a one-line, human-readable form of the binding, e.g.
// "React -> react module object (esm)".
func (b Binding) Describe() string {
	what := "react module object"
	if b.Target == TargetCreateElement {
		what = "react createElement"
	}
	return fmt.Sprintf("%s -> %s (%s)", b.LocalName, what, b.ModuleKind)
}

// HasESM reports whether any binding came from an import declaration.
func HasESM(bindings []Binding) bool {
	for _, b := range bindings {
		if b.ModuleKind == ModuleESM {
			return true
		}
	}
	return false
}

// nameSet is the membership view of a binding list for one target.
func nameSet(bindings []Binding, target Target) map[string]struct{} {
	set := make(map[string]struct{})
	for _, b := range bindings {
		if b.Target == target {
			set[b.LocalName] = struct{}{}
		}
	}
	return set
}
