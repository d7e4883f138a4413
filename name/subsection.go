package name

import (
	"fmt"

	"github.com/wippyai/nucleide/internal/field"
)

// NameMap maps an index to a name.
type NameMap = field.NameMap

// IndirectNameMap maps an outer index (usually a function) to a NameMap.
type IndirectNameMap = field.IndirectNameMap

// ID is a name subsection discriminant. Subsections must appear in strictly
// increasing ID order.
type ID uint8

const (
	SubsectionModule   ID = 0
	SubsectionFunction ID = 1
	SubsectionLocal    ID = 2
	SubsectionLabel    ID = 3
	SubsectionType     ID = 4
	SubsectionTable    ID = 5
	SubsectionMemory   ID = 6
	SubsectionGlobal   ID = 7
	SubsectionElement  ID = 8
	SubsectionData     ID = 9
)

var idNames = [...]string{
	SubsectionModule:   "module",
	SubsectionFunction: "function",
	SubsectionLocal:    "local",
	SubsectionLabel:    "label",
	SubsectionType:     "type",
	SubsectionTable:    "table",
	SubsectionMemory:   "memory",
	SubsectionGlobal:   "global",
	SubsectionElement:  "element",
	SubsectionData:     "data",
}

func (id ID) String() string {
	if int(id) < len(idNames) {
		return idNames[id]
	}
	return fmt.Sprintf("subsection(%d)", uint8(id))
}

// Subsection is one entry of a name section: ModuleName, Names or
// IndirectNames.
type Subsection interface {
	ID() ID
	subsection()
}

// ModuleName names the module itself.
type ModuleName struct {
	Name string
}

func (ModuleName) ID() ID      { return SubsectionModule }
func (ModuleName) subsection() {}

// Names is a flat index to name subsection. Kind is one of function, type,
// table, memory, global, element or data.
type Names struct {
	Kind  ID
	Names NameMap
}

func (n Names) ID() ID    { return n.Kind }
func (Names) subsection() {}

// IndirectNames is a per-function subsection, either local or label names.
type IndirectNames struct {
	Kind  ID
	Names IndirectNameMap
}

func (n IndirectNames) ID() ID    { return n.Kind }
func (IndirectNames) subsection() {}

func FunctionNames(m NameMap) Names { return Names{Kind: SubsectionFunction, Names: m} }
func TypeNames(m NameMap) Names     { return Names{Kind: SubsectionType, Names: m} }
func TableNames(m NameMap) Names    { return Names{Kind: SubsectionTable, Names: m} }
func MemoryNames(m NameMap) Names   { return Names{Kind: SubsectionMemory, Names: m} }
func GlobalNames(m NameMap) Names   { return Names{Kind: SubsectionGlobal, Names: m} }
func ElementNames(m NameMap) Names  { return Names{Kind: SubsectionElement, Names: m} }
func DataNames(m NameMap) Names     { return Names{Kind: SubsectionData, Names: m} }

func LocalNames(m IndirectNameMap) IndirectNames {
	return IndirectNames{Kind: SubsectionLocal, Names: m}
}

func LabelNames(m IndirectNameMap) IndirectNames {
	return IndirectNames{Kind: SubsectionLabel, Names: m}
}
