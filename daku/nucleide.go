package daku

import (
	"fmt"

	"github.com/wippyai/nucleide/errors"
	"github.com/wippyai/nucleide/internal/field"
)

// NameMap maps a locale index to text.
type NameMap = field.NameMap

// File is a named blob embedded in the Nucleide extension, such as an icon.
type File struct {
	Path string
	Data []byte
}

// NucleideID is a Nucleide subsection discriminant.
type NucleideID uint8

const (
	NucleideLocalizedNames        NucleideID = 0
	NucleideLocalizedDescriptions NucleideID = 1
	NucleideThemedIcons           NucleideID = 2
	NucleideLocalizedAssets       NucleideID = 3
	NucleideTags                  NucleideID = 4
	NucleideCategories            NucleideID = 5
	NucleideDeveloper             NucleideID = 6
)

var nucleideNames = [...]string{
	NucleideLocalizedNames:        "localized_names",
	NucleideLocalizedDescriptions: "localized_descriptions",
	NucleideThemedIcons:           "themed_icons",
	NucleideLocalizedAssets:       "localized_assets",
	NucleideTags:                  "tags",
	NucleideCategories:            "categories",
	NucleideDeveloper:             "developer",
}

func (id NucleideID) String() string {
	if int(id) < len(nucleideNames) {
		return nucleideNames[id]
	}
	return fmt.Sprintf("nucleide(%d)", uint8(id))
}

// Nucleide is one subsection of the desktop integration extension that may
// follow the portal list.
type Nucleide interface {
	ID() NucleideID
	nucleide()
}

// LocalizedNames is the application name per locale.
type LocalizedNames struct{ Names NameMap }

// LocalizedDescriptions is the store description per locale.
type LocalizedDescriptions struct{ Descriptions NameMap }

// ThemedIcons holds one icon per theme, "default" and "reduced" being the
// standard ones.
type ThemedIcons struct{ Icons []File }

// LocalizedAssets holds store assets per locale.
type LocalizedAssets struct{ Assets map[uint32][]File }

// Tags are lowercase English words without punctuation.
type Tags struct{ Tags []string }

// Categories lists store categories, at most two.
type Categories struct{ Categories []Category }

// Developer names the organization or person behind the application.
type Developer struct{ Name string }

func (LocalizedNames) ID() NucleideID        { return NucleideLocalizedNames }
func (LocalizedDescriptions) ID() NucleideID { return NucleideLocalizedDescriptions }
func (ThemedIcons) ID() NucleideID           { return NucleideThemedIcons }
func (LocalizedAssets) ID() NucleideID       { return NucleideLocalizedAssets }
func (Tags) ID() NucleideID                  { return NucleideTags }
func (Categories) ID() NucleideID            { return NucleideCategories }
func (Developer) ID() NucleideID             { return NucleideDeveloper }

func (LocalizedNames) nucleide()        {}
func (LocalizedDescriptions) nucleide() {}
func (ThemedIcons) nucleide()           {}
func (LocalizedAssets) nucleide()       {}
func (Tags) nucleide()                  {}
func (Categories) nucleide()            {}
func (Developer) nucleide()             {}

var nucleideGrammar = &field.Grammar[Nucleide]{
	Section: "nucleide",
	ID:      func(n Nucleide) uint8 { return uint8(n.ID()) },
	Rules: []field.Rule[Nucleide]{
		NucleideLocalizedNames: rule(NucleideLocalizedNames,
			func(r *field.Reader) (LocalizedNames, error) {
				m, err := r.NameMap()
				return LocalizedNames{Names: m}, err
			},
			func(w *field.Writer, v LocalizedNames) { w.NameMap(v.Names) }),
		NucleideLocalizedDescriptions: rule(NucleideLocalizedDescriptions,
			func(r *field.Reader) (LocalizedDescriptions, error) {
				m, err := r.NameMap()
				return LocalizedDescriptions{Descriptions: m}, err
			},
			func(w *field.Writer, v LocalizedDescriptions) { w.NameMap(v.Descriptions) }),
		NucleideThemedIcons: rule(NucleideThemedIcons,
			func(r *field.Reader) (ThemedIcons, error) {
				files, err := readFiles(r)
				return ThemedIcons{Icons: files}, err
			},
			func(w *field.Writer, v ThemedIcons) { writeFiles(w, v.Icons) }),
		NucleideLocalizedAssets: rule(NucleideLocalizedAssets,
			func(r *field.Reader) (LocalizedAssets, error) {
				m, err := field.Map(r, readFiles)
				return LocalizedAssets{Assets: m}, err
			},
			func(w *field.Writer, v LocalizedAssets) { field.WriteMap(w, v.Assets, writeFiles) }),
		NucleideTags: rule(NucleideTags,
			func(r *field.Reader) (Tags, error) {
				tags, err := field.Vector(r, (*field.Reader).Name)
				return Tags{Tags: tags}, err
			},
			func(w *field.Writer, v Tags) { field.WriteVector(w, v.Tags, (*field.Writer).Name) }),
		NucleideCategories: rule(NucleideCategories,
			func(r *field.Reader) (Categories, error) {
				cats, err := field.Vector(r, readCategory)
				return Categories{Categories: cats}, err
			},
			writeCategories),
		NucleideDeveloper: rule(NucleideDeveloper,
			func(r *field.Reader) (Developer, error) {
				s, err := r.Name()
				return Developer{Name: s}, err
			},
			func(w *field.Writer, v Developer) { w.Name(v.Name) }),
	},
}

// rule adapts a typed payload codec to the Nucleide grammar. A value whose
// concrete type does not belong to id is a caller error.
func rule[T Nucleide](id NucleideID, decode func(*field.Reader) (T, error), encode func(*field.Writer, T)) field.Rule[Nucleide] {
	return field.Rule[Nucleide]{
		Name: id.String(),
		Decode: func(r *field.Reader) (Nucleide, error) {
			v, err := decode(r)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
		Encode: func(w *field.Writer, n Nucleide) error {
			v, ok := n.(T)
			if !ok {
				return errors.BuilderContract(errors.PhaseEncode,
					fmt.Sprintf("%T is not a %s subsection", n, id), n)
			}
			encode(w, v)
			return nil
		},
	}
}

func readFile(r *field.Reader) (File, error) {
	path, err := r.Name()
	if err != nil {
		return File{}, err
	}
	data, err := r.Blob()
	if err != nil {
		return File{}, errors.Within(err, path)
	}
	return File{Path: path, Data: data}, nil
}

func readFiles(r *field.Reader) ([]File, error) {
	return field.Vector(r, readFile)
}

func writeFile(w *field.Writer, f File) {
	w.Name(f.Path)
	w.Blob(f.Data)
}

func writeFiles(w *field.Writer, files []File) {
	field.WriteVector(w, files, writeFile)
}

func readCategory(r *field.Reader) (Category, error) {
	at := r.Offset()
	v, err := r.Integer()
	if err != nil {
		return 0, err
	}
	if v >= uint32(len(categoryNames)) {
		return 0, errors.UnknownDiscriminant(at, "category", v)
	}
	return Category(v), nil
}

func writeCategories(w *field.Writer, v Categories) {
	field.WriteVector(w, v.Categories, func(w *field.Writer, c Category) {
		w.Integer(uint32(c))
	})
}
