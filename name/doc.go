// Package name decodes and encodes the "name" custom section, which carries
// debug names for a module and its functions, locals, labels, types, tables,
// memories, globals, elements and data segments.
//
// The payload is a stream of framed subsections with strictly increasing
// IDs:
//
//	sec, err := name.Decode(payload)
//	if err != nil {
//	    return err
//	}
//	if fn, ok := sec.FunctionName(0); ok {
//	    fmt.Println(fn)
//	}
//
// Building a section for encoding:
//
//	sec := &name.Section{Subsections: []name.Subsection{
//	    name.ModuleName{Name: "app"},
//	    name.FunctionNames(name.NameMap{0: "main"}),
//	}}
//	payload, err := sec.Encode()
package name
