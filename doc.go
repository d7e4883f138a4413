// Package nucleide reads and writes the custom sections of WebAssembly
// modules that describe them to a host: debug names, toolchain producers,
// and the Daku capability list with its Nucleide desktop metadata.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	nucleide/
//	├── name/            "name" section: module, function, local, ... names
//	├── producers/       "producers" section: language, processed-by, sdk
//	├── daku/            "daku" section: portals and the Nucleide extension
//	├── section/         Opaque <-> typed conversion for any custom section
//	├── module/          Section container: parse, edit, encode, verify
//	├── errors/          Structured error types for debugging
//	├── internal/binary  LEB128 and fixed-width cursor and appender
//	├── internal/field   Names, name maps, vectors and subsection framing
//	└── cmd/inspect      Command line inspector and editor
//
// # Quick Start
//
// List the custom sections of a module:
//
//	m, err := module.Parse(wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	secs, err := m.Sections()
//	if err != nil {
//	    log.Fatal(err) // name, producers and daku are misordered
//	}
//	for _, s := range secs {
//	    switch s := s.(type) {
//	    case *name.Section:
//	        if n, ok := s.ModuleName(); ok {
//	            fmt.Println("module", n)
//	        }
//	    case *daku.Section:
//	        fmt.Println("portals", s.Portals)
//	    case section.Opaque:
//	        fmt.Println("unknown", s.Name)
//	    }
//	}
//
// Declare portals and write the module back:
//
//	portals, err := daku.NewPortals(daku.PortalLog, daku.PortalFetch)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := m.SetSection(&daku.Section{Portals: portals.List()}); err != nil {
//	    log.Fatal(err)
//	}
//	out := m.Encode()
//
// # Decoding Rules
//
// Every decoder is strict. Integers are unsigned LEB128 and must fit their
// width; strings must be valid UTF-8; subsections must appear in strictly
// increasing ID order and consume exactly their declared length. Any
// violation is returned as an *errors.Error carrying the path and byte
// offset of the failure. Nothing panics on malformed input.
//
// Decoded names and file contents are copied by default. Pass
// Options{Borrow: true} to DecodeWithOptions to get views into the input
// buffer instead; the buffer must then outlive the decoded value.
//
// # Thread Safety
//
// Decoded sections are plain values and may be shared once decoding
// returns. Module is NOT thread-safe; synchronize edits made from several
// goroutines.
package nucleide
