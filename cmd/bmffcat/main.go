// Command bmffcat copies the top-level atoms of one or more ISO Base
// Media File Format containers into a single output file, demonstrating
// that an atom tree parsed from one stream can be detached and rewritten
// byte-for-byte into another. The atoms are written back to back in
// input order; no new root atom is built around them. Tool naming
// follows the cat/ccat convention for
// container-concatenation utilities.
package main

import (
	"flag"
	"log"
	"os"

	"ktkr.us/pkg/bmff"
	"ktkr.us/pkg/bmff/box"
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	if flag.NArg() < 2 {
		log.Fatalf("usage: %s <out.mp4> <in.mp4> [in2.mp4 ...]", os.Args[0])
	}

	out, err := bmff.OpenFileByteStream(flag.Arg(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Release()

	var pos bmff.Position
	for _, name := range flag.Args()[1:] {
		atoms, err := readAtoms(name)
		if err != nil {
			log.Fatalf("%s: %v", name, err)
		}
		for _, atom := range atoms {
			atom.Detach()
			if err := out.Seek(pos); err != nil {
				log.Fatal(err)
			}
			if err := atom.Write(out); err != nil {
				log.Fatal(err)
			}
			pos += bmff.Position(atom.EffectiveSize())
		}
		log.Printf("%s: copied %d atoms", name, len(atoms))
	}
}

// readAtoms parses every top-level atom of the named file in full; it
// opens its own stream so each file's UnknownAtom children can keep a
// live source reference through to the final Write above.
func readAtoms(name string) ([]bmff.Atom, error) {
	f, err := bmff.OpenFileByteStream(name, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}

	size, err := f.Size()
	if err != nil {
		f.Release()
		return nil, err
	}

	var atoms []bmff.Atom
	var pos bmff.Position
	for pos < size {
		if err := f.Seek(pos); err != nil {
			f.Release()
			return nil, err
		}
		atom, err := box.Parse(f)
		if err != nil {
			f.Release()
			return nil, err
		}
		atoms = append(atoms, atom)
		pos += bmff.Position(atom.EffectiveSize())
	}

	// The stream reference taken here is handed off to whichever
	// UnknownAtom children were parsed above (each called
	// AddReference itself); release our own top-level hold on it now
	// that the slice of parsed atoms, not this function, owns it.
	f.Release()
	return atoms, nil
}
