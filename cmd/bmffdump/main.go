// Command bmffdump renders the atom tree of an ISO Base Media File
// Format container (MP4, MOV, 3GP, M4A) as indented text, one element
// and field per line.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"ktkr.us/pkg/bmff"
	"ktkr.us/pkg/bmff/box"
	"ktkr.us/pkg/fmtutil"
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatalf("usage: %s <mp4 filename>", os.Args[0])
	}

	f, err := bmff.OpenFileByteStream(flag.Arg(0), os.O_RDONLY, 0)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Release()

	size, err := f.Size()
	if err != nil {
		log.Fatal(err)
	}

	insp := bmff.NewTextInspector(os.Stdout)

	var pos bmff.Position
	for pos < size {
		if err := f.Seek(pos); err != nil {
			log.Fatal(err)
		}
		atom, err := box.Parse(f)
		if err != nil {
			log.Fatal(err)
		}
		if err := atom.Inspect(insp); err != nil {
			log.Fatal(err)
		}
		mvhd, ok := atom.(*box.MvhdAtom)
		if !ok {
			if p, isParent := atom.(bmff.AtomParent); isParent {
				mvhd, ok = p.GetChild(bmff.TypeMVHD, 0).(*box.MvhdAtom)
			}
		}
		if ok && mvhd.Timescale > 0 {
			d := time.Duration(mvhd.Duration) * time.Second / time.Duration(mvhd.Timescale)
			fmt.Fprintf(os.Stdout, "  (duration %s)\n", fmtutil.HMS(d))
		}
		pos += bmff.Position(atom.EffectiveSize())
	}
}
