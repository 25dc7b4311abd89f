// Stencil CLI - drives the specializable interpreter over the
// countdown-sum fixture program.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/stencil/manifest"
	"github.com/chazu/stencil/pkg/bytecode"
	"github.com/chazu/stencil/pkg/engine"
	"github.com/chazu/stencil/pkg/specialize"
	"github.com/chazu/stencil/pkg/store"
)

// executeSpecialized receives the specialized entry point if the
// external specializer ever produces one. Written at most once, during
// initialization; every normal entry reads it through Dispatch.
var executeSpecialized specialize.EntrySlot

func main() {
	goal := flag.Uint64("n", 0, "Override the manifest iteration count")
	dis := flag.Bool("dis", false, "Print the program disassembly and exit")
	verbosity := flag.Int("v", 0, "Log verbosity")
	dir := flag.String("C", ".", "Directory containing stencil.toml")
	saveProg := flag.Bool("save", false, "Save the program to the store before running")
	loadProg := flag.Bool("load", false, "Run the stored program instead of building the fixture")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: stencil [options]\n\n")
		fmt.Fprintf(os.Stderr, "Runs the countdown-sum fixture through the specialization dispatcher.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  stencil -n 5           # Sum 5+4+3+2+1, print Result: 15\n")
		fmt.Fprintf(os.Stderr, "  stencil -dis           # Show the fixture's bytecode listing\n")
		fmt.Fprintf(os.Stderr, "  stencil -save -n 1000  # Persist the encoded program\n")
	}
	flag.Parse()

	commonlog.Configure(*verbosity, nil)
	log := commonlog.GetLogger("stencil")

	m, err := manifest.Load(*dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *goal != 0 {
		m.Program.Goal = *goal
	}

	prog, err := buildProgram(m, *loadProg, *saveProg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *dis {
		fmt.Print(prog.DisassembleWithName(m.Program.Name))
		return
	}

	// One-time initialization: register the redirected entry point and
	// the program's constant memory with the specializer integration.
	// This completes, or does not, strictly before the dispatch below;
	// a failure leaves the slot unset and the generic engine carries
	// the run.
	integ := specialize.NewFallback()
	specializable := engine.NewSpecializable(integ)
	specializable.Trace = m.Program.Trace
	entry := func() (bytecode.Word, error) {
		return specializable.Run(prog)
	}
	if err := specialize.Register(integ, entry, &executeSpecialized, prog); err != nil {
		log.Warningf("specialization registration failed, running generic: %s", err.Error())
	}

	generic := engine.New()
	generic.Trace = m.Program.Trace
	if _, err := specialize.Dispatch(&executeSpecialized, func() (bytecode.Word, error) {
		return generic.Run(prog)
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildProgram assembles the fixture (or loads it from the store) and
// optionally persists it.
func buildProgram(m *manifest.Manifest, loadProg, saveProg bool) (*bytecode.Program, error) {
	if loadProg || saveProg {
		path := m.StorePath()
		if path == "" {
			return nil, fmt.Errorf("no store.path configured in %s", manifest.FileName)
		}
		s, err := store.Open(path)
		if err != nil {
			return nil, err
		}
		defer s.Close()

		if loadProg {
			return s.Load(m.Program.Name)
		}
		prog := bytecode.CountdownSum(bytecode.Word(m.Program.Goal))
		if err := s.Save(m.Program.Name, prog); err != nil {
			return nil, err
		}
		return prog, nil
	}
	return bytecode.CountdownSum(bytecode.Word(m.Program.Goal)), nil
}
