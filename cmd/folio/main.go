package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justyntemme/folio/internal/config"
	"github.com/justyntemme/folio/internal/epub"
	"github.com/justyntemme/folio/internal/ui"
)

func main() {
	width := flag.Int("w", 75, "Maximum text width in columns")
	startInToc := flag.Bool("t", false, "Open the table of contents instead of the last position")
	showMeta := flag.Bool("m", false, "Print the book metadata and exit")
	showHelp := flag.Bool("h", false, "Show help message")
	flag.Usage = printUsage
	flag.Parse()

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	state, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading state: %v\n", err)
		os.Exit(1)
	}

	// A path argument wins; otherwise reopen the most recent book.
	bookPath := state.Last
	if flag.NArg() > 0 {
		bookPath, err = filepath.Abs(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if bookPath == "" {
		printUsage()
		os.Exit(1)
	}

	if *showMeta {
		meta, err := epub.ReadMetadata(bookPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", bookPath, err)
			os.Exit(1)
		}
		fmt.Println(meta)
		os.Exit(0)
	}

	book, err := epub.Open(bookPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", bookPath, err)
		os.Exit(1)
	}

	opts := ui.Options{
		MaxWidth:   *width,
		StartInTOC: *startInToc,
	}
	if pos, ok := state.Position(bookPath); ok {
		opts.Chapter = pos.Chapter
		opts.Byte = pos.Byte
	} else {
		// Nothing saved yet: start from the table of contents.
		opts.StartInTOC = true
	}

	reader := ui.NewReader(book, opts)
	p := tea.NewProgram(reader, tea.WithAltScreen(), tea.WithMouseCellMotion())
	model, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}

	if r, ok := model.(*ui.Reader); ok {
		chapter, byteOff := r.SavedPosition()
		state.SetPosition(bookPath, config.Position{Chapter: chapter, Byte: byteOff})
		if err := state.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save position: %v\n", err)
		}
	}
}

func printUsage() {
	fmt.Println("folio - Terminal EPUB reader")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  folio [flags] <book.epub>   Read a book")
	fmt.Println("  folio                       Reopen the last book")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -w <cols>   Maximum text width (default 75)")
	fmt.Println("  -t          Start in the table of contents")
	fmt.Println("  -m          Print book metadata and exit")
	fmt.Println("  -h          Show this help message")
	fmt.Println()
	fmt.Println("State: ~/.config/folio/state.json")
}
