package epub

import "errors"

// Sentinel errors returned by the epub package.
var (
	// ErrInvalidEPUB indicates the archive is not a readable EPUB
	// (missing container.xml rootfile, missing package document, or a
	// malformed package structure).
	ErrInvalidEPUB = errors.New("epub: invalid epub file")

	// ErrFileNotFound indicates a manifest or container entry points at a
	// file that does not exist in the archive.
	ErrFileNotFound = errors.New("epub: file not found in archive")

	// ErrNoTOC indicates the package declares no usable navigation source
	// (neither an EPUB3 nav document nor an NCX).
	ErrNoTOC = errors.New("epub: no navigation document found")
)
