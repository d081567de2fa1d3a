package epub

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"strings"
)

// containerPath is the well-known location of the root pointer file.
const containerPath = "META-INF/container.xml"

// containerXML models META-INF/container.xml, which points at the package
// document (OPF).
type containerXML struct {
	XMLName   xml.Name `xml:"container"`
	RootFiles []struct {
		FullPath  string `xml:"full-path,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"rootfiles>rootfile"`
}

// packagePath locates the package document inside the archive. The root
// pointer file is mandatory; without it the archive is not an EPUB. Among its
// rootfiles, the one declared with the OPF media type is preferred, then the
// first with a path.
func packagePath(zr *zip.Reader) (string, error) {
	data, err := readFile(zr, containerPath)
	if err != nil {
		return "", fmt.Errorf("epub: missing %s: %w", containerPath, ErrInvalidEPUB)
	}

	var c containerXML
	if err := xml.Unmarshal(stripBOM(data), &c); err != nil {
		return "", fmt.Errorf("epub: parse container.xml: %v: %w", err, ErrInvalidEPUB)
	}

	var fallback string
	for _, rf := range c.RootFiles {
		full := strings.TrimSpace(rf.FullPath)
		if full == "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(rf.MediaType), "application/oebps-package+xml") {
			return full, nil
		}
		if fallback == "" {
			fallback = full
		}
	}
	if fallback == "" {
		return "", fmt.Errorf("epub: container.xml has no usable rootfile: %w", ErrInvalidEPUB)
	}
	return fallback, nil
}
