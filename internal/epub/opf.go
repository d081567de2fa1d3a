package epub

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// opfPackage represents the root <package> element of the package document.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

// opfMetadata captures every metadata child element generically so the
// metadata text can be rendered without enumerating the Dublin Core set.
type opfMetadata struct {
	Elements []opfMetaElement `xml:",any"`
}

type opfMetaElement struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type opfManifest struct {
	Items []opfManifestItem `xml:"item"`
}

type opfManifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type opfSpine struct {
	Toc      string `xml:"toc,attr"`
	ItemRefs []struct {
		IDRef string `xml:"idref,attr"`
	} `xml:"itemref"`
}

// parseOPF parses the package document. Named HTML entities are rewritten to
// numeric references first; encoding/xml would otherwise reject them.
func parseOPF(data []byte) (*opfPackage, error) {
	data = stripBOM(preprocessEntities(data))

	var pkg opfPackage
	if err := xml.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("epub: parse package document: %w", err)
	}
	if pkg.Version == "" {
		pkg.Version = "2.0"
	}
	return &pkg, nil
}

// metadataText renders the package metadata as "name: value" lines, one per
// element with text content. <meta> property elements are skipped.
func metadataText(md opfMetadata) string {
	var b strings.Builder
	for _, el := range md.Elements {
		name := el.XMLName.Local
		value := strings.TrimSpace(el.Value)
		if name == "meta" || value == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", name, value)
	}
	return b.String()
}

// manifestMap builds the id → href lookup from the manifest.
func manifestMap(manifest opfManifest) map[string]string {
	m := make(map[string]string, len(manifest.Items))
	for _, item := range manifest.Items {
		m[item.ID] = item.Href
	}
	return m
}

// navItemHref returns the href of the manifest item declaring the "nav"
// property, or "" when the package has none.
func navItemHref(manifest opfManifest) string {
	for _, item := range manifest.Items {
		for _, prop := range strings.Fields(item.Properties) {
			if prop == "nav" {
				return item.Href
			}
		}
	}
	return ""
}
