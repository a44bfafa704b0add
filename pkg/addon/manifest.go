package addon

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ManifestFile is the metadata file every add-on directory carries
const ManifestFile = "addon.xml"

// ErrInvalidAddon is wrapped by every parse failure in this package
var ErrInvalidAddon = errors.New("invalid addon metadata")

type xmlAddon struct {
	XMLName    xml.Name       `xml:"addon"`
	ID         string         `xml:"id,attr"`
	Version    string         `xml:"version,attr"`
	Imports    []xmlImport    `xml:"requires>import"`
	Extensions []xmlExtension `xml:"extension"`
}

type xmlImport struct {
	Addon    string  `xml:"addon,attr"`
	Version  *string `xml:"version,attr"`
	Optional *string `xml:"optional,attr"`
}

type xmlExtension struct {
	Point string `xml:"point,attr"`
}

type xmlIndex struct {
	XMLName xml.Name   `xml:"addons"`
	Addons  []xmlAddon `xml:"addon"`
}

// ParseXML decodes a single addon.xml document
func ParseXML(r io.Reader) (*Addon, error) {
	var doc xmlAddon
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse addon.xml: %w", ErrInvalidAddon, err)
	}
	return doc.toAddon()
}

// ParseIndexXML decodes a repository addons.xml listing every add-on of one branch
func ParseIndexXML(r io.Reader) ([]*Addon, error) {
	var doc xmlIndex
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse addons.xml: %w", ErrInvalidAddon, err)
	}

	addons := make([]*Addon, 0, len(doc.Addons))
	for i := range doc.Addons {
		a, err := doc.Addons[i].toAddon()
		if err != nil {
			return nil, fmt.Errorf("addon #%d: %w", i+1, err)
		}
		addons = append(addons, a)
	}
	return addons, nil
}

// LoadFile loads an addon.xml from path
func LoadFile(path string) (*Addon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read addon metadata: %w", err)
	}
	defer f.Close()

	a, err := ParseXML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// LoadDir loads the addon.xml found in an add-on directory
func LoadDir(dir string) (*Addon, error) {
	return LoadFile(filepath.Join(dir, ManifestFile))
}

// Load accepts either an add-on directory or the path of an addon.xml file
func Load(path string) (*Addon, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read addon metadata: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

func (x *xmlAddon) toAddon() (*Addon, error) {
	id := strings.TrimSpace(x.ID)
	if id == "" {
		return nil, fmt.Errorf("%w: addon id is required", ErrInvalidAddon)
	}

	deps := make([]Dependency, 0, len(x.Imports))
	for _, imp := range x.Imports {
		if strings.TrimSpace(imp.Addon) == "" {
			return nil, fmt.Errorf("%w: %s declares an import without an addon attribute", ErrInvalidAddon, id)
		}
		rawVersion := ""
		if imp.Version != nil {
			rawVersion = *imp.Version
		}
		optional := false
		if imp.Optional != nil {
			optional = parseBool(*imp.Optional)
		}
		deps = append(deps, NewDependency(imp.Addon, rawVersion, optional))
	}

	points := make([]string, 0, len(x.Extensions))
	for _, ext := range x.Extensions {
		if point := strings.TrimSpace(ext.Point); point != "" {
			points = append(points, point)
		}
	}

	return NewAddon(id, x.Version, deps, points), nil
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
