package config

import (
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

const DefaultEncoding = "Windows 1252"

// FindEncoding looks up single byte charmap by its display name
func FindEncoding(name string) (*charmap.Charmap, error) {
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			if cm.String() == name {
				return cm, nil
			}
		}
	}
	return nil, errors.Errorf("Failed to find encoding %q", name)
}

func ListEncodings() []string {
	list := make([]string, 0)
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			list = append(list, cm.String())
		}
	}
	return list
}

// Charmap used to decode legacy non utf8 names, windows-1252 when the
// configured one is unknown
func (n NamesConfig) Charmap() *charmap.Charmap {
	cm, err := FindEncoding(n.Encoding)
	if err != nil {
		return charmap.Windows1252
	}
	return cm
}
