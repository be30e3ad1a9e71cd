package utils

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// BytesToString decodes nil terminated legacy string with cm,
// windows-1252 when cm is nil
func BytesToString(bs []byte, cm *charmap.Charmap) string {
	n := bytes.IndexByte(bs, 0)
	if n < 0 {
		n = len(bs)
	}
	if cm == nil {
		cm = charmap.Windows1252
	}

	s, _, err := transform.Bytes(cm.NewDecoder(), bs[0:n])
	if err != nil {
		return string(bs[0:n])
	}

	return string(s)
}

// DecodeName converts raw name bytes stored in a go string into utf8.
// Names that are already valid utf8 are kept as is.
func DecodeName(s string, cm *charmap.Charmap) string {
	if utf8.ValidString(s) {
		return s
	}
	return BytesToString([]byte(s), cm)
}
