package utils

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeIDChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// DocumentID derives a stable identifier for an uploaded document from
// its filename stem and a short digest of the content. The same file
// uploaded twice maps to the same ID. The stem is reduced to filesystem
// safe characters so the ID can double as a snapshot filename.
func DocumentID(filename string, content []byte) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	stem = unsafeIDChars.ReplaceAllString(stem, "_")
	stem = strings.Trim(stem, "_")
	if stem == "" {
		stem = "document"
	}
	sum := md5.Sum(content)
	return stem + "_" + hex.EncodeToString(sum[:])[:8]
}
