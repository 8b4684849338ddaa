// Adapted from original_source/driver/async_driver.py's
// default_archive_callback: filename is the last non-empty URL path
// segment, falling back to download_<hash(url)><ext> with ext inferred
// from expectedType. The hash here uses sha1 (matching the teacher's
// cache.go keyFromURL, which also hashes a URL to a filename-safe digest).
package scraperdriver

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ArchiveCallback writes content to local storage and returns the path it
// was written to. The default implementation mirrors the source's
// default_archive_callback exactly; pass a custom one via WithOnArchive.
type ArchiveCallback func(content []byte, rawURL, expectedType, storageDir string) (string, error)

var archiveExtensions = map[string]string{
	"pdf":   ".pdf",
	"audio": ".mp3",
}

// DefaultArchiveCallback writes content under storageDir, naming the file
// after the last non-empty path segment of rawURL, or
// download_<sha1(rawURL)><ext> if the URL has no usable segment.
func DefaultArchiveCallback(content []byte, rawURL, expectedType, storageDir string) (string, error) {
	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return "", err
	}

	name := lastNonEmptySegment(rawURL)
	if name == "" {
		ext := archiveExtensions[expectedType]
		sum := sha1.Sum([]byte(rawURL))
		name = fmt.Sprintf("download_%s%s", hex.EncodeToString(sum[:]), ext)
	}

	full := filepath.Join(storageDir, name)
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return "", err
	}
	return full, nil
}

func lastNonEmptySegment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	segments := strings.Split(path.Clean(u.Path), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return ""
}
