package download

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Content-Disposition filename forms, most specific first.
var filenamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`filename\*=UTF-8''(.+)`),
	regexp.MustCompile(`filename="(.+)"`),
	regexp.MustCompile(`filename=(.+)`),
}

const timestampLayout = "20060102150405"

// Filename derives the file name from a Content-Disposition header. Without
// a usable header the name is document_<timestamp>.<format>.
func Filename(contentDisposition, format string, now time.Time) string {
	if contentDisposition != "" {
		for _, pattern := range filenamePatterns {
			m := pattern.FindStringSubmatch(contentDisposition)
			if len(m) < 2 || m[1] == "" {
				continue
			}
			name := strings.NewReplacer(`"`, "", `'`, "").Replace(m[1])
			if decoded, err := url.PathUnescape(name); err == nil {
				name = decoded
			}
			if name != "" {
				return name
			}
		}
	}
	return "document_" + now.UTC().Format(timestampLayout) + "." + strings.TrimPrefix(format, ".")
}

// ZipName gives name a .zip extension, dropping everything after its first dot.
func ZipName(name string) string {
	if strings.HasSuffix(name, ".zip") {
		return name
	}
	stem, _, _ := strings.Cut(name, ".")
	return stem + ".zip"
}
