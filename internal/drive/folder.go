package drive

import (
	"regexp"
	"strings"

	"github.com/avuppal/driveRAG/internal/config"
)

// FileRef is one file discovered in a shared folder listing.
type FileRef struct {
	Id   string
	Name string
}

var folderIdPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/folders/([a-zA-Z0-9-_]+)`),
	regexp.MustCompile(`id=([a-zA-Z0-9-_]+)`),
	regexp.MustCompile(`folderview\?id=([a-zA-Z0-9-_]+)`),
}

// ExtractFolderID pulls the folder id out of any of the shared-link shapes
// Drive hands out. Empty string when the URL matches none of them.
func ExtractFolderID(folderURL string) string {
	for _, p := range folderIdPatterns {
		if m := p.FindStringSubmatch(folderURL); m != nil {
			return m[1]
		}
	}
	return ""
}

// listing patterns, tried in order: the embedded JSON array entries on the
// folder page, then a looser id/name pairing
var listingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\["([a-zA-Z0-9-_]{25,})",[^,]*,"([^"]*\.(?:pdf|docx|txt|rtf))"`),
	regexp.MustCompile(`(?i)"([a-zA-Z0-9-_]{25,})"[^}]*"name"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`(?i)\["([a-zA-Z0-9-_]{25,})"[^,]*,[^,]*,"([^"]+\.[^"]+)"`),
}

// parseFolderListing scrapes file ids and names from the folder page HTML.
// Deduplicates by id and caps the result at MaxFolderFiles.
func parseFolderListing(pageHTML string) []FileRef {
	var files []FileRef
	for _, p := range listingPatterns {
		matches := p.FindAllStringSubmatch(pageHTML, -1)
		if len(matches) == 0 {
			continue
		}
		for _, m := range matches {
			if len(files) >= config.MaxFolderFiles {
				break
			}
			if strings.Contains(m[2], ".") {
				files = append(files, FileRef{Id: m[1], Name: m[2]})
			}
		}
		break
	}

	seen := make(map[string]bool)
	unique := files[:0]
	for _, f := range files {
		if !seen[f.Id] {
			seen[f.Id] = true
			unique = append(unique, f)
		}
	}
	return unique
}
