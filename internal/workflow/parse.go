package workflow

import (
	"regexp"
	"strings"

	"github.com/praxislabs/sdlcwiz/internal/quality"
)

var listMarker = regexp.MustCompile(`^(\d+[.)]|[-*+])\s+`)

// ParseStories splits generated text into one story per non-empty line,
// stripping list numbering and bullets.
func ParseStories(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = listMarker.ReplaceAllString(line, "")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

var designHeading = regexp.MustCompile(`(?i)^#{1,3}\s*(.+?)\s*$`)

// ParseDesign extracts the functional, technical, and assumptions sections
// from a generated design document. Bulleted items become entries; prose
// lines inside a section are kept as items too.
func ParseDesign(text string) *quality.DesignDoc {
	doc := &quality.DesignDoc{}
	var current *[]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := designHeading.FindStringSubmatch(line); m != nil {
			heading := strings.ToLower(m[1])
			switch {
			case strings.Contains(heading, "functional"):
				current = &doc.Functional
			case strings.Contains(heading, "technical"):
				current = &doc.Technical
			case strings.Contains(heading, "assumption"):
				current = &doc.Assumptions
			default:
				current = nil
			}
			continue
		}
		if current == nil {
			continue
		}
		item := listMarker.ReplaceAllString(line, "")
		if item != "" {
			*current = append(*current, item)
		}
	}
	if len(doc.Functional) == 0 && len(doc.Technical) == 0 && len(doc.Assumptions) == 0 {
		return nil
	}
	return doc
}

// buildArtifact shapes raw generated text into the artifact form the
// stage's scorer expects.
func buildArtifact(kind quality.Kind, text, language string) quality.Artifact {
	a := quality.Artifact{Text: text}
	switch kind {
	case quality.KindStories:
		a.Stories = ParseStories(text)
	case quality.KindDesign:
		a.Design = ParseDesign(text)
	case quality.KindCode, quality.KindSecurity:
		a.Language = language
	}
	return a
}
