package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	jsonArtifacts = regexp.MustCompile(`[{}\[\]"]|\\n|\\t|&#\d+;`)
	entityMap     = strings.NewReplacer(
		"&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`,
		"&#39;", "'", "&nbsp;", " ", "&hellip;", "…", "&mdash;", "-", "&ndash;", "-",
	)
)

// CleanDescription strips markup, escaped JSON fragments, and entity noise
// that scraped descriptions commonly carry, then collapses whitespace.
func CleanDescription(s string) string {
	if s == "" {
		return ""
	}
	s = stripTags(s)
	s = entityMap.Replace(s)
	s = jsonArtifacts.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")

	const maxLen = 2000
	if len(s) > maxLen {
		if cut := strings.LastIndex(s[:maxLen], " "); cut > 0 {
			s = s[:cut]
		} else {
			s = s[:maxLen]
		}
	}
	return s
}

// stripTags tokenizes embedded markup and keeps only the text. Feed and
// JSON-LD descriptions frequently arrive as HTML fragments.
func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}

	tok := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tok.Text())
			b.WriteByte(' ')
		}
	}
}
