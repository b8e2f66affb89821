package output

import (
	"fmt"
	"os"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"

	"github.com/page-vault/stash/internal/urlutil"
)

// Snapshot is the archived page as captured from the browser session.
type Snapshot struct {
	URL  string
	HTML string
}

// SaveMarkdown converts the snapshot to Markdown and writes it to path.
// Relative links are resolved against the snapshot URL so the local copy
// stays navigable.
func SaveMarkdown(s Snapshot, path string) error {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	converter.AddRules(md.Rule{
		Filter: []string{"a"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			href, exists := selec.Attr("href")
			if !exists {
				return nil
			}

			resolved := urlutil.ResolveURL(s.URL, href)
			title, hasTitle := selec.Attr("title")
			var titlePart string
			if hasTitle {
				titlePart = fmt.Sprintf(" %q", title)
			}
			str := fmt.Sprintf("[%s](%s)%s", selec.Text(), resolved, titlePart)
			return &str
		},
	})

	cleaned, err := CleanHTML(s.HTML)
	if err != nil {
		return err
	}

	mdStr, err := converter.ConvertString(cleaned)
	if err != nil {
		return err
	}

	header := fmt.Sprintf("<!-- archived from %s -->\n\n", s.URL)
	return os.WriteFile(path, []byte(header+mdStr), 0644)
}
