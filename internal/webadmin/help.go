// ABOUTME: Embedded help pages rendered from markdown with goldmark
// ABOUTME: Topics are listed from docs/help and selected with ?topic=

package webadmin

import (
	"bytes"
	"html/template"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// helpTopicOrder fixes the sidebar order; unknown topics sort after these by slug
var helpTopicOrder = map[string]int{
	"getting-started": 1,
	"clients":         2,
	"themes":          3,
	"configuration":   4,
}

var helpMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// handleHelp renders a help topic
func (a *Admin) handleHelp(w http.ResponseWriter, r *http.Request) {
	selectedTopic := r.URL.Query().Get("topic")
	if selectedTopic == "" {
		selectedTopic = "getting-started"
	}

	entries, err := helpDocsFS.ReadDir("docs/help")
	if err != nil {
		a.logger.Error("failed to read help docs", "error", err)
		http.Error(w, "Failed to load help", http.StatusInternalServerError)
		return
	}

	var topics []helpTopic
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		slug := strings.TrimSuffix(entry.Name(), ".md")
		topics = append(topics, helpTopic{
			Slug:   slug,
			Title:  formatHelpTitle(slug),
			Active: slug == selectedTopic,
		})
	}

	sort.Slice(topics, func(i, j int) bool {
		orderI, okI := helpTopicOrder[topics[i].Slug]
		orderJ, okJ := helpTopicOrder[topics[j].Slug]
		if !okI {
			orderI = 100
		}
		if !okJ {
			orderJ = 100
		}
		if orderI != orderJ {
			return orderI < orderJ
		}
		return topics[i].Slug < topics[j].Slug
	})

	status := http.StatusOK
	mdContent, err := helpDocsFS.ReadFile(path.Join("docs/help", path.Base(selectedTopic)+".md"))
	if err != nil {
		a.logger.Warn("help topic not found", "topic", selectedTopic)
		mdContent = []byte("# Not Found\n\nThis help topic could not be found.")
		status = http.StatusNotFound
	}

	var htmlBuf bytes.Buffer
	if err := helpMarkdown.Convert(mdContent, &htmlBuf); err != nil {
		a.logger.Error("failed to convert markdown", "error", err)
		htmlBuf.Reset()
		htmlBuf.WriteString("<p>Failed to render help content.</p>")
	}

	a.renderPage(w, status, "help", helpData{
		pageData: a.newPageData(w, r, "Help", "help"),
		Topics:   topics,
		Content:  template.HTML(htmlBuf.String()),
	})
}

// formatHelpTitle converts a slug to a display title
func formatHelpTitle(slug string) string {
	words := strings.Split(slug, "-")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}
