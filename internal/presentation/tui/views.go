package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/tendril/pkg/domain"
)

// TodosMarkdown renders the visible todos of a filter as a task list.
func TodosMarkdown(filter domain.Filter, list []domain.Todo, fetching bool, errMsg string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Todos (%s)\n\n", filter)

	switch {
	case errMsg != "":
		fmt.Fprintf(&b, "> Could not fetch todos: %s\n\n", errMsg)
	case fetching && len(list) == 0:
		b.WriteString("_Loading..._\n\n")
	}

	if len(list) == 0 && !fetching && errMsg == "" {
		b.WriteString("_Nothing to show._\n")
		return b.String()
	}
	for _, t := range list {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s `#%s`\n", mark, t.Text, t.ID)
	}
	return b.String()
}

// PostsMarkdown renders posts newest first with their author and reactions.
// Authors missing from users show as "Unknown author".
func PostsMarkdown(list []domain.Post, users []domain.User) string {
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	sorted := append([]domain.Post(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })

	var b strings.Builder
	b.WriteString("# Posts\n\n")
	if len(sorted) == 0 {
		b.WriteString("_No posts yet._\n")
		return b.String()
	}

	for _, p := range sorted {
		author, ok := names[p.User]
		if !ok {
			author = "Unknown author"
		}
		fmt.Fprintf(&b, "## %s\n\n", p.Title)
		fmt.Fprintf(&b, "_by %s_", author)
		if p.Date != "" {
			fmt.Fprintf(&b, " · %s", p.Date)
		}
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "%s\n\n", p.Content)
		if r := reactionsLine(p.Reactions); r != "" {
			fmt.Fprintf(&b, "%s\n\n", r)
		}
	}
	return b.String()
}

var reactionEmoji = map[string]string{
	domain.ReactionThumbsUp: "👍",
	domain.ReactionHooray:   "🎉",
	domain.ReactionHeart:    "❤️",
	domain.ReactionRocket:   "🚀",
	domain.ReactionEyes:     "👀",
}

func reactionsLine(r domain.Reactions) string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		label := name
		if e, ok := reactionEmoji[name]; ok {
			label = e
		}
		parts = append(parts, fmt.Sprintf("%s %d", label, r[name]))
	}
	return strings.Join(parts, "  ")
}
