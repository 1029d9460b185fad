package telegram

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/set-night/shopassist/internal/domain"
	"github.com/shopspring/decimal"
)

// RenderAnswer converts an assistant answer to text Telegram can display.
// Backends sometimes answer with HTML fragments; those are flattened to
// plain text with list items and paragraphs on their own lines.
func RenderAnswer(answer string) string {
	if !looksLikeHTML(answer) {
		return answer
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(answer))
	if err != nil {
		return answer
	}

	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").Each(func(_ int, sel *goquery.Selection) {
		sel.PrependHtml("• ")
		sel.AppendHtml("\n")
	})
	doc.Find("p, div, h1, h2, h3, h4, tr").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href != "" && strings.TrimSpace(sel.Text()) != href {
			sel.AppendHtml(" (" + href + ")")
		}
	})

	return collapseBlankLines(doc.Text())
}

func looksLikeHTML(s string) bool {
	i := strings.Index(s, "<")
	if i < 0 {
		return false
	}
	j := strings.Index(s[i:], ">")
	return j > 1
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// FormatPrice renders a dollar amount with thousands separators, e.g. $2,499.99.
func FormatPrice(price decimal.Decimal) string {
	fixed := price.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var sb strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}

	sign := ""
	if price.IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%s", sign, sb.String(), frac)
}

// ProductCard renders one recommendation.
func ProductCard(p domain.Product) string {
	return fmt.Sprintf("🛍 *%s*\n%s\n💲 %s  ⭐ %.1f",
		EscapeMarkdown(p.Name),
		EscapeMarkdown(p.Description),
		FormatPrice(p.Price),
		p.Rating,
	)
}

// Transcript renders a session log for the history view.
func Transcript(s domain.ChatSession) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📝 *%s*\n\n", EscapeMarkdown(s.Title))
	for _, m := range s.Messages {
		who := "🤖"
		if m.Role == domain.RoleUser {
			who = "🙂"
		}
		fmt.Fprintf(&sb, "%s %s\n\n", who, EscapeMarkdown(RenderAnswer(m.Content)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Truncate shortens s to max runes, adding an ellipsis when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
