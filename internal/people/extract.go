package people

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/sells-group/client-intel/internal/contact"
	"github.com/sells-group/client-intel/internal/htmldoc"
	"github.com/sells-group/client-intel/internal/model"
)

// SourceWebsite tags individuals found on the company's own pages.
const SourceWebsite = "Website"

const (
	headingContainers = "article, .entry-content, .page-content, main"
	headingSelector   = "h2, h3, h4, strong"
	cardSelector      = `.team-member, .staff-member, .expert, .member, [class*="team"], [class*="staff"], [class*="person"], [class*="expert"]`
	linkedInProfile   = "linkedin.com/in/"
)

// FromLinkedInAnchors returns people linked to their LinkedIn profiles.
func FromLinkedInAnchors(doc *htmldoc.Document) []model.Individual {
	var out []model.Individual
	for _, a := range doc.Anchors() {
		if !strings.Contains(strings.ToLower(a.Href), linkedInProfile) {
			continue
		}
		name := LinkName(a.Text)
		if name == "" {
			continue
		}
		title := FindTitle(htmldoc.NodeText(a.Sel.Parent()), name)
		if title == "" {
			title = DefaultTitle
		}
		out = append(out, model.Individual{
			Name:     name,
			Title:    title,
			LinkedIn: a.Href,
			Source:   SourceWebsite,
		})
	}
	return out
}

// FromPage applies the heading rule and then the card rule to a team page.
func FromPage(doc *htmldoc.Document) []model.Individual {
	out := FromHeadings(doc)
	return append(out, FromCards(doc)...)
}

// FromHeadings finds headings inside content containers whose whole text is
// a person's name.
func FromHeadings(doc *htmldoc.Document) []model.Individual {
	var out []model.Individual
	doc.Find(headingContainers).Find(headingSelector).Each(func(_ int, s *goquery.Selection) {
		name := HeadingName(htmldoc.Clean(s.Text()))
		if name == "" {
			return
		}
		siblings := followingBlock(s)

		title := ""
		siblings.EachWithBreak(func(_ int, sib *goquery.Selection) bool {
			title = FindTitle(htmldoc.NodeText(sib), name)
			return title == ""
		})
		// The parent is only consulted when it is a small wrapper, not the
		// content container holding every person on the page.
		if parent := s.Parent(); title == "" && !parent.Is(headingContainers) {
			title = FindTitle(htmldoc.NodeText(parent), name)
		}
		if title == "" {
			title = DefaultTitle
		}

		out = append(out, model.Individual{
			Name:   name,
			Title:  title,
			Email:  contact.FirstEmail(outerHTML(s) + outerHTML(siblings)),
			Source: SourceWebsite,
		})
	})
	return out
}

// followingBlock returns up to two sibling elements after s, stopping at the
// next heading.
func followingBlock(s *goquery.Selection) *goquery.Selection {
	n := 0
	return s.NextAll().FilterFunction(func(i int, sib *goquery.Selection) bool {
		if n < 0 || i >= 2 {
			return false
		}
		if sib.Is("h1, h2, h3, h4") {
			n = -1
			return false
		}
		n++
		return true
	})
}

// FromCards reads each team-member card as one unit. An element matching
// the card hints is a container, not a card, when the cards nested in it name
// more than one person; inner elements of a card (such as a BEM
// "team-member__name") are read as part of it.
func FromCards(doc *htmldoc.Document) []model.Individual {
	var out []model.Individual
	units := make(map[*html.Node]bool)
	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		if insideUnit(card, units) || peopleIn(card.Find(cardSelector)) > 1 {
			return
		}
		text := htmldoc.NodeText(card)
		name := CardName(text)
		if name == "" {
			return
		}
		units[card.Get(0)] = true

		title := FindTitle(text, name)
		if title == "" {
			title = DefaultTitle
		}
		ind := model.Individual{
			Name:   name,
			Title:  title,
			Email:  contact.FirstEmail(outerHTML(card)),
			Source: SourceWebsite,
		}
		if li, ok := card.Find(`a[href*="` + linkedInProfile + `"]`).First().Attr("href"); ok {
			ind.LinkedIn = li
		}
		out = append(out, ind)
	})
	return out
}

func insideUnit(s *goquery.Selection, units map[*html.Node]bool) bool {
	for n := s.Get(0).Parent; n != nil; n = n.Parent {
		if units[n] {
			return true
		}
	}
	return false
}

// peopleIn counts the distinct names found across cards.
func peopleIn(cards *goquery.Selection) int {
	names := make(map[string]bool)
	cards.Each(func(_ int, c *goquery.Selection) {
		if n := CardName(htmldoc.NodeText(c)); n != "" {
			names[n] = true
		}
	})
	return len(names)
}

// outerHTML renders every node of s.
func outerHTML(s *goquery.Selection) string {
	var b strings.Builder
	for i := range s.Nodes {
		if h, err := goquery.OuterHtml(s.Eq(i)); err == nil {
			b.WriteString(h)
		}
	}
	return b.String()
}
