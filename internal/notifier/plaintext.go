package notifier

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips the HTML markup of a formatted message for terminal
// output. Links keep their URL.
func PlainText(msg string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(msg))
	if err != nil {
		return msg
	}
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != s.Text() {
			s.SetText(s.Text() + " <" + href + ">")
		}
	})
	return doc.Text()
}
