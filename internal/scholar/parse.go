// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

var (
	// citedByRe matches the "Cited by 123" footer link text.
	citedByRe = regexp.MustCompile(`Cited by (\d+)`)

	// yearRe matches a plausible publication year.
	yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

	// doiRe pulls a DOI out of a result URL.
	doiRe = regexp.MustCompile(`10\.\d{4,9}/[^\s?#]+`)
)

// ParseResults extracts result records from scholar result markup. The
// markup is untrusted external input: missing fields, truncated tags,
// and arbitrary garbage must all yield a usable (possibly empty) slice,
// never a panic or error.
func ParseResults(markup string) []types.ScholarResult {
	if strings.TrimSpace(markup) == "" {
		return []types.ScholarResult{}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return []types.ScholarResult{}
	}

	results := []types.ScholarResult{}
	doc.Find("div.gs_ri").Each(func(_ int, sel *goquery.Selection) {
		r := types.ScholarResult{}

		titleLink := sel.Find("h3.gs_rt a").First()
		r.Title = strings.TrimSpace(titleLink.Text())
		if r.Title == "" {
			// Results without links (e.g. [CITATION] entries) keep the
			// heading text minus bracketed markers.
			r.Title = cleanTitle(sel.Find("h3.gs_rt").First().Text())
		}
		if r.Title == "" {
			return
		}

		if href, ok := titleLink.Attr("href"); ok {
			r.URL = href
			if doi := doiRe.FindString(href); doi != "" {
				r.DOI = doi
			}
		}

		// The byline looks like:
		// "A Author, B Author - Journal of Things, 2020 - publisher.com"
		r.Authors, r.Journal, r.Year = parseByline(sel.Find("div.gs_a").First().Text())

		r.Abstract = strings.TrimSpace(sel.Find("div.gs_rs").First().Text())

		sel.Find("div.gs_fl a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			if m := citedByRe.FindStringSubmatch(a.Text()); m != nil {
				if n, err := strconv.Atoi(m[1]); err == nil {
					r.Citations = n
				}
				return false
			}
			return true
		})

		results = append(results, r)
	})
	return results
}

// cleanTitle strips bracketed type markers like [PDF], [HTML], [CITATION].
func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	for strings.HasPrefix(title, "[") {
		end := strings.Index(title, "]")
		if end < 0 {
			break
		}
		title = strings.TrimSpace(title[end+1:])
	}
	return title
}

// parseByline splits a scholar byline into authors, journal, and year.
// Any part may be absent; a malformed byline yields zero values.
func parseByline(byline string) (authors []string, journal string, year int) {
	byline = strings.TrimSpace(byline)
	if byline == "" {
		return nil, "", 0
	}

	parts := strings.Split(byline, " - ")

	for _, a := range strings.Split(parts[0], ",") {
		a = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(a), "…"))
		if a == "" || strings.Contains(a, ".com") {
			continue
		}
		// A byline with no author segment can start with the year.
		if yearRe.FindString(a) == a {
			continue
		}
		authors = append(authors, a)
	}

	if len(parts) > 1 {
		venue := strings.TrimSpace(parts[1])
		if m := yearRe.FindString(venue); m != "" {
			year, _ = strconv.Atoi(m)
			venue = strings.TrimSpace(strings.Trim(strings.Replace(venue, m, "", 1), " ,"))
		}
		// What remains of the middle segment is the journal name; pure
		// domain names are the publisher segment leaking in.
		if venue != "" && !strings.Contains(venue, ".") {
			journal = venue
		}
	}
	if year == 0 {
		if m := yearRe.FindString(byline); m != "" {
			year, _ = strconv.Atoi(m)
		}
	}
	return authors, journal, year
}
