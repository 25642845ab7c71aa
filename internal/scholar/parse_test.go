// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"os"
	"path/filepath"
	"testing"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	return string(data)
}

func TestParseResultsFixture(t *testing.T) {
	results := ParseResults(loadFixture(t, "results.html"))
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}

	first := results[0]
	if first.Title != "Deep learning" {
		t.Errorf("Title = %q", first.Title)
	}
	if len(first.Authors) != 3 || first.Authors[0] != "Y LeCun" {
		t.Errorf("Authors = %v", first.Authors)
	}
	if first.Journal != "Nature" {
		t.Errorf("Journal = %q, want Nature", first.Journal)
	}
	if first.Year != 2015 {
		t.Errorf("Year = %d, want 2015", first.Year)
	}
	if first.Citations != 65214 {
		t.Errorf("Citations = %d, want 65214", first.Citations)
	}
	if first.DOI != "10.1038/nature14539" {
		t.Errorf("DOI = %q", first.DOI)
	}
	if first.URL != "https://doi.org/10.1038/nature14539" {
		t.Errorf("URL = %q", first.URL)
	}
	if first.Abstract == "" {
		t.Error("Abstract should be populated")
	}

	second := results[1]
	if second.Year != 2017 || second.Citations != 98012 {
		t.Errorf("second = year %d, citations %d", second.Year, second.Citations)
	}
	if second.DOI != "" {
		t.Errorf("DOI = %q, want empty for a non-DOI link", second.DOI)
	}

	// A [CITATION] entry has no link: the marker is stripped and the
	// missing fields stay zero.
	third := results[2]
	if third.Title != "Machine learning in medicine" {
		t.Errorf("Title = %q", third.Title)
	}
	if third.URL != "" || third.Citations != 0 {
		t.Errorf("citation-only entry = url %q, citations %d", third.URL, third.Citations)
	}
	if third.Journal != "Circulation" || third.Year != 2015 {
		t.Errorf("third = journal %q, year %d", third.Journal, third.Year)
	}
}

func TestParseResultsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		markup string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t"},
		{"not html", "plain text with no tags"},
		{"truncated tags", `<div class="gs_ri"><h3 class="gs_rt"><a href=`},
		{"wrapper without results", `<html><body><div id="gs_res_ccl_mid"></div></body></html>`},
		{"result missing title", `<div class="gs_ri"><div class="gs_a">A Author - Venue, 2020</div></div>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := ParseResults(tt.markup)
			if results == nil {
				t.Fatal("ParseResults must return a non-nil slice")
			}
			if len(results) != 0 {
				t.Errorf("len(results) = %d, want 0", len(results))
			}
		})
	}
}

func TestParseByline(t *testing.T) {
	tests := []struct {
		name        string
		byline      string
		wantAuthors int
		wantJournal string
		wantYear    int
	}{
		{"full", "A Kim, B Osei - Journal of Testing, 2019 - publisher.com", 2, "Journal of Testing", 2019},
		{"no journal", "A Kim - 2019 - publisher.com", 1, "", 2019},
		{"truncated authors", "A Kim, B Osei… - Nature, 2021 - nature.com", 2, "Nature", 2021},
		{"publisher domain rejected as journal", "A Kim - example.com, 2020", 1, "", 2020},
		{"empty", "", 0, "", 0},
		{"year only", "2015", 0, "", 2015},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authors, journal, year := parseByline(tt.byline)
			if len(authors) != tt.wantAuthors {
				t.Errorf("authors = %v, want %d", authors, tt.wantAuthors)
			}
			if journal != tt.wantJournal {
				t.Errorf("journal = %q, want %q", journal, tt.wantJournal)
			}
			if year != tt.wantYear {
				t.Errorf("year = %d, want %d", year, tt.wantYear)
			}
		})
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"[CITATION] Machine learning in medicine", "Machine learning in medicine"},
		{"[PDF] [HTML] Stacked markers", "Stacked markers"},
		{"No markers here", "No markers here"},
		{"[unterminated marker", "[unterminated marker"},
	}
	for _, tt := range tests {
		if got := cleanTitle(tt.in); got != tt.want {
			t.Errorf("cleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
