// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"sort"
	"strings"
)

// tokenPattern matches word tokens, keeping internal apostrophes.
var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "being", "it", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "again",
		"further", "than", "so", "such", "into", "about", "between",
		"through", "during", "before", "after", "above", "below", "out",
		"off", "own", "same", "too", "very", "can", "will", "just",
		"should", "now", "have", "has", "had", "do", "does", "did",
		"would", "could", "not", "we", "our", "they", "their", "i", "my",
		"you", "your", "he", "she", "his", "her", "its", "what", "which",
		"who", "how", "when", "where", "why", "all", "each", "more",
		"most", "other", "some", "only", "also", "because", "while",
		"using", "use", "used", "may", "might", "need", "needs", "want",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// topicTaxonomy maps topic labels to trigger terms. A topic is assigned
// when any trigger appears in the tokenized content.
var topicTaxonomy = map[string][]string{
	"machine learning": {"learning", "neural", "model", "training", "classifier", "prediction", "ai", "algorithm"},
	"healthcare":       {"health", "medical", "clinical", "patient", "disease", "treatment", "diagnosis"},
	"education":        {"education", "learning", "teaching", "student", "curriculum", "pedagogy", "school"},
	"social science":   {"social", "society", "behavior", "survey", "interview", "qualitative", "community"},
	"computer science": {"software", "computing", "system", "network", "database", "programming", "security"},
	"economics":        {"economic", "market", "finance", "trade", "policy", "labor", "investment"},
	"environment":      {"climate", "environmental", "sustainability", "energy", "emissions", "ecology"},
	"psychology":       {"psychology", "cognitive", "mental", "emotion", "perception", "therapy"},
	"biology":          {"gene", "cell", "protein", "species", "organism", "evolution", "molecular"},
	"engineering":      {"engineering", "design", "manufacturing", "materials", "mechanical", "robotics"},
}

// tokenize lowercases text and returns its word tokens.
func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// termCount pairs a term with its occurrence count for frequency ranking.
type termCount struct {
	term  string
	count int
}

// rankByFrequency sorts counts descending, breaking ties alphabetically
// for deterministic output.
func rankByFrequency(freq map[string]int) []termCount {
	ranked := make([]termCount, 0, len(freq))
	for term, count := range freq {
		ranked = append(ranked, termCount{term, count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].term < ranked[j].term
	})
	return ranked
}

// extractKeywords returns up to max frequency-ranked terms from text,
// stopwords removed, unique case-insensitively.
func extractKeywords(text string, stopwords map[string]struct{}, max int) []string {
	freq := make(map[string]int)
	for _, tok := range tokenize(text) {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if len(tok) <= 2 {
			continue
		}
		freq[tok]++
	}

	var keywords []string
	for _, tc := range rankByFrequency(freq) {
		keywords = append(keywords, tc.term)
		if len(keywords) >= max {
			break
		}
	}
	return keywords
}

// extractKeyPhrases returns bigrams and trigrams occurring at least
// minCount times, frequency-ranked, capped at max. Phrases containing a
// stopword at either end are skipped.
func extractKeyPhrases(text string, stopwords map[string]struct{}, minCount, max int) []string {
	tokens := tokenize(text)
	freq := make(map[string]int)

	for n := 2; n <= 3; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			gram := tokens[i : i+n]
			if isStop(gram[0], stopwords) || isStop(gram[len(gram)-1], stopwords) {
				continue
			}
			if len(gram[0]) <= 2 || len(gram[len(gram)-1]) <= 2 {
				continue
			}
			freq[strings.Join(gram, " ")]++
		}
	}

	var phrases []string
	for _, tc := range rankByFrequency(freq) {
		if tc.count < minCount {
			break
		}
		phrases = append(phrases, tc.term)
		if len(phrases) >= max {
			break
		}
	}
	return phrases
}

func isStop(tok string, stopwords map[string]struct{}) bool {
	_, ok := stopwords[tok]
	return ok
}

// matchTopics returns taxonomy labels whose trigger terms appear in the
// text, sorted for deterministic output.
func matchTopics(text string) []string {
	tokens := tokenize(text)
	present := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		present[tok] = struct{}{}
	}

	var topics []string
	for topic, triggers := range topicTaxonomy {
		for _, trigger := range triggers {
			if _, ok := present[trigger]; ok {
				topics = append(topics, topic)
				break
			}
		}
	}
	sort.Strings(topics)
	return topics
}
