package pipeline

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitSentences splits text after '.', '!' or '?' followed by whitespace.
// Sentences are trimmed; empty ones are dropped.
func SplitSentences(text string) []string {
	var (
		out   []string
		start int
	)
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			if i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
					out = append(out, s)
				}
				start = i + 1
			}
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

// ChunkText greedily packs sentences into chunks of at most max runes,
// joined by single spaces. A sentence longer than max is split on word
// boundaries, and a single word longer than max is cut.
func ChunkText(text string, max int) []string {
	if max <= 0 {
		return nil
	}

	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}
	add := func(piece string) {
		n := utf8.RuneCountInString(piece)
		if curLen > 0 && curLen+1+n > max {
			flush()
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(piece)
		curLen += n
	}

	for _, sentence := range SplitSentences(text) {
		if utf8.RuneCountInString(sentence) <= max {
			add(sentence)
			continue
		}
		flush()
		for _, piece := range splitLong(sentence, max) {
			add(piece)
		}
		flush()
	}
	flush()
	return chunks
}

// splitLong breaks an oversize sentence into word-aligned pieces of at most
// max runes.
func splitLong(sentence string, max int) []string {
	var (
		pieces []string
		cur    []string
		curLen int
	)
	for _, word := range strings.Fields(sentence) {
		for utf8.RuneCountInString(word) > max {
			r := []rune(word)
			if curLen > 0 {
				pieces = append(pieces, strings.Join(cur, " "))
				cur, curLen = nil, 0
			}
			pieces = append(pieces, string(r[:max]))
			word = string(r[max:])
		}
		n := utf8.RuneCountInString(word)
		if n == 0 {
			continue
		}
		if curLen > 0 && curLen+1+n > max {
			pieces = append(pieces, strings.Join(cur, " "))
			cur, curLen = nil, 0
		}
		if curLen > 0 {
			curLen++
		}
		cur = append(cur, word)
		curLen += n
	}
	if curLen > 0 {
		pieces = append(pieces, strings.Join(cur, " "))
	}
	return pieces
}

// truncateRunes returns the first n runes of s.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
