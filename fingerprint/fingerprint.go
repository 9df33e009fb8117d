// Package fingerprint condenses a document's markup structure into a 64-bit
// SimHash so callers can tell whether two pages share a layout. Text content,
// attributes and ordering details inside a tag are ignored; only the sequence
// of tag names feeds the hash. The search engines use it to distinguish a
// recurring empty render from a page whose result markup has changed.
package fingerprint

import (
	"hash/fnv"
	"math/bits"
	"strings"

	"golang.org/x/net/html"
)

// shingleWidth is the tag n-gram size. Three-tag windows keep local nesting
// patterns (list > item > link) while staying insensitive to global reorders.
const shingleWidth = 3

// Structure fingerprints the markup skeleton of an HTML document. Documents
// with no tags, including the empty string, map to 0; callers treat 0 as
// "nothing to compare".
func Structure(rawHTML string) uint64 {
	tags := tagSequence(rawHTML)
	if len(tags) == 0 {
		return 0
	}

	shingles := shingle(tags, shingleWidth)
	if len(shingles) == 0 {
		// Too few tags for windows; hash the bare sequence instead.
		return simhash(tags)
	}
	return simhash(shingles)
}

// Distance is the Hamming distance between two fingerprints, 0..64.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Similar reports whether two fingerprints are within threshold bits of each
// other.
func Similar(a, b uint64, threshold int) bool {
	return Distance(a, b) <= threshold
}

// tagSequence walks the document with the tokenizer and collects opening tag
// names in document order. Parse errors end the walk with whatever was
// collected; a truncated page still yields a usable prefix.
func tagSequence(rawHTML string) []string {
	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))
	var tags []string
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return tags
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			tags = append(tags, string(name))
		}
	}
}

// shingle joins consecutive n-length windows of tokens. Returns nil when
// there are fewer than n tokens.
func shingle(tokens []string, n int) []string {
	if len(tokens) < n {
		return nil
	}
	out := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:i+n], ">"))
	}
	return out
}

// simhash accumulates per-bit votes from the FNV-64a hash of each token and
// keeps the majority bit. Tokens that dominate the document dominate the
// fingerprint, which is what makes near-identical structures land near each
// other.
func simhash(tokens []string) uint64 {
	var vector [64]int
	for _, tok := range tokens {
		h := fnv.New64a()
		h.Write([]byte(tok))
		sum := h.Sum64()
		for i := 0; i < 64; i++ {
			if sum&(1<<uint(i)) != 0 {
				vector[i]++
			} else {
				vector[i]--
			}
		}
	}

	var fp uint64
	for i := 0; i < 64; i++ {
		if vector[i] > 0 {
			fp |= 1 << uint(i)
		}
	}
	return fp
}
