// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package cohort

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern matches tokens of two or more word characters, the
// conventional default for text vectorizers.
var tokenPattern = regexp.MustCompile(`\w\w+`)

// tokenize lowercases text and extracts word tokens.
func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// tfidfVectorize turns each document into a term-frequency-inverse-
// document-frequency vector over the shared vocabulary.
//
// Weights use smoothed IDF (ln((1+n)/(1+df)) + 1) and each vector is
// L2-normalized, so the dot product of two vectors is their cosine
// similarity.
func tfidfVectorize(docs []string) [][]float64 {
	tokenized := make([][]string, len(docs))
	vocabSet := make(map[string]struct{})
	for i, doc := range docs {
		tokenized[i] = tokenize(doc)
		for _, tok := range tokenized[i] {
			vocabSet[tok] = struct{}{}
		}
	}

	vocab := make([]string, 0, len(vocabSet))
	for tok := range vocabSet {
		vocab = append(vocab, tok)
	}
	sort.Strings(vocab)

	index := make(map[string]int, len(vocab))
	for i, tok := range vocab {
		index[tok] = i
	}

	// Document frequency per term.
	df := make([]int, len(vocab))
	for _, toks := range tokenized {
		seen := make(map[int]struct{}, len(toks))
		for _, tok := range toks {
			seen[index[tok]] = struct{}{}
		}
		for t := range seen {
			df[t]++
		}
	}

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for t := range idf {
		idf[t] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	vectors := make([][]float64, len(docs))
	for i, toks := range tokenized {
		vec := make([]float64, len(vocab))
		for _, tok := range toks {
			vec[index[tok]]++
		}
		for t := range vec {
			vec[t] *= idf[t]
		}
		l2Normalize(vec)
		vectors[i] = vec
	}
	return vectors
}

// l2Normalize scales vec to unit Euclidean length in place. Zero vectors
// are left untouched.
func l2Normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}
