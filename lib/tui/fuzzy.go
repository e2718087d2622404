// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"sort"
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is the outcome of matching one candidate. A zero Score
// means no match.
type FuzzyResult struct {
	Score int

	// Positions are rune indices into the candidate text of the
	// matched characters, in ascending order.
	Positions []int
}

var initAlgo sync.Once

// FuzzyMatch scores text against pattern with fzf's V2 algorithm.
// Matching is case-insensitive: both sides are lowercased before
// scoring. A nil slab is allowed; callers matching many candidates
// should reuse one from util.MakeSlab.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{}
	}
	initAlgo.Do(func() { algo.Init("default") })

	lowered := make([]rune, len(pattern))
	for index, character := range pattern {
		lowered[index] = []rune(strings.ToLower(string(character)))[0]
	}

	chars := util.ToChars([]byte(strings.ToLower(text)))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if result.Score <= 0 {
		return FuzzyResult{}
	}

	var matched []int
	if positions != nil {
		matched = append(matched, (*positions)...)
		sort.Ints(matched)
	}
	return FuzzyResult{Score: result.Score, Positions: matched}
}
