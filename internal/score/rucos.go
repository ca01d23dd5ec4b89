package score

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/maxdcmn/rsgbench/internal/dataset"
	"github.com/maxdcmn/rsgbench/internal/utils"
)

// Predicted entities sometimes carry trailing newlines, spaces or commas.
var trailingNonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_]+$`)

func stripRuCoSLabel(label string) string {
	return trailingNonWordRe.ReplaceAllString(label, "")
}

type rucosPrediction struct {
	Idx   dataset.ID `json:"idx"`
	Label string     `json:"label"`
}

// evaluateRuCoS matches each prediction to the query with the same id. A
// prediction that names none of the passage entities is not scored.
func evaluateRuCoS(preds, targets []json.RawMessage) (Metrics, error) {
	predItems, err := dataset.Decode[rucosPrediction](preds)
	if err != nil {
		return nil, fmt.Errorf("preds: %w", err)
	}
	targetItems, err := dataset.Decode[dataset.RuCoS](targets)
	if err != nil {
		return nil, fmt.Errorf("targets: %w", err)
	}

	predicted := make(map[dataset.ID]string, len(predItems))
	for _, p := range predItems {
		predicted[p.Idx] = stripRuCoSLabel(p.Label)
	}

	known := make(map[dataset.ID]bool)
	var em, f1 float64
	scored, unmatched := 0, 0
	for _, passage := range targetItems {
		entities := passage.Passage.Entities()
		for _, qa := range passage.Qas {
			known[qa.Idx] = true
			pred := predicted[qa.Idx]
			if pred == "" {
				continue
			}
			if !lo.Contains(entities, pred) {
				unmatched++
				continue
			}
			answers := lo.Map(qa.Answers, func(a dataset.Span, _ int) string { return passage.Passage.SpanText(a) })
			em += maxOver(answers, func(gold string) float64 { return exactMatch(pred, gold) })
			f1 += maxOver(answers, func(gold string) float64 { return tokenF1(pred, gold) })
			scored++
		}
	}

	for _, p := range predItems {
		if !known[p.Idx] {
			return nil, &MissingTargetError{Idx: string(p.Idx)}
		}
	}
	if unmatched > 0 {
		utils.Warn("rucos: %d predictions name no passage entity and were not scored", unmatched)
	}

	if scored > 0 {
		em /= float64(scored)
		f1 /= float64(scored)
	}
	return Metrics{
		"f1":  f1,
		"em":  em,
		"avg": (f1 + em) / 2,
	}, nil
}

func maxOver(golds []string, metric func(string) float64) float64 {
	best := 0.0
	for _, g := range golds {
		best = max(best, metric(g))
	}
	return best
}

var articles = map[string]bool{"a": true, "an": true, "the": true}

// normalizeAnswer lowercases, drops punctuation and articles and collapses
// whitespace.
func normalizeAnswer(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
	tokens := lo.Filter(strings.Fields(s), func(t string, _ int) bool { return !articles[t] })
	return strings.Join(tokens, " ")
}

func exactMatch(pred, gold string) float64 {
	if normalizeAnswer(pred) == normalizeAnswer(gold) {
		return 1
	}
	return 0
}

func tokenF1(pred, gold string) float64 {
	predTokens := strings.Fields(normalizeAnswer(pred))
	goldTokens := strings.Fields(normalizeAnswer(gold))
	counts := lo.CountValues(goldTokens)
	common := 0
	for _, t := range predTokens {
		if counts[t] > 0 {
			counts[t]--
			common++
		}
	}
	if common == 0 {
		return 0
	}
	precision := float64(common) / float64(len(predTokens))
	recall := float64(common) / float64(len(goldTokens))
	return 2 * precision * recall / (precision + recall)
}
