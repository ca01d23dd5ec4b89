package score

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/maxdcmn/rsgbench/internal/dataset"
)

// lidirusTags lists the diagnostic categories an item belongs to: the short
// category name and category__value for each category it is annotated with.
func lidirusTags(item dataset.LiDiRus) []string {
	var tags []string
	add := func(key string, value *string) {
		if value != nil {
			tags = append(tags, key, key+"__"+*value)
		}
	}
	add("logic", item.Logic)
	add("pr_ar_str", item.PredicateArgumentStructure)
	add("lex_sem", item.LexicalSemantics)
	add("knowledge", item.Knowledge)
	return tags
}

// evaluateLiDiRus reports MCC over all predictions (all_mcc) and over the
// items of each diagnostic tag (<tag>_mcc).
func evaluateLiDiRus(preds, targets []json.RawMessage) (Metrics, error) {
	predItems, err := dataset.Decode[dataset.Item](preds)
	if err != nil {
		return nil, fmt.Errorf("preds: %w", err)
	}
	targetItems, err := dataset.Decode[dataset.LiDiRus](targets)
	if err != nil {
		return nil, fmt.Errorf("targets: %w", err)
	}

	byID := lo.KeyBy(targetItems, func(item dataset.LiDiRus) dataset.ID { return item.Idx })
	allTags := lo.Uniq(lo.FlatMap(targetItems, func(item dataset.LiDiRus, _ int) []string { return lidirusTags(item) }))
	slices.Sort(allTags)

	predLabels := make([]int, len(predItems))
	goldLabels := make([]int, len(predItems))
	masks := make(map[string][]bool, len(allTags))
	for i, p := range predItems {
		label, err := canonical(p.Label, entailmentRenames)
		if err != nil {
			return nil, fmt.Errorf("prediction %s: %w", p.Idx, err)
		}
		target, ok := byID[p.Idx]
		if !ok {
			return nil, &MissingTargetError{Idx: string(p.Idx)}
		}
		gold, err := canonical(target.Label, entailmentRenames)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", target.Idx, err)
		}
		predLabels[i] = label
		goldLabels[i] = gold

		tags := lidirusTags(target)
		for _, tag := range allTags {
			masks[tag] = append(masks[tag], lo.Contains(tags, tag))
		}
	}

	metrics := Metrics{"all_mcc": MCC(predLabels, goldLabels)}
	for _, tag := range allTags {
		var pred, gold []int
		for i, in := range masks[tag] {
			if in {
				pred = append(pred, predLabels[i])
				gold = append(gold, goldLabels[i])
			}
		}
		metrics[tag+"_mcc"] = MCC(pred, gold)
	}
	return metrics, nil
}
