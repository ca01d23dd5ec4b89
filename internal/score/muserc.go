package score

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/maxdcmn/rsgbench/internal/dataset"
)

type answerKey struct {
	passage, question, answer dataset.ID
}

type questionKey struct {
	passage, question dataset.ID
}

// evaluateMuSeRC joins answers on (passage, question, answer) ids. ans_f1 is
// the F1 of the "correct" class over all answers, em the share of questions
// with every answer right.
func evaluateMuSeRC(preds, targets []json.RawMessage) (Metrics, error) {
	predItems, err := dataset.Decode[dataset.MuSeRC](preds)
	if err != nil {
		return nil, fmt.Errorf("preds: %w", err)
	}
	targetItems, err := dataset.Decode[dataset.MuSeRC](targets)
	if err != nil {
		return nil, fmt.Errorf("targets: %w", err)
	}

	gold := make(map[answerKey]int)
	for _, p := range targetItems {
		for _, q := range p.Passage.Questions {
			for _, a := range q.Answers {
				if a.Label == nil {
					return nil, fmt.Errorf("target answer %s: missing label", a.Idx)
				}
				gold[answerKey{p.Idx, q.Idx, a.Idx}] = *a.Label
			}
		}
	}

	var predLabels, goldLabels []int
	var questions []questionKey
	perQuestion := make(map[questionKey][2][]int)
	for _, p := range predItems {
		for _, q := range p.Passage.Questions {
			qk := questionKey{p.Idx, q.Idx}
			for _, a := range q.Answers {
				if a.Label == nil {
					return nil, fmt.Errorf("prediction answer %s: missing label", a.Idx)
				}
				g, ok := gold[answerKey{p.Idx, q.Idx, a.Idx}]
				if !ok {
					return nil, &MissingTargetError{Idx: fmt.Sprintf("%s/%s/%s", p.Idx, q.Idx, a.Idx)}
				}
				predLabels = append(predLabels, *a.Label)
				goldLabels = append(goldLabels, g)

				if _, seen := perQuestion[qk]; !seen {
					questions = append(questions, qk)
				}
				pair := perQuestion[qk]
				pair[0] = append(pair[0], *a.Label)
				pair[1] = append(pair[1], g)
				perQuestion[qk] = pair
			}
		}
	}

	var em, qstF1 float64
	for _, qk := range questions {
		pair := perQuestion[qk]
		if slices.Equal(pair[0], pair[1]) {
			em++
		}
		qstF1 += F1(pair[0], pair[1], 1)
	}
	if len(questions) > 0 {
		em /= float64(len(questions))
		qstF1 /= float64(len(questions))
	}

	ansF1 := F1(predLabels, goldLabels, 1)
	return Metrics{
		"ans_f1": ansF1,
		"qst_f1": qstF1,
		"em":     em,
		"avg":    (ansF1 + em) / 2,
	}, nil
}
