// Package normalize turns per-candidate language model scores into task
// answers in the leaderboard submission format.
package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/samber/lo"

	"github.com/maxdcmn/rsgbench/internal/dataset"
	"github.com/maxdcmn/rsgbench/internal/task"
)

const (
	RCBThreshold   = 20
	TERRaThreshold = 22

	DefaultBatchSize = 32
)

var parusConnectives = map[string]string{
	"cause":  " Потому что ",
	"effect": " Из-за этого ",
}

type Normalizer struct {
	scorer    CandidateScorer
	batchSize int
}

func New(scorer CandidateScorer, batchSize int) *Normalizer {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Normalizer{scorer: scorer, batchSize: batchSize}
}

// score rates texts in chunks of batchSize and checks the scorer kept the
// one-score-per-text contract.
func (n *Normalizer) score(ctx context.Context, texts []string) ([]float64, error) {
	scores := make([]float64, 0, len(texts))
	for _, batch := range lo.Chunk(texts, n.batchSize) {
		batchScores, err := n.scorer.ScoreCandidates(ctx, batch)
		if err != nil {
			return nil, err
		}
		if len(batchScores) != len(batch) {
			return nil, fmt.Errorf("scorer returned %d scores for %d texts", len(batchScores), len(batch))
		}
		scores = append(scores, batchScores...)
	}
	return scores, nil
}

// Normalize decodes raw task items and returns one output record per item.
func (n *Normalizer) Normalize(ctx context.Context, t task.Task, raw []json.RawMessage) ([]any, error) {
	switch t {
	case task.DaNetQA:
		return decodeAndRun(ctx, raw, n.DaNetQA)
	case task.PARus:
		return decodeAndRun(ctx, raw, n.PARus)
	case task.RCB:
		return decodeAndRun(ctx, raw, n.RCB)
	case task.TERRa:
		return decodeAndRun(ctx, raw, n.TERRa)
	case task.RUSSE:
		return decodeAndRun(ctx, raw, n.RUSSE)
	case task.LiDiRus:
		return decodeAndRun(ctx, raw, n.LiDiRus)
	case task.RWSD:
		return decodeAndRun(ctx, raw, n.RWSD)
	case task.RuCoS:
		return decodeAndRun(ctx, raw, n.RuCoS)
	case task.MuSeRC:
		items, err := dataset.Decode[dataset.MuSeRC](raw)
		if err != nil {
			return nil, err
		}
		out, err := n.MuSeRC(ctx, items)
		if err != nil {
			return nil, err
		}
		return lo.ToAnySlice(out), nil
	}
	return nil, fmt.Errorf("%w: %d", task.ErrUnknownTask, int(t))
}

func decodeAndRun[T any](ctx context.Context, raw []json.RawMessage, run func(context.Context, []T) ([]dataset.Prediction, error)) ([]any, error) {
	items, err := dataset.Decode[T](raw)
	if err != nil {
		return nil, err
	}
	preds, err := run(ctx, items)
	if err != nil {
		return nil, err
	}
	return lo.ToAnySlice(preds), nil
}

// comparePrompts scores two prompts per item and labels each item from the
// pair of scores.
func comparePrompts[T any](ctx context.Context, n *Normalizer, items []T, idx func(T) dataset.ID, prompts func(T) (string, string), label func(first, second float64) any) ([]dataset.Prediction, error) {
	texts := make([]string, 0, 2*len(items))
	for _, item := range items {
		a, b := prompts(item)
		texts = append(texts, a, b)
	}
	scores, err := n.score(ctx, texts)
	if err != nil {
		return nil, err
	}
	preds := make([]dataset.Prediction, len(items))
	for i, item := range items {
		preds[i] = dataset.Prediction{Idx: idx(item), Label: label(scores[2*i], scores[2*i+1])}
	}
	return preds, nil
}

// thresholdPrompt scores one prompt per item and labels it by comparing the
// score with a fixed threshold.
func thresholdPrompt[T any](ctx context.Context, n *Normalizer, items []T, idx func(T) dataset.ID, prompt func(T) string, label func(score float64) any) ([]dataset.Prediction, error) {
	scores, err := n.score(ctx, lo.Map(items, func(item T, _ int) string { return prompt(item) }))
	if err != nil {
		return nil, err
	}
	preds := make([]dataset.Prediction, len(items))
	for i, item := range items {
		preds[i] = dataset.Prediction{Idx: idx(item), Label: label(scores[i])}
	}
	return preds, nil
}

// DaNetQA answers "true" when the question followed by "yes" reads better
// than followed by "no".
func (n *Normalizer) DaNetQA(ctx context.Context, items []dataset.DaNetQA) ([]dataset.Prediction, error) {
	return comparePrompts(ctx, n, items,
		func(it dataset.DaNetQA) dataset.ID { return it.Idx },
		func(it dataset.DaNetQA) (string, string) { return it.Question + " Да", it.Question + " Нет" },
		func(yes, no float64) any { return strconv.FormatBool(yes < no) },
	)
}

// PARus picks the alternative that continues the premise best. A tie goes to
// the first alternative.
func (n *Normalizer) PARus(ctx context.Context, items []dataset.PARus) ([]dataset.Prediction, error) {
	for _, it := range items {
		if _, ok := parusConnectives[it.Question]; !ok {
			return nil, fmt.Errorf("parus item %s: unknown question %q", it.Idx, it.Question)
		}
	}
	return comparePrompts(ctx, n, items,
		func(it dataset.PARus) dataset.ID { return it.Idx },
		func(it dataset.PARus) (string, string) {
			prefix := clean(it.Premise) + parusConnectives[it.Question]
			return prefix + lowerFirst(it.Choice1), prefix + lowerFirst(it.Choice2)
		},
		func(first, second float64) any {
			if first > second {
				return 1
			}
			return 0
		},
	)
}

func (n *Normalizer) RCB(ctx context.Context, items []dataset.Pair) ([]dataset.Prediction, error) {
	return thresholdPrompt(ctx, n, items,
		func(it dataset.Pair) dataset.ID { return it.Idx },
		func(it dataset.Pair) string {
			return clean(it.Premise) + " Из этого следует, что " + lowerFirst(it.Hypothesis)
		},
		func(score float64) any {
			if score < RCBThreshold {
				return "entailment"
			}
			return "neutral"
		},
	)
}

func (n *Normalizer) TERRa(ctx context.Context, items []dataset.Pair) ([]dataset.Prediction, error) {
	return thresholdPrompt(ctx, n, items,
		func(it dataset.Pair) dataset.ID { return it.Idx },
		func(it dataset.Pair) string { return clean(it.Premise) + " " + it.Hypothesis },
		func(score float64) any {
			if score < TERRaThreshold {
				return "entailment"
			}
			return "not_entailment"
		},
	)
}

// RUSSE answers "true" when asserting that the word keeps its meaning reads
// better than denying it.
func (n *Normalizer) RUSSE(ctx context.Context, items []dataset.RUSSE) ([]dataset.Prediction, error) {
	return comparePrompts(ctx, n, items,
		func(it dataset.RUSSE) dataset.ID { return it.Idx },
		func(it dataset.RUSSE) (string, string) {
			base := "Слово " + it.Word + " значит одно и то же в предложениях: Предложение 1: " +
				it.Sentence1 + " Предложение 2: " + it.Sentence2
			return clean(base + " Ответ: верно"), clean(base + " Ответ: неверно")
		},
		func(assert, negate float64) any { return strconv.FormatBool(assert < negate) },
	)
}

func (n *Normalizer) LiDiRus(ctx context.Context, items []dataset.LiDiRus) ([]dataset.Prediction, error) {
	return comparePrompts(ctx, n, items,
		func(it dataset.LiDiRus) dataset.ID { return it.Idx },
		func(it dataset.LiDiRus) (string, string) {
			return it.Sentence1 + " Из этого следует, что " + it.Sentence2,
				it.Sentence1 + " Из этого не следует, что " + it.Sentence2
		},
		func(assert, negate float64) any {
			if assert < negate {
				return "entailment"
			}
			return "not_entailment"
		},
	)
}

// MuSeRC marks the best one or two answers of every question as correct and
// drops the passage text from the output.
func (n *Normalizer) MuSeRC(ctx context.Context, items []dataset.MuSeRC) ([]dataset.MuSeRC, error) {
	var texts []string
	for _, item := range items {
		text := clean(item.Passage.Text)
		for _, q := range item.Passage.Questions {
			for _, a := range q.Answers {
				texts = append(texts, text+" Вопрос: "+q.Question+" Ответ: "+a.Text)
			}
		}
	}
	scores, err := n.score(ctx, texts)
	if err != nil {
		return nil, err
	}

	out := make([]dataset.MuSeRC, len(items))
	offset := 0
	for i, item := range items {
		questions := make([]dataset.MuSeRCQuestion, len(item.Passage.Questions))
		for j, q := range item.Passage.Questions {
			selected := SelectLowest(scores[offset : offset+len(q.Answers)])
			answers := make([]dataset.MuSeRCAnswer, len(q.Answers))
			for k, a := range q.Answers {
				label := 0
				if lo.Contains(selected, k) {
					label = 1
				}
				answers[k] = dataset.MuSeRCAnswer{Idx: a.Idx, Text: a.Text, Label: &label}
			}
			questions[j] = dataset.MuSeRCQuestion{Idx: q.Idx, Question: q.Question, Answers: answers}
			offset += len(q.Answers)
		}
		out[i] = dataset.MuSeRC{Idx: item.Idx, Passage: dataset.MuSeRCPassage{Questions: questions}}
	}
	return out, nil
}

// RWSD groups items sharing a passage and labels only the best-scoring
// reading of each passage as true.
func (n *Normalizer) RWSD(ctx context.Context, items []dataset.RWSD) ([]dataset.Prediction, error) {
	scores, err := n.score(ctx, lo.Map(items, func(it dataset.RWSD, _ int) string {
		return it.Text + " Имеется в виду, что " + it.Target.Span1Text + " - " + it.Target.Span2Text
	}))
	if err != nil {
		return nil, err
	}

	winners := make(map[int]bool)
	groups := lo.GroupBy(lo.Range(len(items)), func(i int) string { return items[i].Text })
	for _, members := range groups {
		groupScores := lo.Map(members, func(i int, _ int) float64 { return scores[i] })
		winners[members[argmin(groupScores)]] = true
	}

	preds := make([]dataset.Prediction, len(items))
	for i, item := range items {
		preds[i] = dataset.Prediction{Idx: item.Idx, Label: winners[i]}
	}
	return preds, nil
}

// RuCoS fills the query placeholder of each passage with every distinct
// entity and answers with the best filling.
func (n *Normalizer) RuCoS(ctx context.Context, items []dataset.RuCoS) ([]dataset.Prediction, error) {
	var texts []string
	candidates := make([][]string, len(items))
	for i, item := range items {
		if len(item.Qas) == 0 {
			return nil, fmt.Errorf("rucos item %s: no query", item.Idx)
		}
		candidates[i] = lo.Uniq(item.Passage.Entities())
		if len(candidates[i]) == 0 {
			return nil, fmt.Errorf("rucos item %s: no entities", item.Idx)
		}
		query := item.Qas[0].Query
		for _, entity := range candidates[i] {
			texts = append(texts, item.Passage.Text+" Заголовок: "+replacePlaceholder(query, entity))
		}
	}
	scores, err := n.score(ctx, texts)
	if err != nil {
		return nil, err
	}

	preds := make([]dataset.Prediction, len(items))
	offset := 0
	for i, item := range items {
		best := SelectLowest(scores[offset : offset+len(candidates[i])])[0]
		preds[i] = dataset.Prediction{Idx: item.Idx, Label: candidates[i][best]}
		offset += len(candidates[i])
	}
	return preds, nil
}
