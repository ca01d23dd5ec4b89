package score

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/onsi/gomega"

	"github.com/maxdcmn/rsgbench/internal/task"
)

func raw(lines ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(lines))
	for i, l := range lines {
		out[i] = json.RawMessage(l)
	}
	return out
}

func TestCanonical(t *testing.T) {
	g := gomega.NewWithT(t)
	cases := map[string]int{
		`true`:             1,
		`false`:            0,
		`"True"`:           1,
		`"false"`:          0,
		`"neutral"`:        0,
		`"not_entailment"`: 0,
		`"entailment"`:     1,
		`"contradiction"`:  2,
		`2`:                2,
	}
	for in, want := range cases {
		got, err := Canonical(json.RawMessage(in))
		g.Expect(err).NotTo(gomega.HaveOccurred(), in)
		g.Expect(got).To(gomega.Equal(want), in)
	}

	for _, bad := range []string{`"maybe"`, `1.5`, `-1`, `null`, ``} {
		_, err := Canonical(json.RawMessage(bad))
		g.Expect(err).To(gomega.HaveOccurred(), bad)
	}
}

func TestMetricPrimitives(t *testing.T) {
	g := gomega.NewWithT(t)
	pred := []int{1, 0, 1, 1}
	gold := []int{1, 0, 0, 1}

	g.Expect(Accuracy(pred, gold)).To(gomega.Equal(0.75))
	g.Expect(F1(pred, gold, 1)).To(gomega.BeNumerically("~", 0.8, 1e-9))
	g.Expect(MCC(pred, gold)).To(gomega.BeNumerically("~", 0.5773502, 1e-6))
	g.Expect(MCC([]int{1, 1}, []int{1, 1})).To(gomega.Equal(0.0))
	g.Expect(Accuracy(nil, nil)).To(gomega.Equal(0.0))
	g.Expect(MacroF1([]int{0, 1, 2}, []int{0, 1, 2}, 3)).To(gomega.Equal(1.0))
}

func TestEvaluateAccuracyTasks(t *testing.T) {
	g := gomega.NewWithT(t)
	preds := raw(`{"idx": 0, "label": "true"}`, `{"idx": 1, "label": "false"}`, `{"idx": "2", "label": "true"}`)
	targets := raw(`{"idx": 2, "label": false}`, `{"idx": 1, "label": false}`, `{"idx": 0, "label": true}`)

	m, err := Evaluate(task.DaNetQA, preds, targets)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(m["accuracy"]).To(gomega.BeNumerically("~", 2.0/3, 1e-9))
}

func TestEvaluateMissingTargetIsFatal(t *testing.T) {
	g := gomega.NewWithT(t)
	preds := raw(`{"idx": 0, "label": "entailment"}`, `{"idx": 7, "label": "entailment"}`)
	targets := raw(`{"idx": 0, "label": "entailment"}`)

	for _, tk := range []task.Task{task.TERRa, task.RCB, task.LiDiRus} {
		_, err := Evaluate(tk, preds, targets)
		g.Expect(errors.Is(err, ErrMissingTarget)).To(gomega.BeTrue(), tk.String())

		var missing *MissingTargetError
		g.Expect(errors.As(err, &missing)).To(gomega.BeTrue())
		g.Expect(missing.Idx).To(gomega.Equal("7"))
	}
}

func TestEvaluateRCB(t *testing.T) {
	g := gomega.NewWithT(t)
	preds := raw(`{"idx": 0, "label": "entailment"}`, `{"idx": 1, "label": "neutral"}`, `{"idx": 2, "label": "neutral"}`)
	targets := raw(`{"idx": 0, "label": "entailment"}`, `{"idx": 1, "label": "neutral"}`, `{"idx": 2, "label": "contradiction"}`)

	m, err := Evaluate(task.RCB, preds, targets)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(m["accuracy"]).To(gomega.BeNumerically("~", 2.0/3, 1e-9))
	// neutral 2/3, entailment 1, contradiction 0
	g.Expect(m["f1"]).To(gomega.BeNumerically("~", (2.0/3+1)/3, 1e-9))
}

func TestEvaluateRWSD(t *testing.T) {
	g := gomega.NewWithT(t)
	preds := raw(`{"idx": 0, "label": true}`, `{"idx": 1, "label": false}`)
	targets := raw(`{"idx": 0, "label": true}`, `{"idx": 1, "label": true}`)

	m, err := Evaluate(task.RWSD, preds, targets)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(m).To(gomega.HaveKeyWithValue("acc", 0.5))
	g.Expect(m["f1"]).To(gomega.BeNumerically("~", 2.0/3, 1e-9))
}

func TestEvaluateMuSeRC(t *testing.T) {
	g := gomega.NewWithT(t)
	targets := raw(`{"idx": 0, "passage": {"questions": [
		{"idx": 0, "answers": [{"idx": 0, "label": 1}, {"idx": 1, "label": 0}]},
		{"idx": 1, "answers": [{"idx": 2, "label": 1}, {"idx": 3, "label": 0}]}
	]}}`)
	preds := raw(`{"idx": 0, "passage": {"questions": [
		{"idx": 0, "answers": [{"idx": 0, "label": 1}, {"idx": 1, "label": 0}]},
		{"idx": 1, "answers": [{"idx": 2, "label": 0}, {"idx": 3, "label": 0}]}
	]}}`)

	m, err := Evaluate(task.MuSeRC, preds, targets)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(m["ans_f1"]).To(gomega.BeNumerically("~", 2.0/3, 1e-9))
	g.Expect(m["em"]).To(gomega.Equal(0.5))
	g.Expect(m["qst_f1"]).To(gomega.Equal(0.5))
	g.Expect(m["avg"]).To(gomega.BeNumerically("~", (2.0/3+0.5)/2, 1e-9))

	unknown := raw(`{"idx": 0, "passage": {"questions": [{"idx": 5, "answers": [{"idx": 0, "label": 1}]}]}}`)
	_, err = Evaluate(task.MuSeRC, unknown, targets)
	g.Expect(errors.Is(err, ErrMissingTarget)).To(gomega.BeTrue())
}

func TestEvaluateRuCoS(t *testing.T) {
	g := gomega.NewWithT(t)
	targets := raw(`{"idx": 0,
		"passage": {"text": "Путин прилетел в Москву.", "entities": [{"start": 0, "end": 5}, {"start": 17, "end": 23}]},
		"qas": [
			{"idx": 0, "query": "@placeholder", "answers": [{"start": 17, "end": 23, "text": "Москву"}]},
			{"idx": 1, "query": "@placeholder", "answers": [{"start": 0, "end": 5, "text": "Путин"}]},
			{"idx": 2, "query": "@placeholder", "answers": [{"start": 0, "end": 5}]}
		]}`)
	preds := raw(
		`{"idx": 0, "label": "Москву,\n"}`,
		`{"idx": 1, "label": "Москва"}`,
		`{"idx": 2, "label": "Москву"}`,
	)

	m, err := Evaluate(task.RuCoS, preds, targets)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(m).To(gomega.HaveKeyWithValue("em", 0.5))
	g.Expect(m).To(gomega.HaveKeyWithValue("f1", 0.5))
	g.Expect(m).To(gomega.HaveKeyWithValue("avg", 0.5))

	_, err = Evaluate(task.RuCoS, raw(`{"idx": 9, "label": "Путин"}`), targets)
	g.Expect(errors.Is(err, ErrMissingTarget)).To(gomega.BeTrue())
}

func TestTokenF1(t *testing.T) {
	g := gomega.NewWithT(t)
	g.Expect(normalizeAnswer("  The  Kremlin, Moscow! ")).To(gomega.Equal("kremlin moscow"))
	g.Expect(tokenF1("Kremlin", "the Kremlin")).To(gomega.Equal(1.0))
	g.Expect(tokenF1("Moscow Kremlin", "Kremlin")).To(gomega.BeNumerically("~", 2.0/3, 1e-9))
	g.Expect(tokenF1("Moscow", "Kremlin")).To(gomega.Equal(0.0))
	g.Expect(stripRuCoSLabel("Москву \n,")).To(gomega.Equal("Москву"))
}

func TestEvaluateLiDiRus(t *testing.T) {
	g := gomega.NewWithT(t)
	targets := raw(
		`{"idx": 0, "label": "entailment", "logic": "Negation"}`,
		`{"idx": 1, "label": "not_entailment", "logic": "Negation", "knowledge": "World knowledge"}`,
		`{"idx": 2, "label": "entailment"}`,
		`{"idx": 3, "label": "not_entailment"}`,
	)
	preds := raw(
		`{"idx": 0, "label": "entailment"}`,
		`{"idx": 1, "label": "not_entailment"}`,
		`{"idx": 2, "label": "entailment"}`,
		`{"idx": 3, "label": "not_entailment"}`,
	)

	m, err := Evaluate(task.LiDiRus, preds, targets)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(m).To(gomega.HaveLen(5))
	g.Expect(m).To(gomega.HaveKeyWithValue("all_mcc", 1.0))
	g.Expect(m).To(gomega.HaveKeyWithValue("logic_mcc", 1.0))
	g.Expect(m).To(gomega.HaveKeyWithValue("logic__Negation_mcc", 1.0))
	g.Expect(m).To(gomega.HaveKeyWithValue("knowledge_mcc", 0.0))
	g.Expect(m).To(gomega.HaveKeyWithValue("knowledge__World knowledge_mcc", 0.0))
}

func TestScore(t *testing.T) {
	g := gomega.NewWithT(t)

	s, err := FromMetrics(task.MuSeRC, Metrics{"ans_f1": 0.301, "em": 0.441, "qst_f1": 0.2})
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(s.Value()).To(gomega.BeNumerically("~", 0.371, 1e-9))
	g.Expect(s.String()).To(gomega.Equal("0.301 / 0.441"))
	g.Expect(s.Format(1, "|")).To(gomega.Equal("0.3|0.4"))

	single, err := FromMetrics(task.TERRa, Metrics{"accuracy": 0.5})
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(single.Second).To(gomega.BeNil())
	g.Expect(single.Value()).To(gomega.Equal(0.5))
	g.Expect(single.String()).To(gomega.Equal("0.500"))

	_, err = FromMetrics(task.RCB, Metrics{"f1": 0.3})
	g.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("accuracy")))

	parsed, err := ParseScore("0.301 / 0.441")
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(parsed.First).To(gomega.Equal(0.301))
	g.Expect(*parsed.Second).To(gomega.Equal(0.441))

	_, err = ParseScore("0.1 / 0.2 / 0.3")
	g.Expect(err).To(gomega.HaveOccurred())
	_, err = ParseScore("n/a")
	g.Expect(err).To(gomega.HaveOccurred())
}
