// Package score compares normalised predictions with gold targets and
// computes the per-task leaderboard metrics.
package score

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/maxdcmn/rsgbench/internal/dataset"
	"github.com/maxdcmn/rsgbench/internal/task"
)

var ErrMissingTarget = errors.New("no target for prediction")

type MissingTargetError struct {
	Idx string
}

func (e *MissingTargetError) Error() string {
	return fmt.Sprintf("no target for prediction %s", e.Idx)
}

func (e *MissingTargetError) Is(target error) bool {
	return target == ErrMissingTarget
}

// Evaluate scores predictions of task t against targets. Every prediction
// must have a target.
func Evaluate(t task.Task, preds, targets []json.RawMessage) (Metrics, error) {
	switch t {
	case task.DaNetQA, task.PARus, task.RUSSE, task.TERRa, task.RCB, task.RWSD:
		return evaluateFlat(t, preds, targets)
	case task.MuSeRC:
		return evaluateMuSeRC(preds, targets)
	case task.RuCoS:
		return evaluateRuCoS(preds, targets)
	case task.LiDiRus:
		return evaluateLiDiRus(preds, targets)
	}
	return nil, fmt.Errorf("%w: %d", task.ErrUnknownTask, int(t))
}

func evaluateFlat(t task.Task, preds, targets []json.RawMessage) (Metrics, error) {
	predItems, err := dataset.Decode[dataset.Item](preds)
	if err != nil {
		return nil, fmt.Errorf("preds: %w", err)
	}
	targetItems, err := dataset.Decode[dataset.Item](targets)
	if err != nil {
		return nil, fmt.Errorf("targets: %w", err)
	}

	gold := make(map[dataset.ID]int, len(targetItems))
	for _, item := range targetItems {
		label, err := Canonical(item.Label)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", item.Idx, err)
		}
		gold[item.Idx] = label
	}

	predLabels := make([]int, len(predItems))
	goldLabels := make([]int, len(predItems))
	for i, item := range predItems {
		label, err := Canonical(item.Label)
		if err != nil {
			return nil, fmt.Errorf("prediction %s: %w", item.Idx, err)
		}
		g, ok := gold[item.Idx]
		if !ok {
			return nil, &MissingTargetError{Idx: string(item.Idx)}
		}
		predLabels[i] = label
		goldLabels[i] = g
	}

	switch t {
	case task.RCB:
		return Metrics{
			"accuracy": Accuracy(predLabels, goldLabels),
			"f1":       MacroF1(predLabels, goldLabels, 3),
		}, nil
	case task.RWSD:
		return Metrics{
			"acc": Accuracy(predLabels, goldLabels),
			"f1":  F1(predLabels, goldLabels, 1),
		}, nil
	}
	return Metrics{"accuracy": Accuracy(predLabels, goldLabels)}, nil
}
