package score

import "math"

// Metrics maps metric names to values.
type Metrics map[string]float64

func Accuracy(pred, gold []int) float64 {
	if len(pred) == 0 {
		return 0
	}
	correct := 0
	for i := range pred {
		if pred[i] == gold[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(pred))
}

// F1 is the F-measure of class positive. It is 0 when precision and recall
// are both 0.
func F1(pred, gold []int, positive int) float64 {
	var tp, fp, fn float64
	for i := range pred {
		switch {
		case pred[i] == positive && gold[i] == positive:
			tp++
		case pred[i] == positive:
			fp++
		case gold[i] == positive:
			fn++
		}
	}
	if tp == 0 {
		return 0
	}
	precision := tp / (tp + fp)
	recall := tp / (tp + fn)
	return 2 * precision * recall / (precision + recall)
}

// MacroF1 averages per-class F1 over classes 0..classes-1, absent classes
// included.
func MacroF1(pred, gold []int, classes int) float64 {
	if classes == 0 {
		return 0
	}
	var sum float64
	for c := 0; c < classes; c++ {
		sum += F1(pred, gold, c)
	}
	return sum / float64(classes)
}

// MCC is the Matthews correlation coefficient for binary labels. It is 0
// when any marginal is empty.
func MCC(pred, gold []int) float64 {
	var tp, tn, fp, fn float64
	for i := range pred {
		switch {
		case pred[i] == 1 && gold[i] == 1:
			tp++
		case pred[i] == 1:
			fp++
		case gold[i] == 1:
			fn++
		default:
			tn++
		}
	}
	denom := math.Sqrt((tp + fp) * (tp + fn) * (tn + fp) * (tn + fn))
	if denom == 0 {
		return 0
	}
	return (tp*tn - fp*fn) / denom
}
