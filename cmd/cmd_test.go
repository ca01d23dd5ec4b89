package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/maxdcmn/rsgbench/internal/model"
	"github.com/maxdcmn/rsgbench/internal/registry"
	"github.com/maxdcmn/rsgbench/internal/score"
	"github.com/maxdcmn/rsgbench/internal/stats"
	"github.com/maxdcmn/rsgbench/internal/task"
	"github.com/maxdcmn/rsgbench/internal/utils"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIsCleanExit(t *testing.T) {
	g := gomega.NewWithT(t)
	g.Expect(isCleanExit(context.Canceled)).To(gomega.BeTrue())
	g.Expect(isCleanExit(fmt.Errorf("write stdout: %w", syscall.EPIPE))).To(gomega.BeTrue())
	g.Expect(isCleanExit(errors.New("boom"))).To(gomega.BeFalse())
	g.Expect(isCleanExit(&score.MissingTargetError{Idx: "1"})).To(gomega.BeFalse())
}

func TestFlagOr(t *testing.T) {
	g := gomega.NewWithT(t)
	var v int
	c := &cobra.Command{Use: "x"}
	c.Flags().IntVar(&v, "size", 1, "")

	g.Expect(flagOr(c, "size", v, 7)).To(gomega.Equal(7))
	g.Expect(c.Flags().Set("size", "3")).To(gomega.Succeed())
	g.Expect(flagOr(c, "size", v, 7)).To(gomega.Equal(3))
}

func TestEvaluateDir(t *testing.T) {
	g := gomega.NewWithT(t)
	dir := t.TempDir()
	preds := filepath.Join(dir, "preds")
	targets := filepath.Join(dir, "targets")

	writeFile(t, filepath.Join(preds, "DaNetQA.jsonl"), `{"idx": 0, "label": "true"}
{"idx": 1, "label": "true"}
`)
	writeFile(t, filepath.Join(targets, "DaNetQA", "val.jsonl"), `{"idx": 0, "label": true}
{"idx": 1, "label": false}
`)
	writeFile(t, filepath.Join(preds, "TERRa.jsonl"), `{"idx": 0, "label": "entailment"}
`)
	writeFile(t, filepath.Join(targets, "TERRa", "val.jsonl"), `{"idx": 0, "label": "entailment"}
`)
	// predictions without targets are skipped
	writeFile(t, filepath.Join(preds, "RCB.jsonl"), `{"idx": 0, "label": "neutral"}
`)

	results, err := evaluateDir(preds, targets, task.Val, "")
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(results).To(gomega.HaveLen(2))
	g.Expect(results["danetqa"].Metrics).To(gomega.HaveKeyWithValue("accuracy", 0.5))
	g.Expect(results["danetqa"].Score).To(gomega.Equal("0.500"))
	g.Expect(results["terra"].Metrics).To(gomega.HaveKeyWithValue("accuracy", 1.0))
}

func TestEvaluateDirFailsOnMissingTarget(t *testing.T) {
	g := gomega.NewWithT(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "preds", "PARus.jsonl"), `{"idx": 5, "label": 1}
`)
	writeFile(t, filepath.Join(dir, "targets", "private", "PARus", "test_with_answers.jsonl"), `{"idx": 0, "label": 1}
`)

	_, err := evaluateDir(filepath.Join(dir, "preds"), filepath.Join(dir, "targets"), task.Test, task.Private)
	g.Expect(errors.Is(err, score.ErrMissingTarget)).To(gomega.BeTrue())
}

func saveRunFile(t *testing.T, r registry.Record, times ...float64) {
	t.Helper()
	run := make(model.Run, len(times))
	for i, ts := range times {
		run[i] = model.Sample{Timestamp: ts, GPUUsage: model.Float(0.5), GPURAM: model.Int(2 << 30)}
	}
	if err := registry.Save(r, run); err != nil {
		t.Fatal(err)
	}
}

func TestReportRows(t *testing.T) {
	g := gomega.NewWithT(t)
	dir := t.TempDir()
	saveRunFile(t, registry.Record{Dir: dir, Model: "bert", Task: "terra", InputSize: 1, BatchSize: 1, Index: 1}, 0, 10)
	saveRunFile(t, registry.Record{Dir: dir, Model: "bert", Task: "terra", InputSize: 2000, BatchSize: 32, Index: 1}, 0, 30)
	saveRunFile(t, registry.Record{Dir: dir, Model: "bert", Task: "danetqa", InputSize: 1, BatchSize: 1, Index: 1}, 0, 5)

	records, err := registry.List(dir)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(presentTasks(records)).To(gomega.Equal([]string{"danetqa", "terra"}))

	groups, err := stats.BuildGroups(records, []string{"bert"}, presentTasks(records), stats.DefaultGroupOptions())
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(groups).To(gomega.HaveLen(2))

	danetqa := newReportRow(groups[0])
	g.Expect(*danetqa.GPURAM).To(gomega.Equal(2.0))
	g.Expect(*danetqa.InitTime).To(gomega.Equal(5.0))
	g.Expect(danetqa.RPS).To(gomega.BeNil())

	terra := newReportRow(groups[1])
	g.Expect(*terra.RPS).To(gomega.Equal(100.0))

	out := renderReport([]reportRow{danetqa, terra})
	g.Expect(out).To(gomega.ContainSubstring("danetqa"))
	g.Expect(out).To(gomega.ContainSubstring("100.0"))
	g.Expect(out).To(gomega.ContainSubstring("-"))
}

func TestExecuteClosesLogFileOnFailure(t *testing.T) {
	g := gomega.NewWithT(t)

	dir := t.TempDir()
	logPath := filepath.Join(dir, "rsgbench.log")
	rootCmd.SetArgs([]string{
		"--config", filepath.Join(dir, "absent.yaml"),
		"--log-file", logPath,
		"stats", filepath.Join(dir, "missing", "1_1_01.jsonl"),
	})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rf = rootFlags{}
	})

	err := execute(context.Background())
	g.Expect(err).To(gomega.HaveOccurred())

	utils.Info("logged after exit")
	data, err := os.ReadFile(logPath)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(string(data)).NotTo(gomega.ContainSubstring("logged after exit"))
}
