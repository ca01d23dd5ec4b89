package ui

import (
	"math"
	"testing"

	"github.com/onsi/gomega"
)

func TestColumnChartLines(t *testing.T) {
	g := gomega.NewWithT(t)

	lines := columnChartLines([]float64{math.NaN(), 0, 50, 100}, 6, 2, 100)
	g.Expect(lines).To(gomega.Equal([]string{
		"     █",
		"    ██",
		"──╌───",
	}))
}

func TestColumnChartLinesKeepsNewest(t *testing.T) {
	g := gomega.NewWithT(t)

	lines := columnChartLines([]float64{10, 20, 30}, 2, 1, 40)
	g.Expect(lines).To(gomega.Equal([]string{"▄▆", "──"}))

	lines = columnChartLines([]float64{150}, 1, 1, 100)
	g.Expect(lines[0]).To(gomega.Equal("█"))
}

func TestNiceCeiling(t *testing.T) {
	g := gomega.NewWithT(t)

	g.Expect(niceCeiling(0)).To(gomega.Equal(1.0))
	g.Expect(niceCeiling(math.NaN())).To(gomega.Equal(1.0))
	g.Expect(niceCeiling(1)).To(gomega.Equal(1.0))
	g.Expect(niceCeiling(3)).To(gomega.Equal(5.0))
	g.Expect(niceCeiling(7)).To(gomega.Equal(10.0))
	g.Expect(niceCeiling(12)).To(gomega.Equal(20.0))
	g.Expect(niceCeiling(0.3)).To(gomega.BeNumerically("~", 0.5, 1e-12))
}

func TestChartUnitLabels(t *testing.T) {
	g := gomega.NewWithT(t)

	g.Expect(unitPercent.format(100)).To(gomega.Equal("100%"))
	g.Expect(unitGB.format(2.5)).To(gomega.Equal("2.5G"))
	g.Expect(unitGB.format(20)).To(gomega.Equal("20G"))
}
