package model

import (
	"encoding/json"
	"testing"

	"github.com/onsi/gomega"
)

func TestSampleNullFields(t *testing.T) {
	g := gomega.NewWithT(t)

	data, err := json.Marshal(Sample{Timestamp: 1.5, CPUUsage: Float(0.25)})
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(string(data)).To(gomega.Equal(`{"timestamp":1.5,"cpu_usage":0.25,"ram":null,"gpu_usage":null,"gpu_ram":null}`))

	var s Sample
	g.Expect(json.Unmarshal([]byte(`{"timestamp":2,"cpu_usage":null,"ram":0,"gpu_usage":null,"gpu_ram":null}`), &s)).To(gomega.Succeed())
	g.Expect(s.CPUUsage).To(gomega.BeNil())
	g.Expect(s.RAM).NotTo(gomega.BeNil())
	g.Expect(*s.RAM).To(gomega.BeZero())
	g.Expect(s.GPURAM).To(gomega.BeNil())
}
