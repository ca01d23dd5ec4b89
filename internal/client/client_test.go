package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/onsi/gomega"

	"github.com/maxdcmn/rsgbench/internal/normalize"
)

const fakeURL = "http://scorer:8080"

var _ normalize.CandidateScorer = (*Client)(nil)

func newMockedClient(t *testing.T) *Client {
	c := New(fakeURL, DefaultEndpoint, 5*time.Second)
	httpmock.ActivateNonDefault(c.http)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestPerplexity(t *testing.T) {
	g := gomega.NewWithT(t)
	c := newMockedClient(t)

	var got perplexityRequest
	httpmock.RegisterResponder(http.MethodPost, fakeURL+DefaultEndpoint, func(req *http.Request) (*http.Response, error) {
		if err := json.NewDecoder(req.Body).Decode(&got); err != nil {
			return httpmock.NewStringResponse(http.StatusBadRequest, err.Error()), nil
		}
		return httpmock.NewJsonResponse(http.StatusOK, perplexityResponse{Perplexities: []float64{3.2, 5.0}})
	})

	scores, err := c.ScoreCandidates(context.Background(), []string{"Да", "Нет"})
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(scores).To(gomega.Equal([]float64{3.2, 5.0}))
	g.Expect(got.Texts).To(gomega.Equal([]string{"Да", "Нет"}))
	g.Expect(httpmock.GetTotalCallCount()).To(gomega.Equal(1))
}

func TestPerplexityLengthMismatch(t *testing.T) {
	g := gomega.NewWithT(t)
	c := newMockedClient(t)

	responder, _ := httpmock.NewJsonResponder(http.StatusOK, perplexityResponse{Perplexities: []float64{1}})
	httpmock.RegisterResponder(http.MethodPost, fakeURL+DefaultEndpoint, responder)

	_, err := c.Perplexity(context.Background(), []string{"a", "b"})
	g.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("1 perplexities for 2 texts")))
}

func TestPerplexityServerError(t *testing.T) {
	g := gomega.NewWithT(t)
	c := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodPost, fakeURL+DefaultEndpoint, httpmock.NewStringResponder(http.StatusInternalServerError, "boom"))

	_, err := c.Perplexity(context.Background(), []string{"a"})
	g.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("500")))
}

func TestHealth(t *testing.T) {
	g := gomega.NewWithT(t)
	c := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodGet, fakeURL+"/health", httpmock.NewStringResponder(http.StatusOK, "ok"))
	g.Expect(c.Health(context.Background())).To(gomega.Succeed())

	httpmock.RegisterResponder(http.MethodGet, fakeURL+"/health", httpmock.NewStringResponder(http.StatusServiceUnavailable, ""))
	g.Expect(c.Health(context.Background())).NotTo(gomega.Succeed())
}
