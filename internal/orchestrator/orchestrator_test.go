package orchestrator

import (
	"context"
	"testing"

	"github.com/inkforge/scribeguard/internal/models"
	"github.com/inkforge/scribeguard/internal/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	hits    []models.SearchHit
	err     error
	queries []string
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Search(_ context.Context, query string, _ int) ([]models.SearchHit, error) {
	p.queries = append(p.queries, query)
	return p.hits, p.err
}

type fakeFetcher struct {
	pages   map[string]string
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, bool) {
	f.fetched = append(f.fetched, url)
	text, ok := f.pages[url]
	return text, ok
}

const probeSentence = "the ancient lighthouse keeper watched seventeen ships vanish beyond the horizon."

func testArtifact() *models.Artifact {
	return &models.Artifact{
		DocumentID:     "doc-1",
		AuthorID:       "author-1",
		NormalizedText: probeSentence + " some more narrative text follows here to pass the length floor.",
		Candidates: []models.CandidateSentence{
			{Text: probeSentence, SourceOffset: 0, DistinctWords: 11},
		},
	}
}

func newTestOrchestrator(provider SearchProvider, fetcher PageFetcher) *Orchestrator {
	engine := similarity.NewEngine(similarity.Options{})
	return New(provider, fetcher, engine, nil, Options{
		MatchThreshold: 0.75,
		MinTextLength:  50,
	})
}

func TestCheckZeroHitsYieldsEmptyReport(t *testing.T) {
	provider := &fakeProvider{}
	fetcher := &fakeFetcher{}

	report, err := newTestOrchestrator(provider, fetcher).Check(context.Background(), testArtifact())
	require.NoError(t, err)
	assert.Equal(t, "completed", report.Status)
	assert.Empty(t, report.Matches)
	assert.False(t, report.Matched)
	assert.Len(t, provider.queries, 1)
	assert.Empty(t, fetcher.fetched)
}

func TestCheckShortInputNeverHitsNetwork(t *testing.T) {
	provider := &fakeProvider{hits: []models.SearchHit{{URL: "https://example.com"}}}
	fetcher := &fakeFetcher{}

	artifact := &models.Artifact{
		DocumentID:     "doc-2",
		NormalizedText: "too short to check.",
	}

	report, err := newTestOrchestrator(provider, fetcher).Check(context.Background(), artifact)
	require.NoError(t, err)
	assert.Equal(t, "completed", report.Status)
	assert.Empty(t, report.Matches)
	assert.Empty(t, provider.queries, "short input must not trigger any search")
	assert.Empty(t, fetcher.fetched)
	assert.NotEmpty(t, report.CoverageNotes)
}

func TestCheckSnippetShortCircuitSkipsFetch(t *testing.T) {
	provider := &fakeProvider{hits: []models.SearchHit{
		{URL: "https://example.com/source", Title: "Source", Snippet: probeSentence},
	}}
	fetcher := &fakeFetcher{}

	report, err := newTestOrchestrator(provider, fetcher).Check(context.Background(), testArtifact())
	require.NoError(t, err)
	require.Len(t, report.Matches, 1)
	assert.True(t, report.Matched)
	assert.Equal(t, "https://example.com/source", report.Matches[0].Source)
	assert.Empty(t, fetcher.fetched, "matching snippet must skip the page fetch")
}

// noisyVariant inserts a filler rune every 4 runes: sequence similarity to
// the original stays high while token-based scorers collapse.
func noisyVariant(text string) string {
	runes := []rune(text)
	var out []rune
	for i, r := range runes {
		out = append(out, r)
		if (i+1)%4 == 0 {
			out = append(out, 'z')
		}
	}
	return string(out)
}

func TestCheckSnippetMatchSurvivesLowAggregate(t *testing.T) {
	provider := &fakeProvider{hits: []models.SearchHit{
		{URL: "https://example.com/mangled", Title: "Mangled Copy", Snippet: noisyVariant(probeSentence)},
	}}
	fetcher := &fakeFetcher{}

	report, err := newTestOrchestrator(provider, fetcher).Check(context.Background(), testArtifact())
	require.NoError(t, err)
	require.Len(t, report.Matches, 1)

	match := report.Matches[0]
	assert.True(t, match.Matched)
	assert.Less(t, match.AggregateScore, 0.75, "noisy snippet should score low on the full method set")
	assert.True(t, report.Matched, "report verdict must reflect the recorded match")
	assert.Empty(t, fetcher.fetched)
}

func TestCheckUnavailablePageIsSkipped(t *testing.T) {
	provider := &fakeProvider{hits: []models.SearchHit{
		{URL: "https://down.example.com", Snippet: "unrelated words about gardening"},
	}}
	fetcher := &fakeFetcher{} // no pages: every fetch is unavailable

	report, err := newTestOrchestrator(provider, fetcher).Check(context.Background(), testArtifact())
	require.NoError(t, err)
	assert.Equal(t, "completed", report.Status)
	assert.Empty(t, report.Matches)
	assert.Len(t, fetcher.fetched, 1)
}

func TestCheckMatchingPageSentenceProducesMatch(t *testing.T) {
	pageURL := "https://example.com/plagiarized"
	provider := &fakeProvider{hits: []models.SearchHit{
		{URL: pageURL, Title: "Suspicious Page", Snippet: "short teaser"},
	}}
	fetcher := &fakeFetcher{pages: map[string]string{
		pageURL: "an unrelated opening line. " + probeSentence + " an unrelated closing line.",
	}}

	report, err := newTestOrchestrator(provider, fetcher).Check(context.Background(), testArtifact())
	require.NoError(t, err)
	require.Len(t, report.Matches, 1)

	match := report.Matches[0]
	assert.True(t, match.Matched)
	assert.Equal(t, probeSentence, match.Sentence)
	assert.Equal(t, pageURL, match.Source)
	assert.GreaterOrEqual(t, match.AggregateScore, 0.75)
	assert.Equal(t, pageURL, report.BestMatchSource)
	assert.True(t, report.Matched)
	assert.GreaterOrEqual(t, report.MaxScore, 0.75)
}

func TestCheckLowScoringPageYieldsNoMatchButTracksMax(t *testing.T) {
	pageURL := "https://example.com/unrelated"
	provider := &fakeProvider{hits: []models.SearchHit{{URL: pageURL}}}
	fetcher := &fakeFetcher{pages: map[string]string{
		pageURL: "a gardening blog about tomato cultivation and soil quality in raised beds.",
	}}

	report, err := newTestOrchestrator(provider, fetcher).Check(context.Background(), testArtifact())
	require.NoError(t, err)
	assert.Empty(t, report.Matches)
	assert.False(t, report.Matched)
	assert.Less(t, report.MaxScore, 0.75)
	assert.Equal(t, pageURL, report.BestMatchSource)
}

func TestCheckCancelledContextAbortsBetweenCandidates(t *testing.T) {
	provider := &fakeProvider{}
	fetcher := &fakeFetcher{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := newTestOrchestrator(provider, fetcher).Check(ctx, testArtifact())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "failed", report.Status)
	assert.Empty(t, provider.queries)
}

func TestCheckSearchErrorDegradesToCoverageNote(t *testing.T) {
	provider := &fakeProvider{err: context.DeadlineExceeded}
	fetcher := &fakeFetcher{}

	report, err := newTestOrchestrator(provider, fetcher).Check(context.Background(), testArtifact())
	require.NoError(t, err)
	assert.Equal(t, "completed", report.Status)
	assert.Empty(t, report.Matches)
	assert.NotEmpty(t, report.CoverageNotes)
}

func TestCheckReportCarriesSkippedMethods(t *testing.T) {
	report, err := newTestOrchestrator(&fakeProvider{}, &fakeFetcher{}).Check(context.Background(), testArtifact())
	require.NoError(t, err)
	assert.Contains(t, report.SkippedMethods, models.MethodEmbedding)
}
