package search

import (
	"context"
	"strings"
)

// offlineFixtures mirror the candidate shapes a live search returns,
// keyed by the guest-post keyword each query variant carries. Served
// in fixed order so degraded-mode runs are reproducible.
var offlineFixtures = map[string][]Result{
	"write for us": {
		{URL: "https://web3marketing.com/write-for-us", Title: "Write for Web3 Marketing"},
		{URL: "https://defiblogs.io/contribute", Title: "Contribute to DeFi Blogs"},
		{URL: "https://nftmarketing.com/guest-post", Title: "Guest Post Guidelines - NFT Marketing"},
	},
	"contribute": {
		{URL: "https://blockchaintoday.com/contribute", Title: "Contribute to Blockchain Today"},
		{URL: "https://cryptoinsight.com/guest-writers", Title: "Become a Guest Writer"},
	},
	"guest post guidelines": {
		{URL: "https://web3daily.com/guidelines", Title: "Guest Post Guidelines - Web3 Daily"},
		{URL: "https://decentral.news/write-for-us", Title: "Write for Decentral News"},
	},
	"submit article": {
		{URL: "https://tokenomics.blog/submit", Title: "Submit Your Article - Tokenomics Blog"},
		{URL: "https://cryptomarketing.guide/submit-content", Title: "Submit Content - Crypto Marketing Guide"},
	},
}

// OfflineProvider serves canned results when no live search backend is
// configured. It keeps the pipeline's control flow and persistence side
// effects exercisable without network access.
type OfflineProvider struct {
	maxResults int
}

// NewOfflineProvider creates the degraded-mode search provider.
func NewOfflineProvider(maxResults int) *OfflineProvider {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &OfflineProvider{maxResults: maxResults}
}

// Available always reports false: results are synthesized.
func (p *OfflineProvider) Available() bool {
	return false
}

// Search matches the query against fixture keywords; unmatched queries
// get a slice of everything, capped at maxResults.
func (p *OfflineProvider) Search(_ context.Context, query string) ([]Result, error) {
	lower := strings.ToLower(query)
	for key, results := range offlineFixtures {
		if strings.Contains(lower, key) {
			return capResults(results, p.maxResults), nil
		}
	}

	var all []Result
	for _, key := range []string{"write for us", "contribute", "guest post guidelines", "submit article"} {
		all = append(all, offlineFixtures[key]...)
	}
	return capResults(all, p.maxResults), nil
}

func capResults(results []Result, n int) []Result {
	if len(results) > n {
		return results[:n]
	}
	return results
}

var _ Provider = (*OfflineProvider)(nil)
