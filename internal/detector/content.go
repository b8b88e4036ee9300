package detector

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/dirshaye/LogInsight/internal/model"
)

// minContentEntries is the smallest batch the content method runs on;
// below this there is not enough data to fit the outlier model.
const minContentEntries = 10

// contentModelSeed keeps forest construction deterministic across runs.
const contentModelSeed = 42

// contamination is the fraction of the batch treated as content outliers.
const contamination = 0.10

// contentScores embeds the batch messages into a TF-IDF vector space and
// fits an isolation forest over them. Entries the forest isolates easily
// receive a score in [0, 2] scaled by how far their decision value sits
// from the batch's least-outlying one. A fitting failure is returned as an
// error so the caller can take the keyword fallback branch.
func (d *Detector) contentScores(entries []model.LogEntry) (map[int]float64, error) {
	if len(entries) < minContentEntries {
		return nil, nil
	}

	docs := make([]string, len(entries))
	for i, e := range entries {
		docs[i] = e.Message
	}

	vec := newVectorizer(maxVocabulary)
	vectors, err := vec.FitTransform(docs)
	if err != nil {
		return nil, fmt.Errorf("embed messages: %w", err)
	}

	sample := len(vectors)
	if sample > 256 {
		sample = 256
	}
	forest := newIsolationForest(100, sample, contentModelSeed)
	if err := forest.Fit(vectors); err != nil {
		return nil, fmt.Errorf("fit outlier forest: %w", err)
	}

	decisions := forest.DecisionValues(vectors)
	cutoff, err := stats.Percentile(decisions, contamination*100)
	if err != nil {
		return nil, fmt.Errorf("score outliers: %w", err)
	}

	min, max := decisions[0], decisions[0]
	for _, v := range decisions {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	scores := make(map[int]float64)
	for i, v := range decisions {
		if v >= cutoff {
			continue // not an outlier
		}
		normalized := 0.5
		if max != min {
			normalized = (max - v) / (max - min)
		}
		scores[i] = normalized * 2
	}
	return scores, nil
}
