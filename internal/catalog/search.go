package catalog

import (
	"context"
	"sort"
	"strings"

	"soundvault/sound"
)

// SearchLocal ranks persisted sounds against a free-text query. A sound
// matches when any query term equals one of its tags, or the query appears
// case-insensitively in its name or description. Results order by tag hit
// count, then name match, then insertion order, with ids as the final
// tiebreak. Scoring reuses the same tag normalization as ingest so a stored
// tag always matches the query form it was written from. An empty query
// matches every sound.
func (s *Store) SearchLocal(ctx context.Context, query string, filter sound.SearchFilter) ([]*sound.Sound, error) {
	sounds, err := s.ListSounds(ctx)
	if err != nil {
		return nil, err
	}

	needle := sound.NormalizeTag(query)
	terms := sound.NormalizeTags(strings.Fields(query))

	type scored struct {
		snd     *sound.Sound
		tagHits int
		nameHit bool
		order   int
	}
	var matches []scored
	for i, snd := range sounds {
		if filter.Provenance != "" && snd.Provenance.Kind != filter.Provenance {
			continue
		}
		tagHits := countTagHits(snd.Metadata.Tags, terms)
		nameHit := strings.Contains(strings.ToLower(snd.Metadata.Name), needle)
		descHit := strings.Contains(strings.ToLower(snd.Metadata.Description), needle)
		if tagHits == 0 && !nameHit && !descHit {
			continue
		}
		matches = append(matches, scored{snd: snd, tagHits: tagHits, nameHit: nameHit, order: i})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.tagHits != b.tagHits {
			return a.tagHits > b.tagHits
		}
		if a.nameHit != b.nameHit {
			return a.nameHit
		}
		if a.order != b.order {
			return a.order < b.order
		}
		return a.snd.ID < b.snd.ID
	})

	if filter.Limit > 0 && len(matches) > filter.Limit {
		matches = matches[:filter.Limit]
	}
	if len(matches) == 0 {
		return nil, nil
	}
	results := make([]*sound.Sound, len(matches))
	for i, match := range matches {
		results[i] = match.snd
	}
	return results, nil
}

func countTagHits(tags, terms []string) int {
	if len(tags) == 0 || len(terms) == 0 {
		return 0
	}
	want := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		want[term] = struct{}{}
	}
	hits := 0
	for _, tag := range tags {
		if _, ok := want[tag]; ok {
			hits++
		}
	}
	return hits
}
