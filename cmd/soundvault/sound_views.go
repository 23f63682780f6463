package main

import (
	"fmt"
	"strings"
	"time"

	"soundvault/sound"
)

func buildSoundRows(sounds []*sound.Sound) [][]string {
	if len(sounds) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(sounds))
	for _, snd := range sounds {
		rows = append(rows, []string{
			snd.ID,
			snd.Metadata.Name,
			formatTagList(snd.Metadata.Tags),
			formatSeconds(snd.Metadata.Duration),
			originLabel(*snd),
		})
	}
	return rows
}

var soundRowHeaders = []string{"ID", "Name", "Tags", "Duration", "Origin"}

var soundRowAlignments = []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}

func buildRemoteRows(sounds []sound.Sound) [][]string {
	if len(sounds) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(sounds))
	for _, snd := range sounds {
		rows = append(rows, []string{
			snd.Provenance.SourceID,
			snd.Metadata.Name,
			formatTagList(snd.Metadata.Tags),
			formatSeconds(snd.Metadata.Duration),
			snd.Metadata.License,
		})
	}
	return rows
}

var remoteRowHeaders = []string{"Source", "Name", "Tags", "Duration", "License"}

var remoteRowAlignments = []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft}

func buildCollectionRows(collections []*sound.Collection) [][]string {
	if len(collections) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(collections))
	for _, col := range collections {
		rows = append(rows, []string{
			col.ID,
			col.Name,
			truncateText(col.Description, 48),
			formatDisplayTime(col.CreatedAt),
		})
	}
	return rows
}

var collectionRowHeaders = []string{"ID", "Name", "Description", "Created"}

var collectionRowAlignments = []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft}

// originLabel distinguishes hand-imported sounds from materialized
// downloads and transient remote hits.
func originLabel(snd sound.Sound) string {
	if snd.Provenance.IsRemote() {
		return "remote"
	}
	if sourceID := snd.RemoteSourceID(); sourceID != "" {
		return "freesound " + sourceID
	}
	return "imported"
}

func formatSeconds(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	whole := int(seconds)
	return fmt.Sprintf("%dm%02ds", whole/60, whole%60)
}

func formatTagList(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return truncateText(strings.Join(tags, ", "), 48)
}

func formatDisplayTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format("2006-01-02 15:04")
}

func truncateText(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 3 || len(value) <= limit {
		return value
	}
	return value[:limit-3] + "..."
}
