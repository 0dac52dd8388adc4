// Package speech scores answer transcripts with lightweight text heuristics.
// The scores are a proxy for spoken delivery: no audio timing is available,
// so pace is computed against a fixed assumed duration.
package speech

import (
	"math"
	"regexp"
	"strings"

	"github.com/jonathan/interview-practice/internal/types"
)

// AssumedDurationSeconds is the speaking time every answer is assumed to take.
const AssumedDurationSeconds = 10

// Filler words counted per token, and filler phrases counted per adjacent token pair.
var (
	fillerWords = map[string]bool{
		"um": true, "uh": true, "like": true, "so": true,
		"actually": true, "basically": true, "right": true,
	}
	fillerPhrases = map[string]bool{
		"you know": true,
		"kind of":  true,
	}
)

var (
	nonWord   = regexp.MustCompile(`[^A-Za-z0-9_]`)
	longPause = regexp.MustCompile(`,\s{2,}`)
)

// Metrics summarizes the delivery of one answer.
type Metrics struct {
	FillerCount     int     `json:"filler_count"`
	FillerRatio     float64 `json:"filler_ratio"`
	WordCount       int     `json:"word_count"`
	WordsPerMinute  int     `json:"words_per_minute"`
	ClarityScore    int     `json:"clarity_score"`
	ConfidenceScore int     `json:"confidence_score"`
	HasLongPauses   bool    `json:"has_long_pauses"`
	DurationSeconds int     `json:"duration_seconds"`
}

// Analyze computes delivery metrics for a trimmed, non-empty transcript.
// An empty transcript yields zero metrics.
func Analyze(transcript string) Metrics {
	words := strings.Fields(transcript)
	m := Metrics{
		WordCount:       len(words),
		DurationSeconds: AssumedDurationSeconds,
		HasLongPauses:   strings.Contains(transcript, "...") || longPause.MatchString(transcript),
	}
	if m.WordCount == 0 {
		return m
	}

	m.FillerCount = countFillers(words)
	m.FillerRatio = float64(m.FillerCount) / float64(m.WordCount)
	m.WordsPerMinute = int(math.Round(float64(m.WordCount) / AssumedDurationSeconds * 60))
	m.ClarityScore = clarityScore(m.WordsPerMinute)
	m.ConfidenceScore = confidenceScore(m.FillerRatio)
	return m
}

// Sample converts the metrics into score samples for the running breakdown.
// Technical depth and pace cannot be judged from text and are not sampled.
func (m Metrics) Sample() types.ScoreSample {
	return types.ScoreSample{
		types.ScoreCommunication: float64(m.ClarityScore),
		types.ScoreConfidence:    float64(m.ConfidenceScore),
		types.ScoreFillerWords:   100 - m.FillerRatio*100,
	}
}

func countFillers(words []string) int {
	normalized := make([]string, len(words))
	for i, w := range words {
		normalized[i] = strings.ToLower(nonWord.ReplaceAllString(w, ""))
	}

	count := 0
	for i := 0; i < len(normalized); i++ {
		if i+1 < len(normalized) && fillerPhrases[normalized[i]+" "+normalized[i+1]] {
			count++
			i++
			continue
		}
		if fillerWords[normalized[i]] {
			count++
		}
	}
	return count
}

func clarityScore(wpm int) int {
	switch {
	case wpm > 100 && wpm < 170:
		return 90
	case wpm <= 100:
		return 70
	default:
		return 60
	}
}

func confidenceScore(fillerRatio float64) int {
	switch {
	case fillerRatio < 0.05:
		return 95
	case fillerRatio < 0.10:
		return 80
	default:
		return 60
	}
}
