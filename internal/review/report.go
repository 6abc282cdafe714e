package review

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// ReportSchemaVersion identifies the report layout.
const ReportSchemaVersion = "1.0"

// ReportInput gathers everything a session report needs, with full
// provenance of tools and environment.
type ReportInput struct {
	SessionID   string
	Language    string
	AppVersion  string
	Settings    Settings
	QueueMeta   QueueMetadata
	Tracker     *Tracker
	Export      map[string]any // optional grouped-export metadata
	FFmpegPath  string
	FFprobePath string
}

// BuildReport assembles the schema-versioned report tree. Everything is
// built from maps so the serialized keys are sorted lexically and the
// output is byte-for-byte reproducible given identical inputs except
// for the timestamp.
func BuildReport(in ReportInput, now time.Time) map[string]any {
	settings := in.Settings
	settingsMap := toMap(settings)
	settingsMap["grading_thresholds"] = thresholdsMap()

	items := make([]map[string]any, 0)
	for _, st := range in.Tracker.Items() {
		items = append(items, map[string]any{
			"item_id":             st.ItemID,
			"media_path":          st.MediaPath,
			"wav_path":            st.WavPath,
			"label":               filepath.Base(st.MediaPath),
			"type":                st.Kind,
			"wrong_guesses":       st.WrongGuesses,
			"attempts":            st.Attempts,
			"play_count_served":   st.PlayCountServed,
			"time_to_correct_sec": round2(st.TimeToCorrectSec),
			"overtime":            st.Overtime,
			"timeout":             st.Timeout,
			"confirm_method":      string(st.ConfirmMethod),
		})
	}

	trouble := make([]string, 0)
	for _, st := range in.Tracker.TroubleItems() {
		trouble = append(trouble, st.ItemID)
	}

	overall := in.Tracker.OverallStats(in.Settings.TimeWeightingPercent, float64(in.Settings.UIOverheadMs)/1000)

	report := map[string]any{
		"schema_version": ReportSchemaVersion,
		"session": map[string]any{
			"id":          in.SessionID,
			"timestamp":   now.UTC().Format(time.RFC3339),
			"language":    in.Language,
			"app_version": in.AppVersion,
		},
		"settings":      settingsMap,
		"randomization": toMap(in.QueueMeta),
		"overall":       toMap(overall),
		"items":         items,
		"trouble_items": trouble,
		"environment": map[string]any{
			"os":              runtime.GOOS,
			"platform":        runtime.GOARCH,
			"runtime_version": runtime.Version(),
			"ffmpeg_path":     in.FFmpegPath,
			"ffprobe_path":    in.FFprobePath,
		},
	}
	if in.Export != nil {
		report["export"] = in.Export
	}
	return report
}

// ReportFileName returns review_session_YYYYMMDD_HHMMSS.json for the
// given time.
func ReportFileName(now time.Time) string {
	return "review_session_" + now.Format("20060102_150405") + ".json"
}

// WriteReport serializes the report into dir and returns the full path.
func WriteReport(dir string, in ReportInput, now time.Time) (string, error) {
	report := BuildReport(in, now)
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	data = append(data, '\n')

	path := filepath.Join(dir, ReportFileName(now))
	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	return path, nil
}

func thresholdsMap() map[string]float64 {
	out := make(map[string]float64, len(GradeThresholds))
	for _, g := range GradeThresholds {
		out[g.Grade] = g.Min
	}
	return out
}

// toMap flattens a struct through its JSON tags so map serialization
// sorts the keys.
func toMap(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{}
	}
	return out
}
