package cli

import (
	"path/filepath"
	"testing"
	"time"

	gaudio "github.com/go-audio/audio"

	"videoannotation/internal/i18n"
	"videoannotation/internal/wav"
)

func TestLoadMessagesLanguages(t *testing.T) {
	es := loadMessages("es")
	if got := es.T(i18n.KeyJoinCanceled); got != "Unión cancelada" {
		t.Errorf("es join.canceled = %q", got)
	}
	if got := es.T(i18n.KeyFolderNotFound, "/x"); got != "Carpeta no encontrada: /x" {
		t.Errorf("es folder.not_found = %q", got)
	}

	// Unknown languages fall back to the English catalog.
	unknown := loadMessages("tlh")
	if got := unknown.T(i18n.KeyJoinCanceled); got != "Join canceled" {
		t.Errorf("fallback join.canceled = %q", got)
	}
	if unknown.Lang() != "en" {
		t.Errorf("fallback lang = %q, want en", unknown.Lang())
	}
}

func TestRecordingInfosProbesDurations(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "clip.wav")
	buf := &gaudio.IntBuffer{
		Format:         wav.CanonicalFormat(),
		Data:           wav.Silence(wav.CanonicalRate, 2*time.Second),
		SourceBitDepth: wav.CanonicalBitDepth,
	}
	if err := wav.Write(good, buf); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "gone.wav")

	probe, err := wav.NewProbeCache(4)
	if err != nil {
		t.Fatal(err)
	}
	infos := recordingInfos(probe, []string{good, missing})
	if len(infos) != 2 {
		t.Fatalf("infos = %d entries, want 2", len(infos))
	}
	if infos[0].Path != good || infos[0].DurationSec < 1.99 || infos[0].DurationSec > 2.01 {
		t.Errorf("good entry = %+v, want ~2s", infos[0])
	}
	if infos[1].Path != missing || infos[1].DurationSec != 0 {
		t.Errorf("missing entry = %+v, want zero duration", infos[1])
	}
}
