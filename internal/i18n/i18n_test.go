package i18n

import "testing"

func TestEnglishCatalog(t *testing.T) {
	c, err := Load("en")
	if err != nil {
		t.Fatal(err)
	}
	if c.Lang() != "en" {
		t.Errorf("lang = %q", c.Lang())
	}
	got := c.T(KeyRecordingSaved, "/tmp/clip.wav")
	if got != "Recording saved to /tmp/clip.wav" {
		t.Errorf("message = %q", got)
	}
}

func TestSpanishOverlay(t *testing.T) {
	c, err := Load("es")
	if err != nil {
		t.Fatal(err)
	}
	if c.Lang() != "es" {
		t.Errorf("lang = %q", c.Lang())
	}
	if got := c.T(KeyJoinCanceled); got != "Unión cancelada" {
		t.Errorf("message = %q", got)
	}
}

func TestUnknownLanguageFallsBackToEnglish(t *testing.T) {
	c, err := Load("tlh")
	if err != nil {
		t.Fatal(err)
	}
	if c.Lang() != "en" {
		t.Errorf("lang = %q", c.Lang())
	}
	if got := c.T(KeyFolderNoSelection); got != "No working folder selected" {
		t.Errorf("message = %q", got)
	}
}

func TestUnknownKeyReturnsKey(t *testing.T) {
	c, _ := Load("en")
	if got := c.T("no.such.key"); got != "no.such.key" {
		t.Errorf("message = %q", got)
	}
}

func TestAvailableIncludesBothLocales(t *testing.T) {
	langs := Available()
	found := map[string]bool{}
	for _, l := range langs {
		found[l] = true
	}
	if !found["en"] || !found["es"] {
		t.Errorf("available = %v", langs)
	}
}

func TestEveryKeyHasEnglishMessage(t *testing.T) {
	c, _ := Load("en")
	keys := []string{
		KeyFolderNotFound, KeyFolderPermission, KeyFolderNoSelection,
		KeyRecordingStarted, KeyRecordingSaved, KeyRecordingFailed, KeyRecordingNoDevice,
		KeyPlaybackFailed, KeyJoinDone, KeyJoinFailed, KeyJoinCanceled,
		KeyReviewFinished, KeyReviewGrade, KeyExportDone, KeyExportOverlap,
		KeyOverwriteConfirm,
	}
	for _, k := range keys {
		if got := c.T(k); got == k {
			t.Errorf("missing english message for %q", k)
		}
	}
}
