package domain

import "testing"

func TestNormalizeClearsWatermarkWithoutLogo(t *testing.T) {
	req := GenerationRequest{DocumentType: DocumentFormal, UseWatermark: true}
	req.Normalize()
	if req.UseWatermark {
		t.Fatalf("watermark must be cleared when no logo is attached")
	}
}

func TestNormalizeClearsWatermarkForInfographic(t *testing.T) {
	req := GenerationRequest{
		DocumentType: DocumentInfographic,
		UseWatermark: true,
		Logo:         &Attachment{Name: "logo.png", MIME: "image/png", Data: []byte{1}},
	}
	req.Normalize()
	if req.UseWatermark {
		t.Fatalf("watermark must be cleared for infographic documents")
	}
}

func TestNormalizeKeepsWatermarkWhenPreconditionsHold(t *testing.T) {
	req := GenerationRequest{
		DocumentType: DocumentFormal,
		UseWatermark: true,
		Logo:         &Attachment{Name: "logo.png", MIME: "image/png", Data: []byte{1}},
	}
	req.Normalize()
	if !req.UseWatermark {
		t.Fatalf("watermark must survive for formal documents with a logo")
	}
}

func TestThemeCatalogLookup(t *testing.T) {
	themes := Themes()
	if len(themes) == 0 {
		t.Fatalf("theme catalog is empty")
	}
	got, ok := ThemeByName(themes[1].Name)
	if !ok {
		t.Fatalf("catalog entry %q not found", themes[1].Name)
	}
	if got != themes[1] {
		t.Fatalf("lookup mismatch: got %+v want %+v", got, themes[1])
	}
	if _, ok := ThemeByName("no-such-theme"); ok {
		t.Fatalf("unexpected hit for unknown theme")
	}
}

func TestThemesReturnsCopy(t *testing.T) {
	first := Themes()
	first[0].Background = "#000000"
	if Themes()[0].Background == "#000000" {
		t.Fatalf("catalog must not be mutable through Themes()")
	}
}
