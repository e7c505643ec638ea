package codec_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"optipress/internal/codec"
	"optipress/internal/services"
	"optipress/internal/testsupport"
)

func TestWebPEncodeProducesOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "photo.png")
	output := filepath.Join(dir, "photo.webp")
	testsupport.WritePNG(t, input, 10)

	client := codec.NewWebP()
	if err := client.Encode(context.Background(), input, output, codec.EncodeOptions{Quality: 80}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(output)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Fatal("expected non-empty webp output")
	}
}

func TestWebPEncodeJPEGInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "photo.jpg")
	output := filepath.Join(dir, "photo.webp")
	testsupport.WriteJPEG(t, input, 42)

	client := codec.NewWebP()
	if err := client.Encode(context.Background(), input, output, codec.EncodeOptions{Quality: 70}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatal(err)
	}
}

func TestWebPEncodeRejectsCorruptInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.png")
	output := filepath.Join(dir, "broken.webp")
	testsupport.WriteCorrupt(t, input)

	client := codec.NewWebP()
	err := client.Encode(context.Background(), input, output, codec.EncodeOptions{Quality: 80})
	if err == nil {
		t.Fatal("expected error for corrupt input")
	}
	if !errors.Is(err, services.ErrUndecodable) {
		t.Fatalf("expected undecodable marker, got %v", err)
	}
	if _, statErr := os.Stat(output); statErr == nil {
		t.Fatal("no output file may exist after a failed encode")
	}
}

func TestWebPExtension(t *testing.T) {
	if ext := codec.NewWebP().Extension(); ext != ".webp" {
		t.Fatalf("unexpected extension %q", ext)
	}
}
