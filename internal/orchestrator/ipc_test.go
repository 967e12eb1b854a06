package orchestrator

import (
	"bufio"
	"bytes"
	"errors"
	"testing"

	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
)

func TestWriteFrameThenReadFrameRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	sent := frame{
		Kind:  msgTask,
		Index: 7,
		Key:   "album/IMG_0001.jpg",
		Size:  12345,
		ETag:  "abc123",
	}
	if err := writeFrame(w, sent); err != nil {
		t.Fatalf("writeFrame: %v", err)
	}

	got, err := readFrame(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	if got.Kind != sent.Kind || got.Index != sent.Index || got.Key != sent.Key || got.Size != sent.Size || got.ETag != sent.ETag {
		t.Fatalf("got %+v, want %+v", got, sent)
	}
}

func TestWriteFrameThenReadFrameMultipleMessages(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if err := writeFrame(w, frame{Kind: msgReady, Index: 1}); err != nil {
		t.Fatalf("writeFrame 1: %v", err)
	}
	if err := writeFrame(w, frame{Kind: msgShutdown, Index: 2}); err != nil {
		t.Fatalf("writeFrame 2: %v", err)
	}

	r := bufio.NewReader(&buf)
	first, err := readFrame(r)
	if err != nil || first.Kind != msgReady || first.Index != 1 {
		t.Fatalf("got %+v, err=%v, want msgReady/1", first, err)
	}
	second, err := readFrame(r)
	if err != nil || second.Kind != msgShutdown || second.Index != 2 {
		t.Fatalf("got %+v, err=%v, want msgShutdown/2", second, err)
	}
}

func TestResultToFrameThenFrameToResultPreservesError(t *testing.T) {
	r := manifest.Result{Key: "album/x.jpg", Type: manifest.ProcessFailed, Err: errors.New("fetch timed out")}
	f := resultToFrame(3, r.Key, r)
	got := frameToResult(f)
	if got.Key != r.Key || got.Type != r.Type || got.Err == nil || got.Err.Error() != r.Err.Error() {
		t.Fatalf("got %+v, want error text preserved across the frame boundary", got)
	}
}

func TestResultToFrameThenFrameToResultNilError(t *testing.T) {
	item := &manifest.PhotoManifestItem{ID: "abc"}
	r := manifest.Result{Key: "album/x.jpg", Type: manifest.ProcessNew, Item: item}
	got := frameToResult(resultToFrame(1, r.Key, r))
	if got.Err != nil {
		t.Fatalf("got err %v, want nil", got.Err)
	}
	if got.Item == nil || got.Item.ID != "abc" {
		t.Fatalf("got item %+v, want ID=abc", got.Item)
	}
}
