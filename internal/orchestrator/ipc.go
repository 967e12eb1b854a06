package orchestrator

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
)

// msgKind tags the frames exchanged between a cluster parent and its
// worker child over stdin/stdout (§4.F process-pool mode, §5).
type msgKind uint8

const (
	msgReady msgKind = iota + 1
	msgTask
	msgResult
	msgShutdown
	msgPong
)

// frame is the gob-encoded unit sent in both directions, length-prefixed so
// a reader never has to guess where one message ends and the next begins.
type frame struct {
	Kind   msgKind
	Index  int
	Key    string
	Size   int64
	LastModified string
	ETag   string
	// Item, Type and ErrText mirror manifest.Result, with Err flattened to a
	// string since error values are not gob-encodable across a process boundary.
	Item    *manifest.PhotoManifestItem
	Type    manifest.ProcessType
	ErrText string
}

func writeFrame(w *bufio.Writer, f frame) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(f); err != nil {
		return fmt.Errorf("encode ipc frame: %w", err)
	}
	lenPrefix := make([]byte, 4)
	binary.BigEndian.PutUint32(lenPrefix, uint32(buf.Len()))
	if _, err := w.Write(lenPrefix); err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	return w.Flush()
}

func readFrame(r *bufio.Reader) (frame, error) {
	var f frame
	lenPrefix := make([]byte, 4)
	if _, err := io.ReadFull(r, lenPrefix); err != nil {
		return f, err
	}
	n := binary.BigEndian.Uint32(lenPrefix)
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return f, err
	}
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&f); err != nil {
		return f, fmt.Errorf("decode ipc frame: %w", err)
	}
	return f, nil
}

func resultToFrame(index int, key string, r manifest.Result) frame {
	f := frame{Kind: msgResult, Index: index, Key: key, Item: r.Item, Type: r.Type}
	if r.Err != nil {
		f.ErrText = r.Err.Error()
	}
	return f
}

func frameToResult(f frame) manifest.Result {
	r := manifest.Result{Item: f.Item, Type: f.Type, Key: f.Key}
	if f.ErrText != "" {
		r.Err = fmt.Errorf("%s", f.ErrText)
	}
	return r
}
