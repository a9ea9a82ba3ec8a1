package session

import (
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// ProgressCallback is invoked as a transfer proceeds. total is -1 when the
// receiving side hasn't learned the size yet.
type ProgressCallback func(done, total int64, status string)

// header is [nameLen(1B)][name][size(8B BE)]. The modem carries no framing
// of its own, so this is the only structure layered on top of the raw byte
// stream; it is deliberately minimal and carries no checksum — integrity
// is a higher layer's job, not the wire format's.
func encodeHeader(name string, size int64) []byte {
	nameBytes := []byte(name)
	buf := make([]byte, 1+len(nameBytes)+8)
	buf[0] = byte(len(nameBytes))
	copy(buf[1:], nameBytes)
	binary.BigEndian.PutUint64(buf[1+len(nameBytes):], uint64(size))
	return buf
}

func decodeHeader(data []byte) (name string, size int64, headerLen int, err error) {
	if len(data) < 1 {
		return "", 0, 0, fmt.Errorf("session: header too short")
	}
	nameLen := int(data[0])
	need := 1 + nameLen + 8
	if len(data) < need {
		return "", 0, 0, fmt.Errorf("session: header truncated: have %d, need %d", len(data), need)
	}
	name = string(data[1 : 1+nameLen])
	size = int64(binary.BigEndian.Uint64(data[1+nameLen : need]))
	return name, size, need, nil
}

// SendFile reads filePath whole, logs its MD5 locally for operator
// diagnostics, and pushes [header][contents] through the session.
func (s *Session) SendFile(filePath string, onProgress ProgressCallback) error {
	contents, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("session: read file: %w", err)
	}

	sum := md5.Sum(contents)
	log.Printf("session: sending %s (%d bytes, md5 %s)", filePath, len(contents), hex.EncodeToString(sum[:]))

	if onProgress != nil {
		onProgress(0, int64(len(contents)), "encoding")
	}

	payload := append(encodeHeader(filepath.Base(filePath), int64(len(contents))), contents...)
	if err := s.SendBytes(payload); err != nil {
		return err
	}

	if onProgress != nil {
		onProgress(int64(len(contents)), int64(len(contents)), "transfer complete")
	}
	return nil
}

// ReceivedFile is what ReceiveFile hands back: the decoded name, size, and
// a local MD5 computed over what actually arrived (for comparison against
// the sender's logged hash, not for protocol-level verification).
type ReceivedFile struct {
	Name    string
	Size    int64
	MD5Hex  string
	Content []byte
}

// ReceiveFile reads decoded bytes until the source reaches EOF or at least
// maxBytes bytes have arrived, then decodes the header, writes the file
// into outDir, and returns its metadata. The header's size is not used to
// stop reading early; maxBytes bounds the whole receive.
func (s *Session) ReceiveFile(outDir string, maxBytes int, onProgress ProgressCallback) (*ReceivedFile, error) {
	raw, err := s.ReceiveBytes(maxBytes)
	if err != nil && len(raw) == 0 {
		return nil, err
	}

	name, size, headerLen, err := decodeHeader(raw)
	if err != nil {
		return nil, err
	}

	content := raw[headerLen:]
	if int64(len(content)) > size {
		content = content[:size]
	}

	if onProgress != nil {
		onProgress(int64(len(content)), size, "writing file")
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("session: mkdir %s: %w", outDir, err)
	}
	outPath := filepath.Join(outDir, name)
	if err := os.WriteFile(outPath, content, 0o644); err != nil {
		return nil, fmt.Errorf("session: write %s: %w", outPath, err)
	}

	sum := md5.Sum(content)
	result := &ReceivedFile{
		Name:    name,
		Size:    int64(len(content)),
		MD5Hex:  hex.EncodeToString(sum[:]),
		Content: content,
	}
	log.Printf("session: received %s (%d/%d bytes, md5 %s)", name, result.Size, size, result.MD5Hex)

	if result.Size < size {
		return result, fmt.Errorf("session: %w", io.ErrUnexpectedEOF)
	}

	if onProgress != nil {
		onProgress(result.Size, size, "transfer complete")
	}
	return result, nil
}
