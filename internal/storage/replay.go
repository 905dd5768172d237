// Package storage — журналы повторов и sqlite-каталог сессий.
package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Формат файла повтора: открытый заголовок, затем zstd-поток кадров
// ввода. Симуляция детерминирована сидом, поэтому повтор — это только
// сид, стадия и лента ввода по 3 байта на тик.
const (
	replayMagic   = "ZERJ"
	replayVersion = 1

	flagJump  = 1 << 0
	flagEnter = 1 << 1
	flagMark  = 1 << 2
)

var (
	ErrBadMagic   = errors.New("replay: bad magic")
	ErrBadVersion = errors.New("replay: unsupported version")
)

// InputFrame — ввод одного тика в ленте повтора.
type InputFrame struct {
	Dx, Dy int8
	Jump   bool
	Enter  bool
	Mark   bool
}

// ReplayHeader — открытая часть файла повтора.
type ReplayHeader struct {
	Seed  int64
	Stage string
}

// ReplayWriter пишет ленту ввода сессии.
type ReplayWriter struct {
	f      *os.File
	zw     *zstd.Encoder
	frames int64
}

// NewReplayWriter создает файл повтора и пишет заголовок.
func NewReplayWriter(path string, seed int64, stage string) (*ReplayWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("replay create: %w", err)
	}
	if err := writeHeader(f, ReplayHeader{Seed: seed, Stage: stage}); err != nil {
		f.Close()
		return nil, err
	}
	zw, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("replay zstd: %w", err)
	}
	return &ReplayWriter{f: f, zw: zw}, nil
}

func writeHeader(w io.Writer, h ReplayHeader) error {
	if _, err := w.Write([]byte(replayMagic)); err != nil {
		return fmt.Errorf("replay header: %w", err)
	}
	if _, err := w.Write([]byte{replayVersion}); err != nil {
		return fmt.Errorf("replay header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, h.Seed); err != nil {
		return fmt.Errorf("replay header: %w", err)
	}
	stage := []byte(h.Stage)
	if err := binary.Write(w, binary.LittleEndian, uint16(len(stage))); err != nil {
		return fmt.Errorf("replay header: %w", err)
	}
	if _, err := w.Write(stage); err != nil {
		return fmt.Errorf("replay header: %w", err)
	}
	return nil
}

// Append дописывает кадр ввода.
func (w *ReplayWriter) Append(in InputFrame) error {
	var flags byte
	if in.Jump {
		flags |= flagJump
	}
	if in.Enter {
		flags |= flagEnter
	}
	if in.Mark {
		flags |= flagMark
	}
	if _, err := w.zw.Write([]byte{byte(in.Dx), byte(in.Dy), flags}); err != nil {
		return fmt.Errorf("replay append: %w", err)
	}
	w.frames++
	return nil
}

// Frames возвращает число записанных кадров.
func (w *ReplayWriter) Frames() int64 {
	return w.frames
}

// Close дожимает поток и закрывает файл.
func (w *ReplayWriter) Close() error {
	zerr := w.zw.Close()
	ferr := w.f.Close()
	if zerr != nil {
		return fmt.Errorf("replay close: %w", zerr)
	}
	if ferr != nil {
		return fmt.Errorf("replay close: %w", ferr)
	}
	return nil
}

// ReplayReader читает ленту повтора кадр за кадром.
type ReplayReader struct {
	f      *os.File
	zr     *zstd.Decoder
	Header ReplayHeader
}

// OpenReplay открывает файл повтора и валидирует заголовок.
func OpenReplay(path string) (*ReplayReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay open: %w", err)
	}

	h, err := readHeader(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	zr, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("replay zstd: %w", err)
	}
	return &ReplayReader{f: f, zr: zr, Header: h}, nil
}

func readHeader(r io.Reader) (ReplayHeader, error) {
	var h ReplayHeader

	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil {
		return h, fmt.Errorf("replay header: %w", err)
	}
	if string(magic) != replayMagic {
		return h, ErrBadMagic
	}

	ver := make([]byte, 1)
	if _, err := io.ReadFull(r, ver); err != nil {
		return h, fmt.Errorf("replay header: %w", err)
	}
	if ver[0] != replayVersion {
		return h, fmt.Errorf("%w: %d", ErrBadVersion, ver[0])
	}

	if err := binary.Read(r, binary.LittleEndian, &h.Seed); err != nil {
		return h, fmt.Errorf("replay header: %w", err)
	}
	var stageLen uint16
	if err := binary.Read(r, binary.LittleEndian, &stageLen); err != nil {
		return h, fmt.Errorf("replay header: %w", err)
	}
	stage := make([]byte, stageLen)
	if _, err := io.ReadFull(r, stage); err != nil {
		return h, fmt.Errorf("replay header: %w", err)
	}
	h.Stage = string(stage)
	return h, nil
}

// Next читает следующий кадр. Конец ленты — io.EOF.
func (r *ReplayReader) Next() (InputFrame, error) {
	buf := make([]byte, 3)
	if _, err := io.ReadFull(r.zr, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return InputFrame{}, io.EOF
		}
		return InputFrame{}, fmt.Errorf("replay read: %w", err)
	}
	return InputFrame{
		Dx:    int8(buf[0]),
		Dy:    int8(buf[1]),
		Jump:  buf[2]&flagJump != 0,
		Enter: buf[2]&flagEnter != 0,
		Mark:  buf[2]&flagMark != 0,
	}, nil
}

// Close закрывает декодер и файл.
func (r *ReplayReader) Close() error {
	r.zr.Close()
	return r.f.Close()
}
