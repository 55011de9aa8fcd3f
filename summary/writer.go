package summary

import (
	"fmt"
	"unsafe"

	"github.com/v2pro/plz/countlog"

	"github.com/equinor/resdata-sub001/endian"
	"github.com/equinor/resdata-sub001/format"
	"github.com/equinor/resdata-sub001/fortio"
	"github.com/equinor/resdata-sub001/internal/options"
	"github.com/equinor/resdata-sub001/record"
	"github.com/equinor/resdata-sub001/smspec"
)

type writerConfig struct {
	formatted   bool
	engine      endian.EndianEngine
	compression format.CompressionType
}

// WriterOption configures a Writer.
type WriterOption = options.Option[*writerConfig]

// WithFormattedOutput selects the text layout and the FSMSPEC / FUNSMRY file
// names.
func WithFormattedOutput(formatted bool) WriterOption {
	return options.NoError(func(c *writerConfig) {
		c.formatted = formatted
	})
}

// WithOutputEndian sets the byte order of binary output. The default is
// big-endian.
func WithOutputEndian(engine endian.EndianEngine) WriterOption {
	return options.New(func(c *writerConfig) error {
		if engine == nil {
			return fmt.Errorf("nil endian engine")
		}
		c.engine = engine

		return nil
	})
}

// WithOutputCompression compresses both output files and appends the
// matching suffix to their names.
func WithOutputCompression(compression format.CompressionType) WriterOption {
	return options.New(func(c *writerConfig) error {
		switch compression {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			c.compression = compression
			return nil
		default:
			return fmt.Errorf("invalid compression type: %v", compression)
		}
	})
}

// Writer accumulates the timesteps of a new case and writes its header and
// unified data file.
type Writer struct {
	base string
	idx  *smspec.Index
	data *FileData
	cfg  *writerConfig
}

// NewWriter creates a writer for the case caseBase, a path without
// extension, with the variables of idx.
func NewWriter(caseBase string, idx *smspec.Index, opts ...WriterOption) (*Writer, error) {
	cfg := &writerConfig{
		engine:      endian.GetBigEndianEngine(),
		compression: format.CompressionNone,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Writer{
		base: caseBase,
		idx:  idx,
		data: NewFileData(idx),
		cfg:  cfg,
	}, nil
}

// Index returns the header index of the case.
func (w *Writer) Index() *smspec.Index { return w.idx }

// Len returns the number of timesteps added so far.
func (w *Writer) Len() int { return w.data.Len() }

// AddTimestep appends a timestep at seconds in report step report. Ministeps
// are numbered in order of addition.
func (w *Writer) AddTimestep(report int, seconds float64) (*Timestep, error) {
	return w.data.AddTimestep(report, w.data.Len(), seconds)
}

// Set sets the variable key of step.
func (w *Writer) Set(step *Timestep, key string, v float32) error {
	slot, err := w.idx.Slot(key)
	if err != nil {
		return err
	}

	return step.Set(slot, v)
}

// Paths returns the header and data file names Flush writes.
func (w *Writer) Paths() (string, string, error) {
	header, err := format.FileName(w.base, format.FileSummaryHeader, w.cfg.formatted, -1)
	if err != nil {
		return "", "", err
	}
	data, err := format.FileName(w.base, format.FileUnifiedSummary, w.cfg.formatted, -1)
	if err != nil {
		return "", "", err
	}
	suffix := w.cfg.compression.Suffix()

	return header + suffix, data + suffix, nil
}

func (w *Writer) cursorOptions() []fortio.Option {
	return []fortio.Option{
		fortio.WithFormatted(w.cfg.formatted),
		fortio.WithEndian(w.cfg.engine),
		fortio.WithCompression(w.cfg.compression),
	}
}

// Flush writes the header file and the unified data file, replacing earlier
// output.
func (w *Writer) Flush() error {
	headerPath, dataPath, err := w.Paths()
	if err != nil {
		return err
	}

	if err := w.idx.Save(headerPath, w.cursorOptions()...); err != nil {
		return fmt.Errorf("writing %s: %w", headerPath, err)
	}

	c, err := fortio.Open(dataPath, fortio.ModeWrite, w.cursorOptions()...)
	if err != nil {
		return err
	}
	if err := WriteData(c, w.data); err != nil {
		c.Close()
		return fmt.Errorf("writing %s: %w", dataPath, err)
	}
	if err := c.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", dataPath, err)
	}

	if stats := c.Stats(); stats.OriginalSize > 0 {
		countlog.Info("event!summary.compressed",
			"path", dataPath,
			"algorithm", stats.Algorithm.String(),
			"original", stats.OriginalSize,
			"compressed", stats.CompressedSize,
			"savings", stats.SpaceSavings())
	}
	countlog.Info("event!summary.written", "header", headerPath, "data", dataPath, "steps", w.data.Len())

	return nil
}

// WriteData writes the timesteps of fd as SEQHDR, MINISTEP and PARAMS
// records. A SEQHDR opens every report step.
func WriteData(c *fortio.Cursor, fd *FileData) error {
	report := 0
	for i, ts := range fd.steps {
		if i == 0 || ts.Report != report {
			report = ts.Report
			seqhdr, err := record.FromInts(RecSeqHdr, []int32{0})
			if err != nil {
				return err
			}
			if err := seqhdr.Write(c); err != nil {
				return err
			}
		}

		ministep, err := record.FromInts(RecMinistep, []int32{int32(ts.Ministep)})
		if err != nil {
			return err
		}
		if err := ministep.Write(c); err != nil {
			return err
		}

		params, err := record.NewShared(RecParams, format.TypeReal, float32Bytes(ts.Values))
		if err != nil {
			return err
		}
		if err := params.Write(c); err != nil {
			return err
		}
	}

	return nil
}

// float32Bytes views values as the host order bytes of a REAL record.
func float32Bytes(values []float32) []byte {
	if len(values) == 0 {
		return nil
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), len(values)*4)
}
