package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/config"
	apperrors "sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

const (
	batchSize  = 250
	maxWorkers = 4
)

// Loader reads the configured source once. The first successful or failed
// read is remembered and returned on every later call; only context
// cancellation is retried.
type Loader struct {
	cfg    config.DataConfig
	logger *slog.Logger

	mu    sync.Mutex
	done  bool
	table *Table
	err   error
	reads int
}

func NewLoader(cfg config.DataConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{cfg: cfg, logger: logger}
}

func (l *Loader) Load(ctx context.Context) (*Table, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done {
		return l.table, l.err
	}

	l.reads++
	table, err := l.read(ctx)
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return nil, err
	}

	l.done = true
	l.table, l.err = table, err
	return table, err
}

// Reads reports how many times the source file has been read.
func (l *Loader) Reads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reads
}

func (l *Loader) read(ctx context.Context) (*Table, error) {
	start := time.Now()
	l.logger.Info("loading transactions",
		"file", l.cfg.File,
		"sheet", l.cfg.Sheet,
		"skip_rows", l.cfg.SkipRows,
		"columns", l.cfg.Columns,
		"max_rows", l.cfg.MaxRows,
	)

	var (
		header  []string
		records [][]string
		err     error
	)
	if l.cfg.IsCSV() {
		header, records, err = readCSV(ctx, l.cfg)
	} else {
		header, records, err = readSheet(ctx, l.cfg)
	}
	if err != nil {
		return nil, wrapLoadError(err, "read transactions")
	}

	cols, err := newColumnIndex(header)
	if err != nil {
		return nil, apperrors.DataLoad(err, "invalid header row")
	}

	rows, err := parseRecords(ctx, records, cols, l.cfg.SkipRows+2)
	if err != nil {
		return nil, wrapLoadError(err, "parse transactions")
	}
	if len(rows) == 0 {
		return nil, apperrors.DataLoad(errors.New("no data rows"), "empty transaction table")
	}

	table := newTable(rows, l.cfg.File)
	l.logger.Info("transactions loaded",
		"records", len(rows),
		"cities", len(table.options.Cities),
		"duration", time.Since(start),
	)
	return table, nil
}

func wrapLoadError(err error, message string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperrors.DataLoad(err, message)
}

// parseRecords converts records in parallel batches while keeping source
// order. firstRow is the spreadsheet row number of records[0], used in error
// messages.
func parseRecords(ctx context.Context, records [][]string, cols columnIndex, firstRow int) ([]models.Transaction, error) {
	rows := make([]models.Transaction, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				tx, err := parseTransaction(records[i], cols)
				if err != nil {
					return fmt.Errorf("row %d: %w", firstRow+i, err)
				}
				rows[i] = tx
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// readSheet streams the configured sheet and returns the header row and up to
// MaxRows data records, each cropped to the configured column range.
func readSheet(ctx context.Context, cfg config.DataConfig) ([]string, [][]string, error) {
	first, last, err := columnBounds(cfg.Columns)
	if err != nil {
		return nil, nil, err
	}

	f, err := excelize.OpenFile(cfg.File)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.Rows(cfg.Sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("open sheet %q: %w", cfg.Sheet, err)
	}
	defer rows.Close()

	var (
		header  []string
		records [][]string
		line    int
	)
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		line++
		if line <= cfg.SkipRows {
			continue
		}

		cells, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", line, err)
		}
		cells = cropColumns(cells, first, last)

		if header == nil {
			header = cells
			continue
		}
		if isBlank(cells) {
			break
		}
		records = append(records, cells)
		if len(records) >= cfg.MaxRows {
			break
		}
	}
	if err := rows.Error(); err != nil {
		return nil, nil, fmt.Errorf("scan sheet: %w", err)
	}
	if header == nil {
		return nil, nil, fmt.Errorf("sheet %q has no header row after skipping %d rows", cfg.Sheet, cfg.SkipRows)
	}

	return header, records, nil
}

func readCSV(ctx context.Context, cfg config.DataConfig) ([]string, [][]string, error) {
	file, err := os.Open(cfg.File)
	if err != nil {
		return nil, nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var (
		header  []string
		records [][]string
		line    int
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read line %d: %w", line+1, err)
		}

		line++
		if line <= cfg.SkipRows {
			continue
		}
		if header == nil {
			header = record
			continue
		}
		if isBlank(record) {
			break
		}
		records = append(records, record)
		if len(records) >= cfg.MaxRows {
			break
		}
	}
	if header == nil {
		return nil, nil, fmt.Errorf("empty file")
	}

	return header, records, nil
}

// columnBounds turns a range like "B:R" into zero-based inclusive indices.
func columnBounds(rng string) (int, int, error) {
	from, to, ok := strings.Cut(rng, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid column range %q", rng)
	}
	first, err := excelize.ColumnNameToNumber(from)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid column range %q: %w", rng, err)
	}
	last, err := excelize.ColumnNameToNumber(to)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid column range %q: %w", rng, err)
	}
	if last < first {
		return 0, 0, fmt.Errorf("invalid column range %q: end before start", rng)
	}
	return first - 1, last - 1, nil
}

func cropColumns(cells []string, first, last int) []string {
	out := make([]string, last-first+1)
	for i := first; i <= last && i < len(cells); i++ {
		out[i-first] = cells[i]
	}
	return out
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
