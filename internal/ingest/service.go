package ingest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jedmarcnocum/spendledger-backend/internal/decode"
	"github.com/jedmarcnocum/spendledger-backend/internal/directory"
	"github.com/jedmarcnocum/spendledger-backend/pkg/config"
	pkgerrors "github.com/jedmarcnocum/spendledger-backend/pkg/errors"
	"github.com/jedmarcnocum/spendledger-backend/pkg/logger"
	"github.com/jedmarcnocum/spendledger-backend/pkg/metrics"
)

// Service runs the full pipeline for one uploaded workbook: decode, reconcile,
// aggregate, persist.
type Service interface {
	IngestBatch(ctx context.Context, input BatchInput) (*BatchReport, error)
}

// directoryWriter is the slice of the directory service the pipeline needs.
type directoryWriter interface {
	PersistBatch(ctx context.Context, input directory.PersistInput) (*directory.PersistResult, error)
}

// BatchInput is one uploaded workbook plus its decode options. Mode is the
// caller's decoder override; empty means sniff from the customer lines.
type BatchInput struct {
	Filename string
	Reader   io.Reader
	Mode     string
}

type service struct {
	directory directoryWriter
	cfg       config.UploadConfig
	logg      *logger.Logger
	metrics   *metrics.PipelineMetrics
}

// NewService wires the pipeline with its directory writer and upload config.
func NewService(dir directoryWriter, cfg config.UploadConfig, logg *logger.Logger, pm *metrics.PipelineMetrics) (Service, error) {
	if dir == nil {
		return nil, fmt.Errorf("directory writer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{directory: dir, cfg: cfg, logg: logg, metrics: pm}, nil
}

// IngestBatch validates and computes everything before the first store write,
// so a rejected batch never mutates the directory. A store failure after
// aggregation still returns the computed report alongside the error.
func (s *service) IngestBatch(ctx context.Context, input BatchInput) (*BatchReport, error) {
	start := time.Now()
	ctx = s.logg.WithFilename(ctx, input.Filename)

	workbook, err := ReadWorkbook(input.Reader, s.cfg)
	if err != nil {
		s.metrics.ObserveBatch("rejected", time.Since(start))
		return nil, err
	}

	lines := workbook.CustomerLines()
	mode := decode.Mode("")
	if input.Mode != "" {
		mode, err = decode.ParseMode(input.Mode)
		if err != nil {
			s.metrics.ObserveBatch("rejected", time.Since(start))
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid decoder mode")
		}
	} else {
		mode = decode.Sniff(lines)
	}

	decoded, err := decode.DecodeBatch(lines, mode)
	if err != nil {
		s.metrics.ObserveBatch("rejected", time.Since(start))
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "customer sheet failed decoding")
	}
	for _, skipped := range decoded.Skipped {
		lineCtx := s.logg.WithFields(ctx, map[string]any{
			"line_index": skipped.Index,
		})
		s.logg.Warn(lineCtx, fmt.Sprintf("skipping malformed customer line: %v", skipped.Err))
	}
	s.metrics.AddSkippedLines(len(decoded.Skipped))

	transactions, err := NewTable(workbook.Transactions)
	if err != nil {
		s.metrics.ObserveBatch("rejected", time.Since(start))
		return nil, err
	}
	products, err := NewTable(workbook.Products)
	if err != nil {
		s.metrics.ObserveBatch("rejected", time.Since(start))
		return nil, err
	}

	reconciled, err := Reconcile(transactions, products, decoded.Records)
	if err != nil {
		s.metrics.ObserveBatch("rejected", time.Since(start))
		return nil, err
	}
	if reconciled.Dropped > 0 {
		s.logg.Warn(ctx, fmt.Sprintf("dropped %d transactions unmatched by product or customer", reconciled.Dropped))
	}
	s.metrics.AddDroppedRows(reconciled.Dropped)

	agg := Aggregate(reconciled.Rows)

	totals, spenders, ranking := toReportViews(agg)
	report := &BatchReport{
		Filename:             input.Filename,
		DecoderMode:          string(mode),
		TransactionsRowCount: transactions.Len(),
		CustomersRowCount:    len(decoded.Records),
		ProductsRowCount:     products.Len(),
		DroppedRows:          reconciled.Dropped,
		CategoryTotals:       totals,
		TopSpenders:          spenders,
		CustomerRanking:      ranking,
	}
	for _, skipped := range decoded.Skipped {
		report.SkippedLines = append(report.SkippedLines, SkippedLineDTO{
			LineIndex: skipped.Index,
			Reason:    skipped.Err.Error(),
		})
	}

	persisted, err := s.directory.PersistBatch(ctx, directory.PersistInput{
		Filename:             input.Filename,
		TransactionsRowCount: transactions.Len(),
		CustomersRowCount:    len(decoded.Records),
		ProductsRowCount:     products.Len(),
		Customers:            decoded.Records,
	})
	if err != nil {
		// Reporting is decoupled from persistence: the caller still gets the
		// aggregates this batch computed.
		s.logg.Error(ctx, "directory persistence failed", err)
		s.metrics.ObserveBatch("store_failed", time.Since(start))
		return report, err
	}
	report.BatchID = persisted.BatchID
	report.AddressChanges = persisted.AddressChanges
	report.Persisted = true

	ctx = s.logg.WithBatchID(ctx, persisted.BatchID)
	s.logg.Info(ctx, fmt.Sprintf(
		"batch ingested: %d transactions, %d customers, %d products, %d address changes",
		transactions.Len(), len(decoded.Records), products.Len(), persisted.AddressChanges,
	))
	s.metrics.ObserveBatch("ok", time.Since(start))
	return report, nil
}
