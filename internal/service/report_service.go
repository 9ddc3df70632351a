package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/mailer"
	"github.com/andresuchdata/stockpulse/internal/metrics"
	"github.com/andresuchdata/stockpulse/internal/repository"
	"github.com/andresuchdata/stockpulse/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	reportSheet       = "Inventory"
	reportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReportService runs the weekly inventory report: recompute the snapshot,
// render a workbook and hand it to the delivery collaborator. Computation
// and delivery are independent failure domains; a failed send never rolls
// back the persisted snapshot.
type ReportService struct {
	engine    *metrics.Engine
	params    metrics.Params
	products  repository.ProductRepository
	snapshots repository.MetricRepository
	sender    mailer.Sender
	archive   storage.ObjectStorage
	recipient string

	now func() time.Time
}

func NewReportService(
	engine *metrics.Engine,
	params metrics.Params,
	products repository.ProductRepository,
	snapshots repository.MetricRepository,
	sender mailer.Sender,
	archive storage.ObjectStorage,
	recipient string,
) *ReportService {
	return &ReportService{
		engine:    engine,
		params:    params,
		products:  products,
		snapshots: snapshots,
		sender:    sender,
		archive:   archive,
		recipient: recipient,
		now:       time.Now,
	}
}

// RunWeekly recomputes the snapshot and delivers the workbook. Errors past
// the recompute step leave a valid, fully persisted snapshot behind.
func (s *ReportService) RunWeekly(ctx context.Context) error {
	if _, err := s.engine.Recompute(ctx, s.params); err != nil {
		return fmt.Errorf("weekly report: recompute: %w", err)
	}

	workbook, rows, err := s.BuildWorkbook(ctx)
	if err != nil {
		return fmt.Errorf("weekly report: build workbook: %w", err)
	}

	filename := fmt.Sprintf("inventory-report-%s.xlsx", s.now().Format("2006-01-02"))

	if s.archive != nil {
		if err := s.archive.Upload(ctx, filename, workbook, reportContentType); err != nil {
			log.Warn().Err(err).Str("key", filename).Msg("weekly report: archive upload failed")
		}
	}

	if s.sender == nil || s.recipient == "" {
		log.Warn().Msg("weekly report: no delivery recipient configured, skipping send")
		return nil
	}

	err = s.sender.Send(ctx, mailer.Message{
		To:      s.recipient,
		Subject: "Weekly Inventory Metrics",
		Body:    "Please find attached the weekly inventory report.",
		Attachment: &mailer.Attachment{
			Filename:    filename,
			Content:     workbook,
			ContentType: reportContentType,
		},
	})
	if err != nil {
		return fmt.Errorf("weekly report: delivery: %w", err)
	}

	log.Info().Str("recipient", s.recipient).Int("rows", rows).Msg("weekly inventory report sent")
	return nil
}

// BuildWorkbook renders the current snapshot into an xlsx workbook, one row
// per product×flavor, and returns the serialized bytes plus the row count.
func (s *ReportService) BuildWorkbook(ctx context.Context) ([]byte, int, error) {
	snapshot, err := s.snapshots.FindAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[primitive.ObjectID]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", reportSheet)
	if err := f.SetSheetRow(reportSheet, "A1", &[]interface{}{
		"Product", "SKU", "Flavor", "currentStock", "Avg Weekly", "Reorder Pt", "Velocity",
	}); err != nil {
		return nil, 0, err
	}
	_ = f.SetColWidth(reportSheet, "A", "A", 30)
	_ = f.SetColWidth(reportSheet, "B", "B", 25)
	_ = f.SetColWidth(reportSheet, "C", "C", 20)
	_ = f.SetColWidth(reportSheet, "D", "G", 12)

	row := 1
	for _, doc := range snapshot {
		product, ok := byID[doc.Product]
		if !ok {
			log.Warn().
				Str("product_id", doc.Product.Hex()).
				Msg("weekly report: snapshot references deleted product, skipping")
			continue
		}

		for _, fm := range doc.FlavorMetrics {
			row++
			cell := fmt.Sprintf("A%d", row)
			if err := f.SetSheetRow(reportSheet, cell, &[]interface{}{
				product.Name,
				orNA(product.SKU),
				orNA(flavorLabel(fm.FlavorName)),
				product.FlavorStock(fm.FlavorName),
				math.Round(fm.AvgWeeklySales),
				math.Round(fm.ReorderPoint),
				string(fm.SalesVelocity),
			}); err != nil {
				return nil, 0, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), row - 1, nil
}

func flavorLabel(name *string) string {
	if name == nil {
		return ""
	}
	return *name
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
