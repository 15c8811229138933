package qrexport

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/assetdesk/assetdesk-backend/pkg/db/models"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"github.com/assetdesk/assetdesk-backend/pkg/logger"
	"github.com/assetdesk/assetdesk-backend/pkg/metrics"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// archiveFolder is the fixed folder name nested inside the archive.
const archiveFolder = "qrcodes"

// Result reports a finished batch. The archive is only populated after
// every per-item encoding has joined; there is no partial delivery.
type Result struct {
	Archive   []byte `json:"-"`
	Generated int    `json:"generated"`
	Skipped   int    `json:"skipped"`
}

// Service packages one scannable code per asset id into a zip archive.
type Service interface {
	BuildArchive(ctx context.Context, assetList []models.Asset) (*Result, error)
}

type service struct {
	imageSize   int
	concurrency int
	logg        *logger.Logger
	metrics     *metrics.Metrics
}

// NewService wires the QR batch exporter.
func NewService(imageSize, concurrency int, logg *logger.Logger, m *metrics.Metrics) Service {
	if imageSize <= 0 {
		imageSize = 256
	}
	if concurrency <= 0 {
		concurrency = 8
	}
	return &service{imageSize: imageSize, concurrency: concurrency, logg: logg, metrics: m}
}

// BuildArchive encodes all asset ids concurrently, joins, then writes
// the archive. A single encoding failure is logged and that asset is
// skipped; the batch runs to completion. No per-item retries.
func (s *service) BuildArchive(ctx context.Context, assetList []models.Asset) (*Result, error) {
	type encoded struct {
		assetID string
		png     []byte
	}

	var (
		mu      sync.Mutex
		images  []encoded
		skipped []string
		encErrs error
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)

	for _, asset := range assetList {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			// The payload is the asset id string; scanning resolves the
			// asset by id.
			png, err := qrcode.Encode(asset.ID, qrcode.Medium, s.imageSize)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				skipped = append(skipped, asset.ID)
				encErrs = multierr.Append(encErrs, pkgerrors.Wrap(pkgerrors.CodeEncoding, err, fmt.Sprintf("encode qr for %s", asset.ID)))
				return nil
			}
			images = append(images, encoded{assetID: asset.ID, png: png})
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "qr batch interrupted")
	}

	if encErrs != nil && s.logg != nil {
		s.logg.Error(ctx, "qr batch skipped assets", encErrs)
	}

	// Deterministic archive layout regardless of completion order.
	sort.Slice(images, func(i, j int) bool { return images[i].assetID < images[j].assetID })

	buf := &bytes.Buffer{}
	archive := zip.NewWriter(buf)
	for _, image := range images {
		entry, err := archive.Create(fmt.Sprintf("%s/%s_qr.png", archiveFolder, image.assetID))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeEncoding, err, "create archive entry")
		}
		if _, err := entry.Write(image.png); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeEncoding, err, "write archive entry")
		}
	}
	if err := archive.Close(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeEncoding, err, "finalize archive")
	}

	s.metrics.AddQRItems("generated", len(images))
	s.metrics.AddQRItems("skipped", len(skipped))

	return &Result{
		Archive:   buf.Bytes(),
		Generated: len(images),
		Skipped:   len(skipped),
	}, nil
}
