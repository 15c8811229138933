package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/assetdesk/assetdesk-backend/internal/assets"
	"github.com/assetdesk/assetdesk-backend/internal/ledger"
	"github.com/assetdesk/assetdesk-backend/pkg/config"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"github.com/assetdesk/assetdesk-backend/pkg/logger"
	"github.com/go-resty/resty/v2"
)

// Placeholder is returned whenever the collaborator cannot answer. The
// boundary never propagates a fatal error to the caller.
const Placeholder = "AI summary is unavailable right now. Configure an API key to enable inventory insights."

const recentTransactionCount = 10

// Snapshot is the read-only JSON-serializable view handed to the
// external summarization collaborator.
type Snapshot struct {
	TotalAssets        int            `json:"totalAssets"`
	StatusCounts       map[string]int `json:"statusCounts"`
	RecentTransactions []SnapshotTxn  `json:"recentTransactions"`
}

// SnapshotTxn is one recent ledger entry in collaborator form.
type SnapshotTxn struct {
	Type      string `json:"type"`
	AssetName string `json:"assetName"`
	Date      string `json:"date"`
	Notes     string `json:"notes,omitempty"`
}

// Service produces a free-text inventory summary via an external model.
type Service interface {
	BuildSnapshot(ctx context.Context) (*Snapshot, error)
	Summarize(ctx context.Context) string
}

type service struct {
	assetRepo  assets.Repository
	ledgerRepo ledger.Repository
	cfg        config.OpenAIConfig
	client     *resty.Client
	logg       *logger.Logger
}

// NewService wires the summary collaborator. A missing API key is a
// normal condition handled per call, not a construction failure.
func NewService(assetRepo assets.Repository, ledgerRepo ledger.Repository, cfg config.OpenAIConfig, logg *logger.Logger) (Service, error) {
	if assetRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "asset repository required")
	}
	if ledgerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ledger repository required")
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(30 * time.Second)
	return &service{
		assetRepo:  assetRepo,
		ledgerRepo: ledgerRepo,
		cfg:        cfg,
		client:     client,
		logg:       logg,
	}, nil
}

func (s *service) BuildSnapshot(ctx context.Context) (*Snapshot, error) {
	assetList, err := s.assetRepo.List(ctx, assets.ListFilter{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assets for snapshot")
	}
	recent, err := s.ledgerRepo.ListRecent(ctx, recentTransactionCount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transactions for snapshot")
	}

	snapshot := &Snapshot{
		TotalAssets:  len(assetList),
		StatusCounts: map[string]int{},
	}
	for _, asset := range assetList {
		snapshot.StatusCounts[string(asset.Status)]++
	}
	for _, transaction := range recent {
		entry := SnapshotTxn{
			Type:      string(transaction.Type),
			AssetName: transaction.AssetName,
			Date:      transaction.Timestamp.Format(time.RFC3339),
		}
		if transaction.Notes != nil {
			entry.Notes = *transaction.Notes
		}
		snapshot.RecentTransactions = append(snapshot.RecentTransactions, entry)
	}
	return snapshot, nil
}

// Summarize returns prose about the current inventory, or the
// placeholder when the collaborator is unavailable or errors.
func (s *service) Summarize(ctx context.Context) string {
	if strings.TrimSpace(s.cfg.APIKey) == "" {
		return Placeholder
	}

	snapshot, err := s.BuildSnapshot(ctx)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "summary snapshot failed", err)
		}
		return Placeholder
	}

	var completion chatCompletionResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(s.cfg.APIKey).
		SetBody(chatCompletionRequest{
			Model: s.cfg.Model,
			Messages: []chatMessage{
				{Role: "system", Content: "You are an inventory analyst. Summarize asset status and recent activity in a short paragraph."},
				{Role: "user", Content: promptFromSnapshot(snapshot)},
			},
		}).
		SetResult(&completion).
		Post("/v1/chat/completions")
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "summary call failed", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "summarization request"))
		}
		return Placeholder
	}
	if resp.IsError() || len(completion.Choices) == 0 {
		if s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("summary collaborator returned status %d", resp.StatusCode()))
		}
		return Placeholder
	}

	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return Placeholder
	}
	return text
}

func promptFromSnapshot(snapshot *Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total assets: %d\n", snapshot.TotalAssets)
	for status, count := range snapshot.StatusCounts {
		fmt.Fprintf(&b, "%s: %d\n", status, count)
	}
	b.WriteString("Recent transactions:\n")
	for _, transaction := range snapshot.RecentTransactions {
		fmt.Fprintf(&b, "- %s %s at %s %s\n", transaction.Type, transaction.AssetName, transaction.Date, transaction.Notes)
	}
	return b.String()
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
