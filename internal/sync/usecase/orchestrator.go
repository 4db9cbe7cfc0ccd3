package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"aura-backend/internal/extraction"
	factrepo "aura-backend/internal/fact/repository"
	factusecase "aura-backend/internal/fact/usecase"
	"aura-backend/internal/ingest/connector"
	ingestdomain "aura-backend/internal/ingest/domain"
	ingestrepo "aura-backend/internal/ingest/repository"
	propertydomain "aura-backend/internal/property/domain"
	propertyrepo "aura-backend/internal/property/repository"
	sourcedomain "aura-backend/internal/source/domain"
	syncdomain "aura-backend/internal/sync/domain"
	syncrepo "aura-backend/internal/sync/repository"
)

var (
	ErrUnknownSource     = errors.New("unknown source type")
	ErrNotRunning        = errors.New("no sync running for source")
	ErrSourceUnavailable = errors.New("source not connected or inactive")
)

// fallback progress step when the source cannot estimate a total
const (
	unboundedProgressStep = 10
	unboundedProgressCap  = 90
	boundedProgressCap    = 99
)

// CredentialProvider hands out a usable access token for one source
type CredentialProvider interface {
	GetAccessCredential(ctx context.Context, userID string, sourceType ingestdomain.SourceType) (string, error)
}

// ConnectedSourceLister enumerates a user's connected accounts
type ConnectedSourceLister interface {
	ListByUser(userID string) ([]*sourcedomain.DataSource, error)
}

// StatusReport is the poll response: one entry per source type plus an
// aggregate progress figure
type StatusReport struct {
	Sources         []*syncdomain.SyncState `json:"sources"`
	OverallProgress int                     `json:"overall_progress"`
	AnySyncing      bool                    `json:"any_syncing"`
}

// SyncUsecase drives the fetch/extract/categorize pipeline per source
type SyncUsecase interface {
	StartSync(userID string, source ingestdomain.SourceType) (*syncdomain.SyncState, error)
	StartSyncAll(userID string) ([]*syncdomain.SyncState, error)
	Cancel(userID string, source ingestdomain.SourceType) error
	Status(userID string) (*StatusReport, error)
}

// Orchestrator runs one goroutine per (user, source) sync. The sync state
// repository's Begin is the serialization point; the in-process cancel map
// only tracks runs owned by this instance.
type Orchestrator struct {
	syncRepo     syncrepo.SyncStateRepository
	itemRepo     ingestrepo.IngestItemRepository
	entityRepo   ingestrepo.ExtractedEntityRepository
	factRepo     factrepo.FactRepository
	propertyRepo propertyrepo.PropertyRepository
	credentials  CredentialProvider
	sources      ConnectedSourceLister
	connectors   map[ingestdomain.SourceType]connector.Connector
	retrier      *connector.Retrier
	pipeline     *extraction.Pipeline
	categorizer  *factusecase.Categorizer
	stallTimeout time.Duration

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

func NewOrchestrator(
	syncRepo syncrepo.SyncStateRepository,
	itemRepo ingestrepo.IngestItemRepository,
	entityRepo ingestrepo.ExtractedEntityRepository,
	factRepo factrepo.FactRepository,
	propertyRepo propertyrepo.PropertyRepository,
	credentials CredentialProvider,
	sources ConnectedSourceLister,
	connectors []connector.Connector,
	retrier *connector.Retrier,
	stallTimeout time.Duration,
) *Orchestrator {
	byType := make(map[ingestdomain.SourceType]connector.Connector, len(connectors))
	for _, c := range connectors {
		byType[c.SourceType()] = c
	}
	return &Orchestrator{
		syncRepo:     syncRepo,
		itemRepo:     itemRepo,
		entityRepo:   entityRepo,
		factRepo:     factRepo,
		propertyRepo: propertyRepo,
		credentials:  credentials,
		sources:      sources,
		connectors:   byType,
		retrier:      retrier,
		pipeline:     extraction.NewPipeline(),
		categorizer:  factusecase.NewCategorizer(),
		stallTimeout: stallTimeout,
		cancels:      make(map[string]context.CancelFunc),
	}
}

// StartSync begins a background sync for one source. Returns the state
// already marked syncing, or ErrAlreadyRunning.
func (o *Orchestrator) StartSync(userID string, source ingestdomain.SourceType) (*syncdomain.SyncState, error) {
	if _, ok := o.connectors[source]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}
	if err := o.checkSourceUsable(userID, source); err != nil {
		return nil, err
	}

	state, err := o.syncRepo.Begin(userID, source)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	o.mu.Lock()
	o.cancels[runKey(userID, source)] = cancel
	o.mu.Unlock()

	go o.runJob(ctx, userID, source, state.Watermark)

	return state, nil
}

// StartSyncAll fans out over the user's active sources. Each source runs
// independently; one failing or already running does not stop the others.
func (o *Orchestrator) StartSyncAll(userID string) ([]*syncdomain.SyncState, error) {
	connected, err := o.sources.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	var started []*syncdomain.SyncState
	for _, src := range connected {
		if !src.IsActive {
			continue
		}
		state, err := o.StartSync(userID, src.SourceType)
		if err != nil {
			// one source must not block the rest of the fan-out
			if errors.Is(err, syncrepo.ErrAlreadyRunning) {
				log.Printf("[SyncOrchestrator] skip %s/%s: already running", userID, src.SourceType)
			} else {
				log.Printf("[SyncOrchestrator] skip %s/%s: %v", userID, src.SourceType, err)
			}
			continue
		}
		started = append(started, state)
	}
	return started, nil
}

// Cancel stops a running sync. The job notices the context and returns
// the pair to idle with its watermark intact.
func (o *Orchestrator) Cancel(userID string, source ingestdomain.SourceType) error {
	o.mu.Lock()
	cancel, ok := o.cancels[runKey(userID, source)]
	o.mu.Unlock()
	if !ok {
		return ErrNotRunning
	}
	cancel()
	return nil
}

// Status reports every source's state, defaulting unseen sources to idle.
// OverallProgress is the mean across all source types.
func (o *Orchestrator) Status(userID string) (*StatusReport, error) {
	states, err := o.syncRepo.GetAll(userID)
	if err != nil {
		return nil, err
	}

	byType := make(map[ingestdomain.SourceType]*syncdomain.SyncState, len(states))
	for _, s := range states {
		byType[s.SourceType] = s
	}

	report := &StatusReport{}
	total := 0
	for _, source := range ingestdomain.AllSourceTypes {
		state, ok := byType[source]
		if !ok {
			state = &syncdomain.SyncState{
				UserID:     userID,
				SourceType: source,
				Status:     syncdomain.StatusIdle,
			}
		}
		report.Sources = append(report.Sources, state)
		total += state.Progress
		if state.Running() {
			report.AnySyncing = true
		}
	}
	report.OverallProgress = total / len(ingestdomain.AllSourceTypes)
	return report, nil
}

func (o *Orchestrator) checkSourceUsable(userID string, source ingestdomain.SourceType) error {
	connected, err := o.sources.ListByUser(userID)
	if err != nil {
		return err
	}
	for _, src := range connected {
		if src.SourceType == source {
			if !src.IsActive {
				return fmt.Errorf("%w: %s is disabled", ErrSourceUnavailable, source)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s is not connected", ErrSourceUnavailable, source)
}

func (o *Orchestrator) runJob(ctx context.Context, userID string, source ingestdomain.SourceType, watermark string) {
	defer func() {
		o.mu.Lock()
		delete(o.cancels, runKey(userID, source))
		o.mu.Unlock()
	}()

	conn := o.connectors[source]

	accessToken, err := o.credentials.GetAccessCredential(ctx, userID, source)
	if err != nil {
		o.finishWithError(userID, source, err)
		return
	}

	// Property directory is stable enough to load once per run
	properties, err := o.propertyRepo.ListByUser(userID)
	if err != nil {
		o.finishWithError(userID, source, err)
		return
	}

	processed := 0
	progress := 0
	for {
		batchCtx, cancelBatch := context.WithTimeout(ctx, o.stallTimeout)
		page, err := o.retrier.FetchSince(batchCtx, conn, userID, accessToken, watermark)
		cancelBatch()
		if err != nil {
			o.handleFetchFailure(ctx, userID, source, err)
			return
		}

		for _, item := range page.Items {
			if ctx.Err() != nil {
				o.handleFetchFailure(ctx, userID, source, ctx.Err())
				return
			}
			item.UserID = userID
			if err := o.processItem(item, properties); err != nil {
				log.Printf("[SyncOrchestrator] %s/%s item %s failed: %v", userID, source, item.ExternalID, err)
			}
		}
		processed += len(page.Items)

		// Items are durable now, so the watermark may advance
		watermark = page.NextWatermark
		if err := o.syncRepo.SetWatermark(userID, source, watermark); err != nil {
			o.finishWithError(userID, source, err)
			return
		}

		progress = nextProgress(progress, processed, page.EstimatedTotal)
		if err := o.syncRepo.UpdateProgress(userID, source, progress); err != nil {
			log.Printf("[SyncOrchestrator] %s/%s progress update failed: %v", userID, source, err)
		}

		if !page.HasMore {
			break
		}
	}

	if err := o.syncRepo.Complete(userID, source); err != nil {
		log.Printf("[SyncOrchestrator] %s/%s completion update failed: %v", userID, source, err)
		return
	}
	log.Printf("[SyncOrchestrator] %s/%s completed, %d items", userID, source, processed)
}

// processItem runs one item through persist, extract, and categorize
func (o *Orchestrator) processItem(item *ingestdomain.IngestItem, properties []*propertydomain.Property) error {
	stored, err := o.itemRepo.Upsert(item)
	if err != nil {
		return err
	}

	entities := o.pipeline.Extract(stored)
	if err := o.entityRepo.ReplaceForItem(stored.ID, entities); err != nil {
		return err
	}

	for _, fact := range o.categorizer.Categorize(stored, entities, properties) {
		if _, err := o.factRepo.Upsert(fact); err != nil {
			return err
		}
	}
	return nil
}

// handleFetchFailure maps a terminal fetch error onto the state machine:
// cancellation goes back to idle, everything else lands in error. The
// watermark is untouched either way, so the next run resumes cleanly.
func (o *Orchestrator) handleFetchFailure(ctx context.Context, userID string, source ingestdomain.SourceType, err error) {
	if ctx.Err() == context.Canceled {
		if resetErr := o.syncRepo.Reset(userID, source); resetErr != nil {
			log.Printf("[SyncOrchestrator] %s/%s reset after cancel failed: %v", userID, source, resetErr)
		}
		log.Printf("[SyncOrchestrator] %s/%s cancelled", userID, source)
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("sync stalled: no batch completed within %s", o.stallTimeout)
	}
	o.finishWithError(userID, source, err)
}

func (o *Orchestrator) finishWithError(userID string, source ingestdomain.SourceType, err error) {
	log.Printf("[SyncOrchestrator] %s/%s failed: %v", userID, source, err)
	if failErr := o.syncRepo.Fail(userID, source, err.Error()); failErr != nil {
		log.Printf("[SyncOrchestrator] %s/%s failure update failed: %v", userID, source, failErr)
	}
}

// nextProgress keeps the bar monotonic: proportional when the source
// reports a total, a bounded step per batch when it cannot
func nextProgress(current, processed, estimatedTotal int) int {
	if estimatedTotal > 0 {
		pct := processed * 100 / estimatedTotal
		if pct > boundedProgressCap {
			pct = boundedProgressCap
		}
		if pct > current {
			return pct
		}
		return current
	}

	next := current + unboundedProgressStep
	if next > unboundedProgressCap {
		next = unboundedProgressCap
	}
	return next
}

func runKey(userID string, source ingestdomain.SourceType) string {
	return userID + "|" + string(source)
}
