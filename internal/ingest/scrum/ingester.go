package scrum

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/fortuna/ceres/internal/store"
	"github.com/fortuna/ceres/internal/store/repository"
)

const (
	defaultWorkerCount = 8
	fetchAttempts      = 3
	fetchBackoff       = 2 * time.Second
)

// Publisher receives every persisted entity. Implemented by the Redis
// stream publisher; nil disables publishing.
type Publisher interface {
	PublishEntity(ctx context.Context, kind string, entity interface{}) error
}

// Checkpoints persists crawl cursors between runs so an interrupted
// harvest resumes from the last completed page. Nil disables resume.
type Checkpoints interface {
	CrawlCursor(ctx context.Context, category int) (int, error)
	SetCrawlCursor(ctx context.Context, category, page int) error
	ClearCrawlCursor(ctx context.Context, category int) error
}

// Progress is a point-in-time snapshot of a running harvest.
type Progress struct {
	RunID    int            `json:"run_id"`
	Pages    map[string]int `json:"pages"`
	Matches  int            `json:"matches"`
	Failures int            `json:"failures"`
	Players  int            `json:"players"`
	Done     bool           `json:"done"`
}

// Ingester drives the whole harvest: it walks the search result pages
// per category, extracts every listed match, persists the records and
// hands them to the publisher.
type Ingester struct {
	client      *Client
	db          *store.Database
	matchRepo   *repository.MatchRepository
	teamRepo    *repository.TeamRepository
	playerRepo  *repository.PlayerRepository
	statsRepo   *repository.StatsRepository
	publisher   Publisher
	checkpoints Checkpoints

	WorkerCount int

	// OnProgress, when set, is invoked after every processed match and
	// page transition with a fresh snapshot.
	OnProgress func(Progress)

	mu       sync.Mutex
	progress Progress

	// bio fetches are deduplicated per run
	bioSeen sync.Map
}

// NewIngester creates an ingester against the live site.
func NewIngester(db *store.Database, requestsPerSecond float64) *Ingester {
	return NewIngesterWithClient(db, NewClient(requestsPerSecond))
}

// NewIngesterWithClient creates an ingester with a caller-supplied client.
func NewIngesterWithClient(db *store.Database, client *Client) *Ingester {
	return &Ingester{
		client:      client,
		db:          db,
		matchRepo:   repository.NewMatchRepository(db),
		teamRepo:    repository.NewTeamRepository(db),
		playerRepo:  repository.NewPlayerRepository(db),
		statsRepo:   repository.NewStatsRepository(db),
		WorkerCount: defaultWorkerCount,
	}
}

// SetPublisher attaches an entity publisher.
func (i *Ingester) SetPublisher(p Publisher) { i.publisher = p }

// SetCheckpoints attaches crawl cursor storage.
func (i *Ingester) SetCheckpoints(c Checkpoints) { i.checkpoints = c }

// Progress returns the current harvest snapshot.
func (i *Ingester) Progress() Progress {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.snapshotLocked()
}

func (i *Ingester) snapshotLocked() Progress {
	snap := i.progress
	snap.Pages = make(map[string]int, len(i.progress.Pages))
	for k, v := range i.progress.Pages {
		snap.Pages[k] = v
	}
	return snap
}

// Harvest walks every category until its result listing is exhausted.
// It returns the number of matches processed.
func (i *Ingester) Harvest(ctx context.Context, categories ...Category) (int, error) {
	if len(categories) == 0 {
		categories = DefaultCategories
	}

	runID, err := i.matchRepo.StartRun(ctx)
	if err != nil {
		return 0, fmt.Errorf("starting harvest run: %w", err)
	}

	state := NewCrawlState(categories...)
	state = i.restoreCursors(ctx, state)

	i.mu.Lock()
	i.progress = Progress{RunID: runID, Pages: make(map[string]int)}
	for _, c := range state.Active() {
		i.progress.Pages[c.String()] = state.Page(c)
	}
	i.mu.Unlock()

	pool, err := ants.NewPool(i.WorkerCount)
	if err != nil {
		return 0, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	zap.S().Infof("[harvest] run %d starting with categories %v", runID, state.Active())

	var harvestErr error
	for !state.Done() {
		if ctx.Err() != nil {
			harvestErr = ctx.Err()
			break
		}

		for _, category := range state.Active() {
			page := state.Page(category)
			doc, err := i.fetchSearchWithRetry(ctx, category, page)
			if err != nil {
				zap.S().Errorf("[harvest] search page %s/%d: %v", category, page, err)
				i.recordFailure()
				state = state.Complete(category)
				continue
			}

			result := ParseSearchPage(doc, category)
			if result.NoRecords {
				zap.S().Infof("[harvest] category %s exhausted at page %d", category, page)
				state = state.Complete(category)
				if i.checkpoints != nil {
					if err := i.checkpoints.ClearCrawlCursor(ctx, int(category)); err != nil {
						zap.S().Warnf("[harvest] clearing cursor for %s: %v", category, err)
					}
				}
				i.setPage(category, 0)
				continue
			}

			i.processPage(ctx, pool, result.Matches)

			state = state.Advance(category)
			i.setPage(category, state.Page(category))
			if i.checkpoints != nil {
				if err := i.checkpoints.SetCrawlCursor(ctx, int(category), state.Page(category)); err != nil {
					zap.S().Warnf("[harvest] storing cursor for %s: %v", category, err)
				}
			}
		}
	}

	i.mu.Lock()
	i.progress.Done = true
	snap := i.snapshotLocked()
	i.mu.Unlock()
	i.notify(snap)

	status := "completed"
	lastError := ""
	if harvestErr != nil {
		status = "failed"
		lastError = harvestErr.Error()
	}
	if err := i.matchRepo.FinishRun(ctx, runID, snap.Matches, snap.Failures, status, lastError); err != nil {
		zap.S().Errorf("[harvest] finishing run %d: %v", runID, err)
	}

	zap.S().Infof("[harvest] run %d %s: %d matches, %d failures", runID, status, snap.Matches, snap.Failures)
	return snap.Matches, harvestErr
}

// processPage extracts one page worth of matches on the worker pool and
// waits for all of them before the next page is requested.
func (i *Ingester) processPage(ctx context.Context, pool *ants.Pool, matches []*store.Match) {
	var wg sync.WaitGroup
	for _, match := range matches {
		match := match
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if err := i.harvestMatch(ctx, match); err != nil {
				zap.S().Errorf("[harvest] match %s: %v", match.ID, err)
				i.recordFailure()
				return
			}
			i.recordMatch()
		})
		if err != nil {
			wg.Done()
			zap.S().Errorf("[harvest] submitting match %s: %v", match.ID, err)
			i.recordFailure()
		}
	}
	wg.Wait()
}

// harvestMatch fetches one match page, follows the stats iframe,
// extracts everything it carries and persists it.
func (i *Ingester) harvestMatch(ctx context.Context, match *store.Match) error {
	outer, err := i.fetchWithRetry(ctx, matchPageURL(match.ID))
	if err != nil {
		return fmt.Errorf("fetching match page: %w", err)
	}

	doc := outer
	if src, ok := IframeURL(outer); ok {
		doc, err = i.fetchWithRetry(ctx, src)
		if err != nil {
			return fmt.Errorf("fetching stats frame: %w", err)
		}
	}

	parsed := ParseMatchPage(doc, match)
	if parsed == nil {
		return fmt.Errorf("no extractable headline for match %s", match.ID)
	}

	if err := i.persist(ctx, parsed); err != nil {
		return err
	}

	i.enrichPlayers(ctx, parsed.Players)
	return nil
}

// persist stores a parsed match in dependency order. Referenced rows
// (teams, match, players) go in before the records that point at them.
func (i *Ingester) persist(ctx context.Context, parsed *ParsedMatch) error {
	for _, team := range parsed.Teams {
		if err := i.teamRepo.Upsert(ctx, team); err != nil {
			return err
		}
		i.publish(ctx, "team", team)
	}

	if err := i.matchRepo.Upsert(ctx, parsed.Match); err != nil {
		return err
	}
	i.publish(ctx, "match", parsed.Match)

	if parsed.Venue != nil {
		if err := i.matchRepo.UpsertVenue(ctx, parsed.Venue); err != nil {
			return err
		}
		i.publish(ctx, "venue", parsed.Venue)
	}

	for _, player := range parsed.Players {
		if err := i.playerRepo.UpsertStub(ctx, player); err != nil {
			return err
		}
	}

	for _, ms := range parsed.MatchStats {
		if err := i.statsRepo.UpsertMatchStats(ctx, ms); err != nil {
			return err
		}
		i.publish(ctx, "match_stats", ms)
	}

	for _, ps := range parsed.PlayerStats {
		if err := i.statsRepo.UpsertPlayerStats(ctx, ps); err != nil {
			return err
		}
		i.publish(ctx, "player_stats", ps)
	}

	for _, ev := range parsed.GameEvents {
		if err := i.statsRepo.InsertGameEvent(ctx, ev); err != nil {
			return err
		}
		i.publish(ctx, "game_event", ev)
	}

	for _, mx := range parsed.MatchExtraStats {
		if err := i.statsRepo.UpsertMatchExtraStats(ctx, mx); err != nil {
			return err
		}
		i.publish(ctx, "match_extra_stats", mx)
	}

	for _, px := range parsed.PlayerExtraStats {
		if err := i.statsRepo.UpsertPlayerExtraStats(ctx, px); err != nil {
			return err
		}
		i.publish(ctx, "player_extra_stats", px)
	}

	return nil
}

// enrichPlayers fetches the bio page for players seen for the first
// time this run. Failures only cost the bio fields.
func (i *Ingester) enrichPlayers(ctx context.Context, players []*store.Player) {
	for _, player := range players {
		if _, dup := i.bioSeen.LoadOrStore(player.ID, struct{}{}); dup {
			continue
		}

		doc, err := i.client.FetchDocument(ctx, playerPageURL(player.ID))
		if err != nil {
			zap.S().Warnf("[harvest] player page %s: %v", player.ID, err)
			continue
		}

		if !ParsePlayerPage(doc, player) {
			continue
		}

		if err := i.playerRepo.UpdateBio(ctx, player); err != nil {
			zap.S().Warnf("[harvest] updating player %s bio: %v", player.ID, err)
			continue
		}
		i.publish(ctx, "player", player)
		i.recordPlayer()
	}
}

func (i *Ingester) publish(ctx context.Context, kind string, entity interface{}) {
	if i.publisher == nil {
		return
	}
	if err := i.publisher.PublishEntity(ctx, kind, entity); err != nil {
		zap.S().Warnf("[harvest] publish %s: %v", kind, err)
	}
}

func (i *Ingester) restoreCursors(ctx context.Context, state CrawlState) CrawlState {
	if i.checkpoints == nil {
		return state
	}
	for _, category := range state.Active() {
		page, err := i.checkpoints.CrawlCursor(ctx, int(category))
		if err != nil {
			zap.S().Warnf("[harvest] reading cursor for %s: %v", category, err)
			continue
		}
		for state.Page(category) < page {
			state = state.Advance(category)
		}
		if page > 1 {
			zap.S().Infof("[harvest] resuming category %s at page %d", category, page)
		}
	}
	return state
}

func (i *Ingester) fetchSearchWithRetry(ctx context.Context, category Category, page int) (*goquery.Document, error) {
	return i.fetchWithRetry(ctx, searchURL(category, page))
}

func (i *Ingester) fetchWithRetry(ctx context.Context, rawURL string) (*goquery.Document, error) {
	var lastErr error
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		doc, err := i.client.FetchDocument(ctx, rawURL)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		zap.S().Warnf("[harvest] fetch %s attempt %d/%d: %v", rawURL, attempt, fetchAttempts, err)
		if attempt < fetchAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * fetchBackoff):
			}
		}
	}
	return nil, lastErr
}

func (i *Ingester) recordMatch() {
	i.mu.Lock()
	i.progress.Matches++
	snap := i.snapshotLocked()
	i.mu.Unlock()
	i.notify(snap)
}

func (i *Ingester) recordFailure() {
	i.mu.Lock()
	i.progress.Failures++
	snap := i.snapshotLocked()
	i.mu.Unlock()
	i.notify(snap)
}

func (i *Ingester) recordPlayer() {
	i.mu.Lock()
	i.progress.Players++
	i.mu.Unlock()
}

func (i *Ingester) setPage(category Category, page int) {
	i.mu.Lock()
	if page == 0 {
		delete(i.progress.Pages, category.String())
	} else {
		i.progress.Pages[category.String()] = page
	}
	snap := i.snapshotLocked()
	i.mu.Unlock()
	i.notify(snap)
}

func (i *Ingester) notify(snap Progress) {
	if i.OnProgress != nil {
		i.OnProgress(snap)
	}
}
