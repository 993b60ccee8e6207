package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"news-spectrum/cache"
	"news-spectrum/config"
	"news-spectrum/fallback"
	"news-spectrum/models"
	"news-spectrum/ranking"
	"news-spectrum/stance"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	cardDirectArticles  = 1000
	cardRelatedArticles = 40

	globalListKey = "global:list"
)

// GlobalService builds the global insights listing and megatopic cards.
type GlobalService struct {
	store      GlobalStore
	memo       memo
	log        *log.Logger
	window     time.Duration
	limit      int
	minVisible float64
	now        func() time.Time
}

// NewGlobalService creates the service. A nil store serves sample data.
func NewGlobalService(store GlobalStore, cfg config.Config, c cache.Cache, logger *log.Logger) *GlobalService {
	return &GlobalService{
		store:      store,
		memo:       newMemo(c, cfg.CacheTTL(), logger),
		log:        logger,
		window:     cfg.GlobalWindow(),
		limit:      cfg.GlobalLimit,
		minVisible: cfg.MinVisiblePercent,
		now:        time.Now,
	}
}

// List returns the recent megatopics ranked for display.
func (s *GlobalService) List(ctx context.Context) (Result[[]models.GlobalInsight], error) {
	if s.store == nil {
		return s.fallbackList(ErrNotConfigured.Error())
	}
	items, err := remember(ctx, s.memo, globalListKey, s.liveList)
	if err != nil {
		if !errors.Is(err, errNoRows) {
			s.log.Error("global insights query failed", "err", err)
		}
		return s.fallbackList(err.Error())
	}
	return live(items), nil
}

// Warm rebuilds the cached listing from the database.
func (s *GlobalService) Warm(ctx context.Context) error {
	if s.store == nil {
		return ErrNotConfigured
	}
	_, err := refresh(ctx, s.memo, globalListKey, s.liveList)
	return err
}

func (s *GlobalService) fallbackList(reason string) (Result[[]models.GlobalInsight], error) {
	items, err := fallback.GlobalInsights()
	if err != nil {
		return Result[[]models.GlobalInsight]{}, err
	}
	for i := range items {
		items[i].Distribution = distributionOf(s.minVisible, items[i].Stances)
	}
	return fellBack(items, reason), nil
}

func (s *GlobalService) liveList(ctx context.Context) ([]models.GlobalInsight, error) {
	topics, err := s.store.RecentGlobalTopics(ctx, s.now().Add(-s.window), s.limit)
	if err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("no global topics in the last %s: %w", s.window, errNoRows)
	}

	ids := make([]string, 0, len(topics))
	for _, t := range topics {
		ids = append(ids, t.ID)
	}
	linked, err := s.store.ArticlesByGlobalTopics(ctx, ids)
	if err != nil {
		s.log.Warn("global article linkage unavailable", "err", err)
	}

	countries := map[string]*orderedSet{}
	children := map[string]*orderedSet{}
	allChildren := &orderedSet{}
	for _, a := range linked {
		if a.GlobalTopicID == nil {
			continue
		}
		gid := *a.GlobalTopicID
		if countries[gid] == nil {
			countries[gid] = &orderedSet{}
		}
		countries[gid].add(a.CountryCode)
		if a.LocalTopicID != nil && *a.LocalTopicID != "" {
			if children[gid] == nil {
				children[gid] = &orderedSet{}
			}
			children[gid].add(*a.LocalTopicID)
			allChildren.add(*a.LocalTopicID)
		}
	}

	childStances := map[string]stance.Set{}
	if allChildren.len() > 0 {
		locals, err := s.store.LocalTopicsByIDs(ctx, allChildren.items)
		if err != nil {
			s.log.Warn("child topic stances unavailable", "err", err)
			children = nil
		}
		for _, lt := range locals {
			childStances[lt.ID] = lt.Stances
		}
	}

	items := make([]models.GlobalInsight, 0, len(topics))
	for _, t := range topics {
		merged := &orderedSet{}
		if c := countries[t.ID]; c != nil {
			merged.addAll(c.items)
		}
		merged.addAll(t.Countries)

		countryCount := t.CountryCount
		if merged.len() > 0 {
			countryCount = merged.len()
		}

		set := t.Stances
		if kids := children[t.ID]; kids != nil {
			var refs stance.Refs
			for _, id := range kids.items {
				if cs := childStances[id]; cs.Refs != nil {
					refs = refs.Merge(*cs.Refs)
				}
			}
			if child := (stance.Set{Refs: &refs}); !child.Empty() {
				set = child
			}
		}
		entries := set.Entries()

		items = append(items, models.GlobalInsight{
			ID:           t.ID,
			TitleKo:      firstNonEmpty(t.Headline, t.TitleKo, t.Name),
			TitleEn:      t.TitleEn,
			IntroKo:      t.IntroKo,
			IntroEn:      t.IntroEn,
			Category:     t.Category,
			ThumbnailURL: optional(t.ThumbnailURL),
			ArticleCount: t.ArticleCount,
			CountryCount: countryCount,
			Countries:    orEmpty(merged.items),
			Keywords:     t.Keywords,
			CreatedAt:    t.CreatedAt,
			Rank:         t.Rank,
			IsPinned:     t.IsPinned,
			Stances:      entries,
			Distribution: distributionOf(s.minVisible, entries),
			X:            t.X,
			Y:            t.Y,
		})
	}

	return ranking.RankBy(items, func(it models.GlobalInsight) ranking.Rankable {
		return ranking.Rankable{
			ID:           it.ID,
			Rank:         it.Rank,
			IsPinned:     it.IsPinned,
			ArticleCount: it.ArticleCount,
			CountryCount: it.CountryCount,
			CreatedAt:    it.CreatedAt,
		}
	}, ranking.PinAware), nil
}

// Card returns the perspectives card of a megatopic. Unknown or malformed
// ids resolve to the newest megatopic.
func (s *GlobalService) Card(ctx context.Context, id string) (Result[models.VsCard], error) {
	if s.store == nil {
		return s.fallbackCard(ErrNotConfigured.Error())
	}
	if u, err := uuid.Parse(id); err == nil {
		id = u.String()
	}
	card, err := s.cachedCard(ctx, id)
	if err != nil {
		if !errors.Is(err, errNoRows) {
			s.log.Error("megatopic card query failed", "id", id, "err", err)
		}
		return s.fallbackCard(err.Error())
	}
	return live(card), nil
}

func (s *GlobalService) fallbackCard(reason string) (Result[models.VsCard], error) {
	card, err := fallback.VsCard()
	if err != nil {
		return Result[models.VsCard]{}, err
	}
	s.annotateCard(&card)
	return fellBack(card, reason), nil
}

func (s *GlobalService) resolveTopic(ctx context.Context, id string) (*models.GlobalTopic, error) {
	topic, err := s.store.GlobalTopicByID(ctx, id)
	if err == nil {
		return topic, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	topic, err = s.store.LatestGlobalTopic(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("no megatopics: %w", errNoRows)
	}
	return topic, err
}

// cachedCard resolves id first so the cache is keyed by the megatopic the
// card describes, never by the requested id.
func (s *GlobalService) cachedCard(ctx context.Context, id string) (models.VsCard, error) {
	topic, err := s.resolveTopic(ctx, id)
	if err != nil {
		return models.VsCard{}, err
	}
	return remember(ctx, s.memo, cardKey(topic.ID), func(ctx context.Context) (models.VsCard, error) {
		return s.liveCard(ctx, topic)
	})
}

func cardKey(topicID string) string { return "global:card:" + topicID }

func (s *GlobalService) liveCard(ctx context.Context, topic *models.GlobalTopic) (models.VsCard, error) {
	linked, err := s.store.ArticlesByGlobalTopics(ctx, []string{topic.ID})
	if err != nil {
		return models.VsCard{}, err
	}
	localIDs := &orderedSet{}
	for _, a := range linked {
		if a.LocalTopicID != nil {
			localIDs.add(*a.LocalTopicID)
		}
	}
	locals, err := s.store.LocalTopicsByIDs(ctx, localIDs.items)
	if err != nil {
		return models.VsCard{}, err
	}

	thumbnail := topic.ThumbnailURL
	if thumbnail == "" {
		for _, lt := range locals {
			if lt.ThumbnailURL != "" {
				thumbnail = lt.ThumbnailURL
				break
			}
		}
	}

	var refs stance.Refs
	if topic.Stances.Refs != nil {
		refs = refs.Merge(*topic.Stances.Refs)
	}
	for _, lt := range locals {
		if lt.Stances.Refs != nil {
			refs = refs.Merge(*lt.Stances.Refs)
		}
	}
	refs = refs.Dedup()

	articles, err := s.cardArticles(ctx, topic.ID, refs)
	if err != nil {
		s.log.Warn("megatopic articles unavailable", "id", topic.ID, "err", err)
		articles = nil
	}

	related := make([]models.RelatedArticle, 0, cardRelatedArticles)
	for _, a := range articles {
		if len(related) == cardRelatedArticles {
			break
		}
		if a.GlobalTopicID == nil || *a.GlobalTopicID != topic.ID {
			continue
		}
		related = append(related, models.RelatedArticle{
			ID:            a.ID,
			Title:         a.DisplayTitle(),
			URL:           a.URL,
			Source:        a.SourceName,
			CountryCode:   a.CountryCode,
			TitleOriginal: a.TitleOriginal,
			TitleKo:       a.TitleKo,
			PublishedAt:   a.PublishedAt,
		})
	}

	buckets := refs.BucketOf()
	perspectives := make([]models.Perspective, 0, len(articles))
	for _, a := range articles {
		b, mapped := buckets[a.ID]
		direct := a.GlobalTopicID != nil && *a.GlobalTopicID == topic.ID
		if !mapped && !direct {
			continue
		}
		if !mapped {
			b = stance.Factual
		}
		perspectives = append(perspectives, models.Perspective{
			CountryCode: a.CountryCode,
			Stance:      b.WireLabel(),
			OneLinerKo:  a.DisplayTitle(),
			SourceLink:  a.URL,
			SourceName:  a.SourceName,
			FlagEmoji:   FlagEmoji(a.CountryCode),
		})
	}

	category := topic.Category
	if category == "" {
		category = dominantCategory(locals)
	}
	if articles == nil {
		articles = []models.Article{}
	}

	card := models.VsCard{
		TopicID:         topic.ID,
		Title:           firstNonEmpty(topic.TitleKo, topic.Headline, topic.Name),
		TitleEn:         topic.TitleEn,
		IntroKo:         topic.IntroKo,
		IntroEn:         topic.IntroEn,
		ThumbnailURL:    optional(thumbnail),
		AISummary:       optional(topic.AISummary),
		EditorComment:   optional(topic.EditorComment),
		Category:        optional(category),
		ArticleCount:    topic.ArticleCount,
		CountryCount:    topic.CountryCount,
		Countries:       orEmpty(topic.Countries),
		Keywords:        orEmpty(topic.Keywords),
		Stances:         perspectives,
		Perspectives:    []models.Perspective{},
		RelatedArticles: related,
		Articles:        articles,
	}
	s.annotateCard(&card)
	return card, nil
}

// cardArticles merges the articles linked to the megatopic with those its
// stance refs name, keeping the first position of each id.
func (s *GlobalService) cardArticles(ctx context.Context, topicID string, refs stance.Refs) ([]models.Article, error) {
	direct, err := s.store.ArticlesForGlobalTopic(ctx, topicID, cardDirectArticles)
	if err != nil {
		return nil, err
	}
	referenced, err := s.store.ArticlesByIDs(ctx, refs.AllIDs())
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(direct)+len(referenced))
	out := make([]models.Article, 0, len(direct)+len(referenced))
	for _, a := range append(direct, referenced...) {
		if i, ok := index[a.ID]; ok {
			out[i] = a
			continue
		}
		index[a.ID] = len(out)
		out = append(out, a)
	}
	return out, nil
}

func (s *GlobalService) annotateCard(card *models.VsCard) {
	signals := make([]stance.Signal, 0, len(card.Stances))
	for _, p := range card.Stances {
		signals = append(signals, stance.Signal{Label: p.Stance, CountryCode: p.CountryCode})
	}
	card.Distribution = stance.Aggregate(signals, s.minVisible)
	card.ByCountry = stance.AggregateByCountry(signals, s.minVisible)
}

// dominantCategory is the most frequent non-empty category; ties go to the
// category seen first.
func dominantCategory(locals []models.LocalTopic) string {
	counts := map[string]int{}
	order := &orderedSet{}
	for _, lt := range locals {
		if lt.Category == "" {
			continue
		}
		counts[lt.Category]++
		order.add(lt.Category)
	}
	best, bestCount := "", 0
	for _, c := range order.items {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best
}

// FlagEmoji renders a two-letter country code as its regional indicator
// flag.
func FlagEmoji(countryCode string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(countryCode) {
		b.WriteRune(127397 + r)
	}
	return b.String()
}

// orderedSet keeps the first occurrence order of non-empty strings.
type orderedSet struct {
	items []string
	seen  map[string]bool
}

func (o *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if o.seen == nil {
		o.seen = map[string]bool{}
	}
	if o.seen[v] {
		return
	}
	o.seen[v] = true
	o.items = append(o.items, v)
}

func (o *orderedSet) addAll(vs []string) {
	for _, v := range vs {
		o.add(v)
	}
}

func (o *orderedSet) len() int { return len(o.items) }
